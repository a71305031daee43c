// Package calculator contains the pure debt-derivation logic.
//
// Two strategies coexist and are chosen explicitly by the caller:
//
//   - AdvancerReimbursementStrategy routes every contributor's share to the
//     one person who paid the full price upfront. The debt ledger persists
//     its output.
//   - EqualSplitStrategy is the legacy display heuristic that splits each
//     item equally among its contributors. Its output is computed on demand
//     and never persisted.
//
// The two models intentionally disagree for the same data; they must be
// tested independently, not cross-validated against each other.
package calculator

import "sort"

// tolerance absorbs floating point noise when comparing amounts.
const tolerance = 0.01

// ContributionShare is one contributor's recorded amount toward an item,
// flattened for derivation.
type ContributionShare struct {
	UserID    string
	UserName  string
	Amount    float64
	ItemID    string
	ItemTitle string

	// HasAdvanced marks the contributor who paid the item's full price
	// upfront. Only the advancer-reimbursement strategy reads it.
	HasAdvanced bool
}

// DebtItem attributes part of a derived debt to a specific item.
type DebtItem struct {
	ItemID    string
	ItemTitle string
}

// ProposedDebt is a directional obligation derived by a strategy. It is not
// persisted state; the debt service decides what to do with it.
type ProposedDebt struct {
	FromUserID string
	FromUser   string
	ToUserID   string
	ToUser     string
	Amount     float64
	Items      []DebtItem
}

// DebtStrategy derives who owes whom from a flat contribution list.
type DebtStrategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// Derive computes directional debts. The input order is the creation
	// order of the contributions; output is sorted by (from, to) for
	// deterministic results.
	Derive(shares []ContributionShare) []ProposedDebt
}

// groupByItem buckets shares per item, preserving input order within each
// item and returning item IDs in first-seen order.
func groupByItem(shares []ContributionShare) ([]string, map[string][]ContributionShare) {
	var order []string
	byItem := make(map[string][]ContributionShare)
	for _, s := range shares {
		if _, ok := byItem[s.ItemID]; !ok {
			order = append(order, s.ItemID)
		}
		byItem[s.ItemID] = append(byItem[s.ItemID], s)
	}
	return order, byItem
}

// debtAccumulator merges per-item obligations into directional buckets.
type debtAccumulator struct {
	buckets map[string]*ProposedDebt
}

func newDebtAccumulator() *debtAccumulator {
	return &debtAccumulator{buckets: make(map[string]*ProposedDebt)}
}

func (a *debtAccumulator) add(from, to ContributionShare, amount float64, item DebtItem) {
	key := from.UserID + "->" + to.UserID
	d, ok := a.buckets[key]
	if !ok {
		d = &ProposedDebt{
			FromUserID: from.UserID,
			FromUser:   from.UserName,
			ToUserID:   to.UserID,
			ToUser:     to.UserName,
		}
		a.buckets[key] = d
	}
	d.Amount += amount
	d.Items = append(d.Items, item)
}

// result returns the accumulated debts above the noise floor, sorted by
// (from, to).
func (a *debtAccumulator) result() []ProposedDebt {
	debts := make([]ProposedDebt, 0, len(a.buckets))
	for _, d := range a.buckets {
		if d.Amount > tolerance {
			debts = append(debts, *d)
		}
	}
	sort.Slice(debts, func(i, j int) bool {
		if debts[i].FromUserID != debts[j].FromUserID {
			return debts[i].FromUserID < debts[j].FromUserID
		}
		return debts[i].ToUserID < debts[j].ToUserID
	})
	return debts
}
