package calculator

// AdvancerReimbursementStrategy routes all debt for an item to the single
// contributor who advanced the full price: every other contributor owes the
// advancer exactly their own recorded amount. Items with no advancer imply
// no debts.
//
// The debt ledger persists this strategy's output; it is the authoritative
// reimbursement model.
type AdvancerReimbursementStrategy struct{}

// Name implements DebtStrategy.
func (AdvancerReimbursementStrategy) Name() string { return "advancer-reimbursement" }

// Derive implements DebtStrategy.
func (AdvancerReimbursementStrategy) Derive(shares []ContributionShare) []ProposedDebt {
	order, byItem := groupByItem(shares)
	acc := newDebtAccumulator()

	for _, itemID := range order {
		contributors := byItem[itemID]

		var advancer *ContributionShare
		for i := range contributors {
			if contributors[i].HasAdvanced {
				advancer = &contributors[i]
				break
			}
		}
		if advancer == nil {
			continue // nobody advanced, no debts implied
		}
		item := DebtItem{ItemID: itemID, ItemTitle: contributors[0].ItemTitle}

		for _, c := range contributors {
			if c.UserID == advancer.UserID {
				continue
			}
			acc.add(c, *advancer, c.Amount, item)
		}
	}

	return acc.result()
}
