package calculator

// EqualSplitStrategy is the legacy pairwise heuristic: each shared item is
// split equally among its contributors, and everyone who paid less than the
// per-person share owes the difference to the others who are short.
//
// This is a display-only model. It avoids circular reimbursements by
// accumulating min(otherShort, short) into a single directional bucket per
// (from, to) pair across all items.
type EqualSplitStrategy struct{}

// Name implements DebtStrategy.
func (EqualSplitStrategy) Name() string { return "equal-split" }

// Derive implements DebtStrategy.
func (EqualSplitStrategy) Derive(shares []ContributionShare) []ProposedDebt {
	order, byItem := groupByItem(shares)
	acc := newDebtAccumulator()

	for _, itemID := range order {
		contributors := byItem[itemID]
		if len(contributors) <= 1 {
			continue // nothing shared
		}
		item := DebtItem{ItemID: itemID, ItemTitle: contributors[0].ItemTitle}

		var total float64
		for _, c := range contributors {
			total += c.Amount
		}
		perPerson := total / float64(len(contributors))

		for _, contributor := range contributors {
			owed := perPerson - contributor.Amount
			if owed <= tolerance {
				continue // this person is not short
			}
			for _, other := range contributors {
				if other.UserID == contributor.UserID {
					continue
				}
				otherOwes := perPerson - other.Amount
				if otherOwes > 0 {
					amount := otherOwes
					if owed < amount {
						amount = owed
					}
					acc.add(other, contributor, amount, item)
				}
			}
		}
	}

	return acc.result()
}
