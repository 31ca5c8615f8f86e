package ledgerstore

import (
	"fmt"

	"github.com/b3ledger/core/money"
)

// decodeAmount parses a persisted decimal string column back into a
// money.Amount, per §4.A: "persistence format is the decimal's canonical
// string... must decode back to the same Amount."
func decodeAmount(s string) (money.Amount, error) {
	a, err := money.NewFromString(s)
	if err != nil {
		return money.Zero, fmt.Errorf("ledgerstore: decode amount %q: %w", s, err)
	}
	return a, nil
}

func decodeAmountPtr(s *string) (*money.Amount, error) {
	if s == nil {
		return nil, nil
	}
	a, err := decodeAmount(*s)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func amountArg(a *money.Amount) interface{} {
	if a == nil {
		return nil
	}
	return a.String()
}
