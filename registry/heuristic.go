package registry

import "github.com/b3ledger/core/model"

// HeuristicProvider is the last-resort lookup of §4.C step 5: infer kind
// from ticker suffix. It never hard-commits an ambiguous kind — *11
// tickers (FII or UNITS) resolve to UNKNOWN rather than guessing wrong,
// per the spec's explicit "ambiguous, never hard-committed" rule.
type HeuristicProvider struct{}

func (HeuristicProvider) Name() string { return "heuristic" }

func (HeuristicProvider) Resolve(ticker string) (Resolution, bool, error) {
	suffix := trailingDigits(ticker)
	switch suffix {
	case "3", "4", "5", "6":
		return Resolution{Kind: model.KindStock, Name: ticker}, true, nil
	case "34":
		return Resolution{Kind: model.KindBDR, Name: ticker}, true, nil
	case "11":
		return Resolution{Kind: model.KindUnknown, Name: ticker}, true, nil
	default:
		return Resolution{}, false, nil
	}
}

// trailingDigits returns the maximal run of trailing ASCII digits.
func trailingDigits(ticker string) string {
	i := len(ticker)
	for i > 0 && ticker[i-1] >= '0' && ticker[i-1] <= '9' {
		i--
	}
	return ticker[i:]
}
