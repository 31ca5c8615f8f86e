package inconsistency

import (
	"testing"
	"time"

	"github.com/b3ledger/core/bizdate"
	"github.com/b3ledger/core/model"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestRequireFieldsReportsMissingOnly(t *testing.T) {
	rq := require.New(t)
	inc, missing := RequireFields("SUBSCRIPTION_CONVERSION", strp("FII11"), nil, "no allocated cost in broker statement",
		map[string]string{"allocated_cost": "", "quantity": "10"})
	rq.True(missing)
	rq.Equal(model.InconsistencyOpen, inc.Status)
	rq.Equal(model.SeverityBlocking, inc.Severity)
	rq.Equal([]string{"allocated_cost"}, inc.MissingFields)
	rq.Equal("FII11", *inc.AssetID)
}

func TestRequireFieldsNoMissingReturnsFalse(t *testing.T) {
	rq := require.New(t)
	_, missing := RequireFields("SUBSCRIPTION_CONVERSION", nil, nil, "", map[string]string{"allocated_cost": "12.50"})
	rq.False(missing)
}

func TestStatusForMapsActionsCorrectly(t *testing.T) {
	rq := require.New(t)
	s, err := statusFor(model.ResolutionInject)
	rq.NoError(err)
	rq.Equal(model.InconsistencyResolved, s)

	s, err = statusFor(model.ResolutionUpdate)
	rq.NoError(err)
	rq.Equal(model.InconsistencyResolved, s)

	s, err = statusFor(model.ResolutionIgnore)
	rq.NoError(err)
	rq.Equal(model.InconsistencyIgnored, s)

	_, err = statusFor(model.ResolutionAction("BOGUS"))
	rq.Error(err)
}

func TestEarliestAffectedDatePicksMinimum(t *testing.T) {
	rq := require.New(t)
	rows := []model.Inconsistency{
		{TransactionID: strp("t1")},
		{TransactionID: strp("t2")},
		{TransactionID: nil},
	}
	byTx := map[string]bizdate.Date{
		"t1": bizdate.New(2025, time.June, 1),
		"t2": bizdate.New(2025, time.January, 1),
	}
	d, ok := EarliestAffectedDate(rows, byTx)
	rq.True(ok)
	rq.Equal(bizdate.New(2025, time.January, 1), d)
}

func TestEarliestAffectedDateNoMatchesReturnsFalse(t *testing.T) {
	rq := require.New(t)
	_, ok := EarliestAffectedDate([]model.Inconsistency{{TransactionID: strp("missing")}}, map[string]bizdate.Date{})
	rq.False(ok)
}
