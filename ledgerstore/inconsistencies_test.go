package ledgerstore

import (
	"testing"

	"github.com/b3ledger/core/model"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeResolutionRoundTrip(t *testing.T) {
	rq := require.New(t)
	txID := "tx-123"
	res := model.Resolution{Action: model.ResolutionInject, TransactionID: &txID}

	encoded, err := encodeResolution(&res)
	rq.NoError(err)
	rq.NotNil(encoded)

	row := inconsistencyRow{
		ID:            "inc-1",
		Kind:          "missing_cost_basis",
		Status:        string(model.InconsistencyResolved),
		Severity:      string(model.SeverityBlocking),
		MissingFields: "cost_basis,quantity",
		Context:       "subscription conversion",
	}
	encodedStr := encoded.(string)
	row.Resolution = &encodedStr

	decoded, err := row.toModel()
	rq.NoError(err)
	rq.Equal(model.ResolutionInject, decoded.Resolution.Action)
	rq.Equal(txID, *decoded.Resolution.TransactionID)
	rq.Equal([]string{"cost_basis", "quantity"}, decoded.MissingFields)
}

func TestEncodeResolutionNil(t *testing.T) {
	rq := require.New(t)
	encoded, err := encodeResolution(nil)
	rq.NoError(err)
	rq.Nil(encoded)
}
