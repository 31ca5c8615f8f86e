package ledgererr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	rq := require.New(t)
	err := New(InsufficientHistory, "asset %s has no lots before %s", "PETR4", "2020-01-01")
	rq.Equal("insufficient_history: asset PETR4 has no lots before 2020-01-01", err.Error())
}

func TestWrapUnwrap(t *testing.T) {
	rq := require.New(t)
	cause := fmt.Errorf("connection refused")
	err := Wrap(ExternalUnavailable, cause, "provider %s", "anbima")
	rq.ErrorIs(err, cause)
}

func TestIsMatchesByKind(t *testing.T) {
	rq := require.New(t)
	err := New(DuplicateTransaction, "source=%s ref=%s", "b3", "abc123")
	rq.True(errors.Is(err, Sentinel(DuplicateTransaction)))
	rq.False(errors.Is(err, Sentinel(IntegrityError)))
}
