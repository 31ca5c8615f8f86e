package registry

import (
	"errors"
	"testing"

	"github.com/b3ledger/core/model"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name string
	hit  map[string]Resolution
	err  error
}

func (f fakeProvider) Name() string { return f.name }

func (f fakeProvider) Resolve(ticker string) (Resolution, bool, error) {
	if f.err != nil {
		return Resolution{}, false, f.err
	}
	r, ok := f.hit[ticker]
	return r, ok, nil
}

func TestHeuristicStockSuffix(t *testing.T) {
	rq := require.New(t)
	r := HeuristicProvider{}
	res, ok, err := r.Resolve("PETR4")
	rq.NoError(err)
	rq.True(ok)
	rq.Equal(model.KindStock, res.Kind)
}

func TestHeuristicBDRSuffix(t *testing.T) {
	rq := require.New(t)
	r := HeuristicProvider{}
	res, ok, err := r.Resolve("AAPL34")
	rq.NoError(err)
	rq.True(ok)
	rq.Equal(model.KindBDR, res.Kind)
}

func TestHeuristic11IsAmbiguousNeverCommitted(t *testing.T) {
	rq := require.New(t)
	r := HeuristicProvider{}
	res, ok, err := r.Resolve("MXRF11")
	rq.NoError(err)
	rq.True(ok)
	rq.Equal(model.KindUnknown, res.Kind)
}

func TestHeuristicUnrecognizedSuffix(t *testing.T) {
	rq := require.New(t)
	r := HeuristicProvider{}
	_, ok, err := r.Resolve("XYZ99")
	rq.NoError(err)
	rq.False(ok)
}

func TestChainShortCircuitsOnFirstHit(t *testing.T) {
	rq := require.New(t)
	first := fakeProvider{name: "override", hit: map[string]Resolution{"PETR4": {Kind: model.KindStock, Name: "Petrobras"}}}
	second := fakeProvider{name: "never-called", hit: map[string]Resolution{"PETR4": {Kind: model.KindETF, Name: "wrong"}}}
	reg := New(first, second)

	res, err := reg.Resolve("PETR4")
	rq.NoError(err)
	rq.Equal(model.KindStock, res.Kind)
}

func TestChainSkipsErroringProvider(t *testing.T) {
	rq := require.New(t)
	broken := fakeProvider{name: "broken", err: errors.New("network down")}
	fallback := fakeProvider{name: "fallback", hit: map[string]Resolution{"VALE3": {Kind: model.KindStock, Name: "Vale"}}}
	reg := New(broken, fallback)

	res, err := reg.Resolve("VALE3")
	rq.NoError(err)
	rq.Equal(model.KindStock, res.Kind)
}

func TestChainReturnsInsufficientInformationWhenNoHit(t *testing.T) {
	rq := require.New(t)
	reg := New(fakeProvider{name: "empty"})
	_, err := reg.Resolve("UNKNOWNTICKER")
	rq.Error(err)
}

func TestResolveOrUnknownNeverErrors(t *testing.T) {
	rq := require.New(t)
	reg := New(fakeProvider{name: "empty"})
	res := reg.ResolveOrUnknown("UNKNOWNTICKER")
	rq.Equal(model.KindUnknown, res.Kind)
}
