package enginelog

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFverbosefGatedByFlag(t *testing.T) {
	rq := require.New(t)
	var buf bytes.Buffer

	VerboseEnabled = false
	Fverbosef(&buf, "hello %d", 1)
	rq.Empty(buf.String())

	VerboseEnabled = true
	defer func() { VerboseEnabled = false }()
	Fverbosef(&buf, "hello %d", 1)
	rq.Equal("hello 1", buf.String())
}

func TestTraceGatedByEnv(t *testing.T) {
	rq := require.New(t)
	os.Setenv("TRACE", "overlay")
	defer os.Unsetenv("TRACE")
	traceLoaded = false
	traceSetting = map[string]bool{}

	// Tracef writes to stderr; we only assert it doesn't panic and that the
	// tag lookup loads correctly from the environment.
	Tracef("overlay", "applying %s", "split")
	maybeLoadTraceSetting()
	rq.True(traceSetting["overlay"])
	rq.False(traceSetting["costbasis"])
}

func TestNoopSink(t *testing.T) {
	var s Sink = NoopSink{}
	s.Progress(5, nil)
}
