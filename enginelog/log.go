// Package enginelog provides the injectable logging and progress-reporting
// surface used by long-running engine operations (§5: "long reads accept
// an optional progress sink"). It follows the reference codebase's own
// log package shape: a package-level verbosity flag, tag-gated tracing
// read from an environment variable, and an injectable sink interface
// rather than a process-wide structured logger.
package enginelog

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// VerboseEnabled gates Fverbosef output, mirroring the reference's
// log.VerboseEnabled flag.
var VerboseEnabled = false

func Fverbosef(w io.Writer, format string, v ...interface{}) {
	if VerboseEnabled {
		fmt.Fprintf(w, format, v...)
	}
}

var traceSetting = map[string]bool{}
var traceLoaded = false

// LoadTraceSetting reads the TRACE environment variable (a comma-separated
// list of tags to enable) once per process.
func LoadTraceSetting() {
	traceLoaded = true
	if v := os.Getenv("TRACE"); v != "" {
		for _, tag := range strings.Split(v, ",") {
			traceSetting[tag] = true
		}
	}
}

func maybeLoadTraceSetting() {
	if !traceLoaded {
		LoadTraceSetting()
	}
}

// Tracef writes a trace line to stderr if tag is enabled via TRACE.
func Tracef(tag, format string, v ...interface{}) {
	maybeLoadTraceSetting()
	if traceSetting[tag] {
		fmt.Fprintf(os.Stderr, "TR "+tag+" "+format+"\n", v...)
	}
}

// Sink receives progress notifications from a long-running read operation
// (full-history portfolio recompute, TWR over ALL, §5). Implementations
// must not block on a lock held by the engine; calls happen outside any
// critical section.
type Sink interface {
	// Progress reports tokens processed so far, and the total if known.
	Progress(tokens int, total *int)
}

// NoopSink discards all progress notifications. The default when none is
// injected.
type NoopSink struct{}

func (NoopSink) Progress(int, *int) {}

// ErrorPrinter is an injectable error/diagnostic output surface, mirroring
// the reference's log.ErrorPrinter interface.
type ErrorPrinter interface {
	Ln(v ...interface{})
	F(format string, v ...interface{})
}

// StderrErrorPrinter is the default ErrorPrinter, writing to os.Stderr.
type StderrErrorPrinter struct{}

func (StderrErrorPrinter) Ln(v ...interface{}) {
	fmt.Fprintln(os.Stderr, v...)
}

func (StderrErrorPrinter) F(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
}
