// Package ledgererr defines the typed error taxonomy used throughout the
// engine (§7), modeled on the reference codebase's sanity-check error
// pattern in portfolio/bookkeeping.go: a small set of named kinds, each
// carrying free-form context, rather than ad-hoc fmt.Errorf strings
// threaded through every layer.
package ledgererr

import "fmt"

// Kind identifies which of the §7 taxonomy categories an Error belongs to.
type Kind int

const (
	// InsufficientHistory: an operation needs ledger data earlier than what
	// has been ingested (e.g. average cost requested before first lot).
	InsufficientHistory Kind = iota
	// InsufficientInformation: a referenced asset, price, or rate is
	// missing from the registry for the requested period.
	InsufficientInformation
	// DuplicateTransaction: an append collides with an existing row on
	// (source, source_ref) or on (asset, trade_date, side, quantity).
	DuplicateTransaction
	// IntegrityError: an invariant check (§4.K) failed against stored data.
	IntegrityError
	// ConfigurationError: the supplied engine.Config is invalid or
	// incomplete for the requested operation.
	ConfigurationError
	// DecimalOverflow: an arithmetic result exceeded the money.Amount
	// precision budget.
	DecimalOverflow
	// ExternalUnavailable: a registry.Provider or other external
	// dependency could not be reached and no cached answer existed.
	ExternalUnavailable
)

func (k Kind) String() string {
	switch k {
	case InsufficientHistory:
		return "insufficient_history"
	case InsufficientInformation:
		return "insufficient_information"
	case DuplicateTransaction:
		return "duplicate_transaction"
	case IntegrityError:
		return "integrity_error"
	case ConfigurationError:
		return "configuration_error"
	case DecimalOverflow:
		return "decimal_overflow"
	case ExternalUnavailable:
		return "external_unavailable"
	default:
		return "unknown"
	}
}

// Error is the engine's single error type: a Kind plus context and an
// optional wrapped cause.
type Error struct {
	Kind    Kind
	Context string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Context)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is allows errors.Is(err, ledgererr.Error{Kind: X}) style matching by
// comparing Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an Error with the given kind and formatted context.
func New(kind Kind, format string, v ...interface{}) *Error {
	return &Error{Kind: kind, Context: fmt.Sprintf(format, v...)}
}

// Wrap builds an Error with the given kind, context, and underlying cause.
func Wrap(kind Kind, cause error, format string, v ...interface{}) *Error {
	return &Error{Kind: kind, Context: fmt.Sprintf(format, v...), Cause: cause}
}

// Sentinel returns a bare Error of the given kind, suitable as an
// errors.Is comparison target.
func Sentinel(kind Kind) *Error { return &Error{Kind: kind} }
