package analysis

import "errors"

type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeUnavailable Outcome = "unavailable"
	OutcomeError       Outcome = "error"
)

// ErrNotConfigured marks an integration with no credentials.
var ErrNotConfigured = errors.New("integration not configured")

// Result is the outcome of an enrichment step. Unavailable and Error both
// mean "no value"; neither is allowed to fail the primary write.
type Result[T any] struct {
	Value   T
	Outcome Outcome
	Err     error
}

func OK[T any](v T) Result[T] {
	return Result[T]{Value: v, Outcome: OutcomeOK}
}

func Unavailable[T any](reason error) Result[T] {
	return Result[T]{Outcome: OutcomeUnavailable, Err: reason}
}

func Failed[T any](err error) Result[T] {
	return Result[T]{Outcome: OutcomeError, Err: err}
}

func (r Result[T]) Ok() bool {
	return r.Outcome == OutcomeOK
}
