package engine

import "errors"

// Kind classifies an engine failure so callers can map it onto their own
// error surface. Failures are surfaced synchronously and never retried here;
// retry policy belongs to the caller.
type Kind int

const (
	// KindInvalidArgument: a required request field is missing or empty.
	KindInvalidArgument Kind = iota + 1
	// KindNotFound: the clue id has no static definition, or the game
	// document or clue record does not exist in storage.
	KindNotFound
	// KindFailedPrecondition: a purchase was blocked by the minimum-balance
	// rule (only possible when Rules.EnforceMinBalance is on).
	KindFailedPrecondition
)

// Error is a kinded engine failure.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// KindOf returns the kind of err, or 0 if err is not an engine error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func invalidArgument(msg string) error {
	return &Error{Kind: KindInvalidArgument, Msg: msg}
}

func notFound(msg string) error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func failedPrecondition(msg string) error {
	return &Error{Kind: KindFailedPrecondition, Msg: msg}
}
