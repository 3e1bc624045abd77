package dispatch

// GenericFailure is the message used when a failure carries no text of its own.
const GenericFailure = "command failed"

// Outcome is the result of a dispatch: either a value or a non-empty error message.
type Outcome[T any] struct {
	value T
	err   string
	ok    bool
}

func Ok[T any](v T) Outcome[T] {
	return Outcome[T]{value: v, ok: true}
}

// Err builds a failed outcome. An empty message is replaced by GenericFailure.
func Err[T any](msg string) Outcome[T] {
	if msg == "" {
		msg = GenericFailure
	}
	return Outcome[T]{err: msg}
}

func (o Outcome[T]) IsOk() bool { return o.ok }

// Value returns the success value and whether the outcome succeeded.
func (o Outcome[T]) Value() (T, bool) { return o.value, o.ok }

// Message is the failure text, or "" for a successful outcome.
func (o Outcome[T]) Message() string {
	if o.ok {
		return ""
	}
	if o.err == "" {
		return GenericFailure
	}
	return o.err
}

// Then converts a successful value with f. A failing f turns the outcome into Err.
func Then[T, U any](o Outcome[T], f func(T) (U, error)) Outcome[U] {
	if !o.ok {
		return Err[U](o.Message())
	}
	u, err := f(o.value)
	if err != nil {
		return Err[U](err.Error())
	}
	return Ok(u)
}
