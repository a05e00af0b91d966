// Package outcome is the single result shape of every external call the bot makes.
// A call either yields a usable value or is unavailable; the reason for
// unavailability is kept for logging only and never drives control flow.
package outcome

type Result[T any] struct {
	value  T
	ok     bool
	reason error
}

func Ok[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

func Unavailable[T any](reason error) Result[T] {
	return Result[T]{reason: reason}
}

func (r Result[T]) Get() (T, bool) {
	return r.value, r.ok
}

func (r Result[T]) OK() bool {
	return r.ok
}

// Reason is nil for Ok results and may be nil for plain "nothing found".
func (r Result[T]) Reason() error {
	return r.reason
}

// Or returns the value, or fallback when unavailable.
func (r Result[T]) Or(fallback T) T {
	if r.ok {
		return r.value
	}
	return fallback
}
