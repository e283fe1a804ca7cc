// Package results carries the outcome of a service operation: either a success
// value or a business failure. Infrastructure errors travel separately as a
// plain error so handlers can tell "publish a failure event" apart from
// "nack and retry".
package results

// OperationResult holds exactly one of Success or Failure.
type OperationResult[S any, F any] struct {
	Success *S
	Failure *F
}

// SuccessResult wraps v as a successful outcome.
func SuccessResult[S any, F any](v S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &v}
}

// FailureResult wraps f as a business failure.
func FailureResult[S any, F any](f F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: &f}
}

func (r OperationResult[S, F]) IsSuccess() bool { return r.Success != nil }

func (r OperationResult[S, F]) IsFailure() bool { return r.Failure != nil }

// Map converts the success value, leaving a failure untouched.
func Map[S any, F any, T any](r OperationResult[S, F], fn func(S) T) OperationResult[T, F] {
	if r.Success != nil {
		return SuccessResult[T, F](fn(*r.Success))
	}
	return OperationResult[T, F]{Failure: r.Failure}
}
