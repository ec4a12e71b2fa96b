package resilience

// WithFallback runs primary and, on failure, returns the result of a
// fallback that cannot itself fail.
func WithFallback[T any](primary func() (T, error), fallback func() T) T {
	if v, err := primary(); err == nil {
		return v
	}
	return fallback()
}

// BatchFailure pairs an input item with the error it produced.
type BatchFailure[T any] struct {
	Item T
	Err  error
}

// Batch applies op to every item independently, partitioning the inputs
// into successes and failures. A failing item never aborts the rest of
// the batch.
func Batch[T, R any](items []T, op func(T) (R, error)) ([]R, []BatchFailure[T]) {
	results := make([]R, 0, len(items))
	var failures []BatchFailure[T]
	for _, item := range items {
		r, err := op(item)
		if err != nil {
			failures = append(failures, BatchFailure[T]{Item: item, Err: err})
			continue
		}
		results = append(results, r)
	}
	return results, failures
}
