package dataset

import "fmt"

// Factory builds the record at the given zero-based index.
type Factory[T any] func(index int) T

// Records is the shape independent view of a dataset that exporters consume.
type Records interface {
	Len() int
	At(i int) any
}

// Dataset is an ordered collection of records of one kind, in generation order.
type Dataset[T any] []T

func (d Dataset[T]) Len() int { return len(d) }

func (d Dataset[T]) At(i int) any { return d[i] }

// Generate invokes factory for every index in [0, count) and collects the results.
// The whole dataset is materialized in memory before it is returned.
func Generate[T any](count int, factory Factory[T]) (Dataset[T], error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count must be non-negative, got %d", ErrInvalidArgument, count)
	}
	if factory == nil {
		return nil, fmt.Errorf("%w: nil record factory", ErrInvalidArgument)
	}

	ds := make(Dataset[T], count)
	for i := range count {
		ds[i] = factory(i)
	}

	return ds, nil
}
