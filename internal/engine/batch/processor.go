package batch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Batch size bounds.
const (
	DefaultBatchSize = 25
	MinBatchSize     = 1
	MaxBatchSize     = 1000
)

// Processor errors.
var (
	ErrInvalidBatchSize = fmt.Errorf("batch size must be between %d and %d", MinBatchSize, MaxBatchSize)
	ErrNilCallback      = errors.New("batch callback cannot be nil")
	ErrEmptyItems       = errors.New("no items to process")
)

// Func processes one batch. offset is the index of batch[0] in the full slice.
type Func[T any] func(ctx context.Context, batch []T, offset int) error

// ProgressFunc is called after each completed batch.
type ProgressFunc func(Snapshot)

// Processor runs a Func over consecutive batches of a slice.
type Processor[T any] struct {
	size       int
	onProgress ProgressFunc
}

// NewProcessor returns a processor with the given batch size.
func NewProcessor[T any](size int) (*Processor[T], error) {
	if size < MinBatchSize || size > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, size)
	}
	return &Processor[T]{size: size}, nil
}

// NewDefaultProcessor returns a processor with DefaultBatchSize.
func NewDefaultProcessor[T any]() *Processor[T] {
	return &Processor[T]{size: DefaultBatchSize}
}

// WithProgress sets the progress callback. It may be called from several
// goroutines when processing concurrently.
func (p *Processor[T]) WithProgress(fn ProgressFunc) *Processor[T] {
	p.onProgress = fn
	return p
}

// Size returns the batch size.
func (p *Processor[T]) Size() int { return p.size }

// Bounds returns the [start, end) pairs for n items.
func (p *Processor[T]) Bounds(n int) [][2]int {
	out := make([][2]int, 0, (n+p.size-1)/p.size)
	for start := 0; start < n; start += p.size {
		out = append(out, [2]int{start, min(start+p.size, n)})
	}
	return out
}

// Process runs fn over each batch in order and stops at the first error.
func (p *Processor[T]) Process(ctx context.Context, items []T, fn Func[T]) error {
	return p.ProcessConcurrent(ctx, items, fn, 1)
}

// ProcessConcurrent runs fn over the batches with at most limit in flight.
// The first error cancels the context passed to the remaining batches and is
// returned once every started batch has finished.
func (p *Processor[T]) ProcessConcurrent(ctx context.Context, items []T, fn Func[T], limit int) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}
	if fn == nil {
		return ErrNilCallback
	}

	bounds := p.Bounds(len(items))
	progress := newProgress(len(items), len(bounds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))
	for i, b := range bounds {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := fn(gctx, items[b[0]:b[1]], b[0]); err != nil {
				return fmt.Errorf("batch %d failed: %w", i, err)
			}
			snap := progress.add(b[1] - b[0])
			if p.onProgress != nil {
				p.onProgress(snap)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
