package omr

import (
	"image"
	"sync"
)

// Preprocessor is an optional external pixel-preprocessing capability (for
// example a native vision runtime) applied before normalization. It is a
// quality enhancement only: the decoder works without one, and a failing
// Enhance call is skipped, never fatal.
type Preprocessor interface {
	Enhance(img image.Image) (image.Image, error)
}

// LazyPreprocessor defers acquisition of a Preprocessor until the first page
// that needs it, then reuses the result for the life of the process. Loading
// such runtimes is expensive and most deployments never configure one, so
// the load runs at most once regardless of how many pages are decoded.
type LazyPreprocessor struct {
	load func() (Preprocessor, error)

	once sync.Once
	pre  Preprocessor
	err  error
}

// NewLazyPreprocessor wraps load so it runs at most once.
func NewLazyPreprocessor(load func() (Preprocessor, error)) *LazyPreprocessor {
	return &LazyPreprocessor{load: load}
}

// Enhance loads the underlying preprocessor on first use and delegates to
// it. A failed load is remembered and reported on every call, which the
// decoder treats as "skip preprocessing".
func (l *LazyPreprocessor) Enhance(img image.Image) (image.Image, error) {
	l.once.Do(func() {
		l.pre, l.err = l.load()
	})
	if l.err != nil {
		return nil, l.err
	}
	return l.pre.Enhance(img)
}
