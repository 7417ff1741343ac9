package log

import (
	"errors"
	"fmt"
	"io"
)

var errWriterAlreadyLoaded = errors.New("io.Writer already loaded")

// newMultiWriter fans a log line out to every writer. A writer may only be
// supplied once.
func newMultiWriter(writers ...io.Writer) (*multiWriter, error) {
	mw := &multiWriter{writers: make([]io.Writer, 0, len(writers))}
	for _, w := range writers {
		for _, existing := range mw.writers {
			if existing == w {
				return nil, fmt.Errorf("%w: %T", errWriterAlreadyLoaded, w)
			}
		}
		mw.writers = append(mw.writers, w)
	}
	return mw, nil
}

// Write writes p to each writer in turn, stopping at the first failure
func (mw *multiWriter) Write(p []byte) (int, error) {
	for _, w := range mw.writers {
		n, err := w.Write(p)
		if err != nil {
			return n, fmt.Errorf("%T %w", w, err)
		}
		if n != len(p) {
			return n, fmt.Errorf("%T %w", w, io.ErrShortWrite)
		}
	}
	return len(p), nil
}
