package mirror

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/balkashynov/tranquil/internal/logger"
)

// Writer accepts a value for path and returns immediately
type Writer interface {
	Write(path string, value float64)
}

// AsyncWriter runs every write on its own goroutine with a timeout.
// Concurrent writes may land in any order; each targets its own path.
type AsyncWriter struct {
	store   Store
	timeout time.Duration
	wg      sync.WaitGroup
}

var _ Writer = (*AsyncWriter)(nil)

// NewAsyncWriter wraps store
func NewAsyncWriter(store Store, timeout time.Duration) *AsyncWriter {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AsyncWriter{store: store, timeout: timeout}
}

func (w *AsyncWriter) Write(path string, value float64) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()

		if err := w.store.SetValue(ctx, path, value); err != nil {
			logger.Logger.WithError(err).WithFields(logrus.Fields{
				"path":  path,
				"value": value,
			}).Warn("mirror write failed")
			return
		}
		logger.Logger.WithField("path", path).Debug("mirrored value")
	}()
}

// Wait blocks until every write issued so far has finished. Used on exit so
// the process does not drop in-flight writes.
func (w *AsyncWriter) Wait() {
	w.wg.Wait()
}
