// Copyright 2026 The vfsemu Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logger

import (
	"fmt"
	"io"
	"os"
)

// AsyncLogger wraps an io.Writer (typically a rotated file via
// lumberjack) with a buffered channel and a single writer goroutine, so a
// caller on a hot operation-surface path (e.g. every read()/write() call,
// if TRACE logging is enabled) never blocks on file I/O. If the buffer
// fills, the newest message is dropped and a warning is printed to
// stderr, rather than applying backpressure to the caller.
type AsyncLogger struct {
	w       io.Writer
	msgs    chan []byte
	done    chan struct{}
	closeFn func() error
}

// NewAsyncLogger starts the writer goroutine and returns the logger.
func NewAsyncLogger(w io.Writer, bufferSize int) *AsyncLogger {
	a := &AsyncLogger{
		w:    w,
		msgs: make(chan []byte, bufferSize),
		done: make(chan struct{}),
	}
	if c, ok := w.(io.Closer); ok {
		a.closeFn = c.Close
	}

	go a.run()
	return a
}

func (a *AsyncLogger) run() {
	defer close(a.done)
	for msg := range a.msgs {
		_, _ = a.w.Write(msg)
	}
}

// Write implements io.Writer, copying p (callers may reuse their buffer
// immediately after Write returns) and enqueueing it for the background
// writer.
func (a *AsyncLogger) Write(p []byte) (int, error) {
	cp := make([]byte, len(p))
	copy(cp, p)

	select {
	case a.msgs <- cp:
	default:
		fmt.Fprintln(os.Stderr, "asynclogger: log buffer is full, dropping message.")
	}
	return len(p), nil
}

// Close drains the pending buffer, stops the writer goroutine, and closes
// the underlying writer if it implements io.Closer.
func (a *AsyncLogger) Close() error {
	close(a.msgs)
	<-a.done
	if a.closeFn != nil {
		return a.closeFn()
	}
	return nil
}
