// Package responsewriter provides an http.ResponseWriter that remembers what was sent.
// Logging, metrics and tracing middleware read the recorded status and size after
// the handler returns.
package responsewriter

import (
	"net/http"
)

// Recorder wraps an http.ResponseWriter and records the status code and body size.
type Recorder struct {
	http.ResponseWriter
	status  int
	size    int
	written bool
}

// Wrap returns w as a *Recorder. A writer that is already a Recorder is returned
// unchanged so stacked middleware share one record.
func Wrap(w http.ResponseWriter) *Recorder {
	if rec, ok := w.(*Recorder); ok {
		return rec
	}
	return &Recorder{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader records the first status code and forwards it.
// Later calls are ignored, as net/http does.
func (r *Recorder) WriteHeader(status int) {
	if r.written {
		return
	}
	r.status = status
	r.written = true
	r.ResponseWriter.WriteHeader(status)
}

// Write sends an implicit 200 on first use and counts the bytes.
func (r *Recorder) Write(b []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// Flush forwards to the underlying writer when it supports flushing.
func (r *Recorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		if !r.written {
			r.WriteHeader(http.StatusOK)
		}
		f.Flush()
	}
}

// StatusCode returns the status sent to the client, 200 if none was set explicitly.
func (r *Recorder) StatusCode() int {
	return r.status
}

// BytesWritten returns the number of body bytes written.
func (r *Recorder) BytesWritten() int {
	return r.size
}

// Written reports whether the header has been sent.
func (r *Recorder) Written() bool {
	return r.written
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (r *Recorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
