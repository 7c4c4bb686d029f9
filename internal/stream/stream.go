// Package stream relays an already complete reply to an HTTP client in small
// pieces with a pause between them, so the client renders it as if it were
// being generated token by token.
package stream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultChunkSize  = 5
	DefaultChunkDelay = 10 * time.Millisecond

	// FallbackMessage is written as the last chunk when relaying fails midway.
	FallbackMessage = "Sorry, I encountered an error. Please try again."
)

// Emitter writes text in fixed-size chunks, strictly in order.
type Emitter struct {
	chunkSize int
	delay     time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
	// OnFailure, when set, is called once for every Emit that ends in an error.
	OnFailure func(err error)
}

// NewEmitter returns an Emitter; non-positive arguments select the defaults
// (a zero delay is kept as is).
func NewEmitter(chunkSize int, delay time.Duration) *Emitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if delay < 0 {
		delay = DefaultChunkDelay
	}
	return &Emitter{chunkSize: chunkSize, delay: delay, sleep: sleepContext}
}

// Chunks splits text into pieces of at most size characters. Multi-byte
// characters are never split, so the concatenation is byte-identical to text.
func Chunks(text string, size int) []string {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// Emit writes text to w chunk by chunk, flushing after each write when w is
// an http.Flusher. When a write fails or ctx is cancelled it makes one attempt
// to write FallbackMessage and returns the error. If w is an io.Closer it is
// closed on every return path.
func (e *Emitter) Emit(ctx context.Context, w io.Writer, text string) (err error) {
	if c, ok := w.(io.Closer); ok {
		defer func() {
			if cerr := c.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("failed to close stream: %w", cerr)
			}
		}()
	}
	defer func() {
		if err != nil && e.OnFailure != nil {
			e.OnFailure(err)
		}
	}()

	chunks := Chunks(text, e.chunkSize)
	for i, chunk := range chunks {
		if _, err := io.WriteString(w, chunk); err != nil {
			writeFallback(w)
			return fmt.Errorf("failed to write chunk %d: %w", i, err)
		}
		flush(w)

		if i == len(chunks)-1 {
			break
		}
		if err := e.sleep(ctx, e.delay); err != nil {
			writeFallback(w)
			return fmt.Errorf("stream interrupted after chunk %d: %w", i, err)
		}
	}
	return nil
}

func writeFallback(w io.Writer) {
	if _, err := io.WriteString(w, FallbackMessage); err == nil {
		flush(w)
	}
}

func flush(w io.Writer) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
