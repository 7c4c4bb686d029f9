package stream_test

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediai/backend/internal/stream"
)

type recordingWriter struct {
	chunks  []string
	failAt  int
	closed  int
	written bytes.Buffer
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	if w.failAt > 0 && len(w.chunks)+1 == w.failAt {
		w.failAt = 0
		return 0, errors.New("broken pipe")
	}
	w.chunks = append(w.chunks, string(p))
	return w.written.Write(p)
}

func (w *recordingWriter) Close() error {
	w.closed++
	return nil
}

func TestChunks(t *testing.T) {
	for _, n := range []int{0, 1, 4, 5, 6, 123} {
		text := strings.Repeat("x", n)
		chunks := stream.Chunks(text, 5)

		assert.Equal(t, text, strings.Join(chunks, ""), "length %d", n)
		assert.Len(t, chunks, (n+4)/5, "length %d", n)
		for i, c := range chunks {
			if i < len(chunks)-1 {
				assert.Len(t, c, 5)
			} else {
				assert.LessOrEqual(t, len(c), 5)
				assert.NotEmpty(t, c)
			}
		}
	}
}

func TestChunks_MultiByte(t *testing.T) {
	text := "Dosis: 500 mg → zweimal täglich 💊"
	chunks := stream.Chunks(text, 5)

	assert.Equal(t, text, strings.Join(chunks, ""))
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c))
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 5)
	}
}

func TestEmitter_Emit(t *testing.T) {
	t.Run("Writes every chunk in order and closes the writer", func(t *testing.T) {
		w := &recordingWriter{}
		e := stream.NewEmitter(5, 0)

		err := e.Emit(context.Background(), w, "Metformin is a biguanide.")
		require.NoError(t, err)
		assert.Equal(t, []string{"Metfo", "rmin ", "is a ", "bigua", "nide."}, w.chunks)
		assert.Equal(t, 1, w.closed)
	})

	t.Run("Empty text writes nothing", func(t *testing.T) {
		w := &recordingWriter{}
		require.NoError(t, stream.NewEmitter(5, 0).Emit(context.Background(), w, ""))
		assert.Empty(t, w.chunks)
		assert.Equal(t, 1, w.closed)
	})

	t.Run("Flushes an http response", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.NoError(t, stream.NewEmitter(5, 0).Emit(context.Background(), rec, "hello world"))
		assert.Equal(t, "hello world", rec.Body.String())
		assert.True(t, rec.Flushed)
	})

	t.Run("Write error emits fallback once and closes", func(t *testing.T) {
		w := &recordingWriter{failAt: 2}
		e := stream.NewEmitter(5, 0)
		var failures int
		e.OnFailure = func(error) { failures++ }

		err := e.Emit(context.Background(), w, "Metformin is a biguanide.")
		require.Error(t, err)
		assert.Equal(t, []string{"Metfo", stream.FallbackMessage}, w.chunks)
		assert.Equal(t, 1, w.closed)
		assert.Equal(t, 1, failures)
	})

	t.Run("Cancelled context stops the stream", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		w := &recordingWriter{}

		err := stream.NewEmitter(5, 0).Emit(ctx, w, "Metformin is a biguanide.")
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, []string{"Metfo", stream.FallbackMessage}, w.chunks)
		assert.Equal(t, 1, w.closed)
	})

	t.Run("Defaults apply to non-positive size", func(t *testing.T) {
		w := &recordingWriter{}
		require.NoError(t, stream.NewEmitter(0, 0).Emit(context.Background(), w, "abcdefg"))
		assert.Equal(t, []string{"abcde", "fg"}, w.chunks)
	})
}
