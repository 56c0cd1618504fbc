package protocol

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReader_ReadLine(t *testing.T) {
	t.Run("Splits Lines And Strips Terminators", func(t *testing.T) {
		lr := NewLineReader(strings.NewReader("one\r\ntwo\n\nlast"), 0)

		var got []string
		for {
			line, err := lr.ReadLine()
			if errors.Is(err, io.EOF) {
				break
			}
			require.NoError(t, err)
			got = append(got, string(line))
		}
		assert.Equal(t, []string{"one", "two", "", "last"}, got)
	})

	t.Run("Empty Input Is EOF", func(t *testing.T) {
		lr := NewLineReader(strings.NewReader(""), 0)
		_, err := lr.ReadLine()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("Long Lines Beyond Buffer", func(t *testing.T) {
		long := strings.Repeat("x", 10000)
		lr := NewLineReader(strings.NewReader(long+"\nnext\n"), 0)

		line, err := lr.ReadLine()
		require.NoError(t, err)
		assert.Len(t, line, 10000)

		line, err = lr.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, "next", string(line))
	})

	t.Run("Limit Rejects And Resynchronizes", func(t *testing.T) {
		lr := NewLineReader(strings.NewReader(strings.Repeat("y", 9000)+"\nok\n"), 16)

		_, err := lr.ReadLine()
		var tooLong *LineTooLongError
		require.ErrorAs(t, err, &tooLong)
		assert.Equal(t, 16, tooLong.Limit)

		line, err := lr.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, "ok", string(line))
	})

	t.Run("Limit Counts Content Only", func(t *testing.T) {
		lr := NewLineReader(strings.NewReader("abcd\r\nabcde\n"), 4)

		line, err := lr.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, "abcd", string(line))

		_, err = lr.ReadLine()
		var tooLong *LineTooLongError
		assert.ErrorAs(t, err, &tooLong)
	})
}

type countingWriter struct {
	bytes.Buffer
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.Buffer.Write(p)
}

func TestWriter_FlushesEachRecord(t *testing.T) {
	out := &countingWriter{}
	w := NewWriter(out)

	require.NoError(t, w.Write(Ready()))
	assert.Equal(t, 1, out.writes)
	assert.Equal(t, "{\"status\":\"ready\"}\n", out.String())

	require.NoError(t, w.Write(NewError(KindMissingPassage)))
	assert.Equal(t, 2, out.writes)
}

func TestWriter_DoesNotEscapeHTML(t *testing.T) {
	out := &bytes.Buffer{}
	w := NewWriter(out)

	require.NoError(t, w.Write(NewFailure(KindEngine, "<b> & co")))
	assert.Contains(t, out.String(), "<b> & co")
}
