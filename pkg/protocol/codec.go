package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// LineTooLongError is returned by LineReader when a line exceeds the configured limit.
// The offending line is consumed entirely so the next read starts on a fresh line.
type LineTooLongError struct {
	Limit int
}

func (e *LineTooLongError) Error() string {
	return fmt.Sprintf("line exceeds %d bytes", e.Limit)
}

// LineReader reads newline-delimited protocol lines.
type LineReader struct {
	reader   *bufio.Reader
	maxBytes int
}

// NewLineReader creates a reader for protocol lines.
// A maxBytes of zero or less disables the line length limit.
func NewLineReader(r io.Reader, maxBytes int) *LineReader {
	if r == nil {
		r = os.Stdin
	}
	return &LineReader{
		reader:   bufio.NewReader(r),
		maxBytes: maxBytes,
	}
}

// ReadLine returns the next line without its terminator ("\n" or "\r\n").
// A final line without terminator is returned normally; io.EOF is only
// returned once no more bytes are available.
func (lr *LineReader) ReadLine() ([]byte, error) {
	var line []byte
	read := 0
	for {
		chunk, err := lr.reader.ReadSlice('\n')
		read += len(chunk)
		if !lr.exceeded(read) {
			line = append(line, chunk...)
		}

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if read == 0 {
			return nil, io.EOF
		}
		break
	}

	if lr.exceeded(read) {
		return nil, &LineTooLongError{Limit: lr.maxBytes}
	}

	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if lr.maxBytes > 0 && len(line) > lr.maxBytes {
		return nil, &LineTooLongError{Limit: lr.maxBytes}
	}
	return line, nil
}

// exceeded reports whether read bytes are over the limit even allowing for a "\r\n" terminator.
func (lr *LineReader) exceeded(read int) bool {
	return lr.maxBytes > 0 && read > lr.maxBytes+2
}

// Writer encodes Results as JSON lines, flushing after every record.
type Writer struct {
	buf     *bufio.Writer
	encoder *json.Encoder
}

// NewWriter creates a Writer on top of w.
func NewWriter(w io.Writer) *Writer {
	if w == nil {
		w = os.Stdout
	}
	buf := bufio.NewWriter(w)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &Writer{
		buf:     buf,
		encoder: enc,
	}
}

// Write emits a single record as one line and flushes it.
func (w *Writer) Write(r Result) error {
	if err := w.encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush result: %w", err)
	}
	return nil
}
