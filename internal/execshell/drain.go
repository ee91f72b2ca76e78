package execshell

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"strings"
)

const (
	lineSeparatorConstant          = "\n"
	lineTerminatorsConstant        = "\r\n"
	lineFeedByteConstant           = '\n'
	invalidUTF8ReplacementConstant = "\uFFFD"
	initialLineBufferSizeConstant  = 64 * 1024
	maximumLineSizeConstant        = math.MaxInt
)

// streamDrain reads one process stream to EOF, keeping its lines when capture is enabled.
type streamDrain struct {
	reader  io.Reader
	capture bool
	lines   []string
}

func newStreamDrain(reader io.Reader, capture bool) *streamDrain {
	return &streamDrain{reader: reader, capture: capture}
}

// Drain consumes the stream until EOF. Lines read before a failure are kept.
func (drain *streamDrain) Drain() error {
	if drain.reader == nil {
		return nil
	}

	if !drain.capture {
		_, copyError := io.Copy(io.Discard, drain.reader)
		return copyError
	}

	lineScanner := bufio.NewScanner(drain.reader)
	lineScanner.Buffer(make([]byte, initialLineBufferSizeConstant), maximumLineSizeConstant)
	lineScanner.Split(scanTerminalLines)
	for lineScanner.Scan() {
		drain.lines = append(drain.lines, strings.ToValidUTF8(lineScanner.Text(), invalidUTF8ReplacementConstant))
	}
	return lineScanner.Err()
}

// scanTerminalLines splits on "\n", "\r\n", and a bare "\r". A final line without a
// terminator is still returned.
func scanTerminalLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	terminatorIndex := bytes.IndexAny(data, lineTerminatorsConstant)
	switch {
	case terminatorIndex < 0:
		if atEOF {
			return len(data), data, nil
		}
		return 0, nil, nil
	case data[terminatorIndex] == lineFeedByteConstant:
		return terminatorIndex + 1, data[:terminatorIndex], nil
	case terminatorIndex+1 < len(data):
		if data[terminatorIndex+1] == lineFeedByteConstant {
			return terminatorIndex + 2, data[:terminatorIndex], nil
		}
		return terminatorIndex + 1, data[:terminatorIndex], nil
	case atEOF:
		return terminatorIndex + 1, data[:terminatorIndex], nil
	}
	// A trailing carriage return may be the first half of "\r\n".
	return 0, nil, nil
}

// Text joins the collected lines with the line separator.
func (drain *streamDrain) Text() string {
	if !drain.capture {
		return ""
	}
	return strings.Join(drain.lines, lineSeparatorConstant)
}
