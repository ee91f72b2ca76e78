package utils_test

import (
	"bufio"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/shellbatch/internal/utils"
)

type failingFlushWriter struct {
	bytes.Buffer
	flushError error
}

func (writer *failingFlushWriter) Flush() error {
	return writer.flushError
}

func TestFlushingWriterFlushesBufferedWriter(testInstance *testing.T) {
	var destination bytes.Buffer
	bufferedWriter := bufio.NewWriter(&destination)

	flushingWriter := utils.NewFlushingWriter(bufferedWriter)
	bytesWritten, writeError := flushingWriter.Write([]byte("hello\n"))

	require.NoError(testInstance, writeError)
	require.Equal(testInstance, 6, bytesWritten)
	require.Equal(testInstance, "hello\n", destination.String())
}

func TestFlushingWriterReportsFlushFailure(testInstance *testing.T) {
	flushFailure := errors.New("flush failed")
	destination := &failingFlushWriter{flushError: flushFailure}

	flushingWriter := utils.NewFlushingWriter(destination)
	_, writeError := flushingWriter.Write([]byte("data"))

	require.ErrorIs(testInstance, writeError, flushFailure)
	require.ErrorIs(testInstance, flushingWriter.Flush(), flushFailure)
	require.Equal(testInstance, "data", destination.String())
}

func TestFlushingWriterDoesNotDoubleWrap(testInstance *testing.T) {
	var destination bytes.Buffer
	flushingWriter := utils.NewFlushingWriter(&destination)

	require.Same(testInstance, flushingWriter, utils.NewFlushingWriter(flushingWriter))
}

func TestFlushingWriterWithoutDestination(testInstance *testing.T) {
	flushingWriter := utils.NewFlushingWriter(nil)

	bytesWritten, writeError := flushingWriter.Write([]byte("ignored"))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, 7, bytesWritten)
	require.NoError(testInstance, flushingWriter.Flush())
}
