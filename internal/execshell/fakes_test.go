package execshell_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/temirov/shellbatch/internal/execshell"
)

type trackedStream struct {
	mutex      sync.Mutex
	reader     io.Reader
	closeCount int
}

func newTrackedStream(content string) *trackedStream {
	return &trackedStream{reader: strings.NewReader(content)}
}

func newFailingTrackedStream(content string, failure error) *trackedStream {
	return &trackedStream{reader: io.MultiReader(strings.NewReader(content), failingReader{failure: failure})}
}

func (stream *trackedStream) Read(buffer []byte) (int, error) {
	return stream.reader.Read(buffer)
}

func (stream *trackedStream) Close() error {
	stream.mutex.Lock()
	defer stream.mutex.Unlock()
	stream.closeCount++
	return nil
}

func (stream *trackedStream) closed() bool {
	stream.mutex.Lock()
	defer stream.mutex.Unlock()
	return stream.closeCount > 0
}

type failingReader struct {
	failure error
}

func (reader failingReader) Read([]byte) (int, error) {
	return 0, reader.failure
}

type trackedInput struct {
	mutex        sync.Mutex
	buffer       bytes.Buffer
	writeFailure error
	closeCount   int
}

func (input *trackedInput) Write(data []byte) (int, error) {
	input.mutex.Lock()
	defer input.mutex.Unlock()
	if input.writeFailure != nil {
		return 0, input.writeFailure
	}
	return input.buffer.Write(data)
}

func (input *trackedInput) Close() error {
	input.mutex.Lock()
	defer input.mutex.Unlock()
	input.closeCount++
	return nil
}

func (input *trackedInput) written() string {
	input.mutex.Lock()
	defer input.mutex.Unlock()
	return input.buffer.String()
}

func (input *trackedInput) closed() bool {
	input.mutex.Lock()
	defer input.mutex.Unlock()
	return input.closeCount > 0
}

type fakeProcess struct {
	mutex          sync.Mutex
	standardInput  *trackedInput
	standardOutput *trackedStream
	standardError  *trackedStream
	exitCode       int
	waitError      error
	killCount      int
}

func (process *fakeProcess) Stdin() io.WriteCloser {
	return process.standardInput
}

func (process *fakeProcess) Stdout() io.ReadCloser {
	return process.standardOutput
}

func (process *fakeProcess) Stderr() io.ReadCloser {
	return process.standardError
}

func (process *fakeProcess) Wait() (int, error) {
	return process.exitCode, process.waitError
}

func (process *fakeProcess) Kill() error {
	process.mutex.Lock()
	defer process.mutex.Unlock()
	process.killCount++
	return nil
}

func (process *fakeProcess) killed() bool {
	process.mutex.Lock()
	defer process.mutex.Unlock()
	return process.killCount > 0
}

func (process *fakeProcess) allStreamsClosed() bool {
	return process.standardInput.closed() && process.standardOutput.closed() && process.standardError.closed()
}

type fakeProcessStarter struct {
	process            *fakeProcess
	startError         error
	startCount         int
	recordedInvocation []execshell.ShellInvocation
}

func (starter *fakeProcessStarter) Start(executionContext context.Context, invocation execshell.ShellInvocation) (execshell.Process, error) {
	starter.startCount++
	starter.recordedInvocation = append(starter.recordedInvocation, invocation)
	if starter.startError != nil {
		return nil, starter.startError
	}
	if starter.process == nil {
		return nil, errors.New("no fake process configured")
	}
	return starter.process, nil
}

type recordingObserver struct {
	startedSessions   []execshell.ShellSession
	completedSessions []execshell.ExecutionResult
	failedSessions    []execshell.ExecutionResult
}

func (observer *recordingObserver) SessionStarted(session execshell.ShellSession) {
	observer.startedSessions = append(observer.startedSessions, session)
}

func (observer *recordingObserver) SessionCompleted(_ execshell.ShellSession, result execshell.ExecutionResult) {
	observer.completedSessions = append(observer.completedSessions, result)
}

func (observer *recordingObserver) SessionFailed(_ execshell.ShellSession, result execshell.ExecutionResult) {
	observer.failedSessions = append(observer.failedSessions, result)
}
