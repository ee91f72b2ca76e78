package batch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/temirov/shellbatch/internal/execshell"
)

const (
	batchPathRequiredMessageConstant     = "batch file path is required"
	batchEmptyMessageConstant            = "batch file defines no commands"
	batchReadErrorTemplateConstant       = "unable to read batch file %s: %w"
	batchParseErrorTemplateConstant      = "unable to parse batch file %s: %w"
	batchTimeoutErrorTemplateConstant    = "invalid timeout %q in batch file %s: %w"
	batchNegativeTimeoutTemplateConstant = "negative timeout %q in batch file %s"
	standardInputSourceNameConstant      = "-"
)

var (
	// ErrBatchPathRequired indicates that Load received a blank path.
	ErrBatchPathRequired = errors.New(batchPathRequiredMessageConstant)
	// ErrBatchEmpty indicates that a batch document has no commands key.
	ErrBatchEmpty = errors.New(batchEmptyMessageConstant)
)

// Document mirrors the YAML layout of a batch file.
type Document struct {
	Commands         []string          `yaml:"commands"`
	Elevated         bool              `yaml:"elevated"`
	CaptureOutput    *bool             `yaml:"capture_output"`
	Timeout          string            `yaml:"timeout"`
	WorkingDirectory string            `yaml:"working_directory"`
	Environment      map[string]string `yaml:"environment"`
}

// Loader reads batch files from disk. A path of "-" reads the document from Input.
type Loader struct {
	Input io.Reader
}

// NewLoader constructs a Loader that reads "-" from standard input.
func NewLoader() *Loader {
	return &Loader{Input: os.Stdin}
}

// Load parses the batch file at batchPath into an execution request.
func (loader *Loader) Load(batchPath string) (execshell.ExecutionRequest, error) {
	trimmedPath := strings.TrimSpace(batchPath)
	if len(trimmedPath) == 0 {
		return execshell.ExecutionRequest{}, ErrBatchPathRequired
	}

	content, readError := loader.read(trimmedPath)
	if readError != nil {
		return execshell.ExecutionRequest{}, fmt.Errorf(batchReadErrorTemplateConstant, trimmedPath, readError)
	}

	return Parse(trimmedPath, content)
}

func (loader *Loader) read(batchPath string) ([]byte, error) {
	if batchPath == standardInputSourceNameConstant && loader.Input != nil {
		return io.ReadAll(loader.Input)
	}
	return os.ReadFile(batchPath)
}

// Parse decodes batch content. sourceName only labels errors.
func Parse(sourceName string, content []byte) (execshell.ExecutionRequest, error) {
	var document Document
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if decodeError := decoder.Decode(&document); decodeError != nil {
		if errors.Is(decodeError, io.EOF) {
			return execshell.ExecutionRequest{}, ErrBatchEmpty
		}
		return execshell.ExecutionRequest{}, fmt.Errorf(batchParseErrorTemplateConstant, sourceName, decodeError)
	}

	if document.Commands == nil {
		return execshell.ExecutionRequest{}, ErrBatchEmpty
	}

	timeout, timeoutError := parseTimeout(sourceName, document.Timeout)
	if timeoutError != nil {
		return execshell.ExecutionRequest{}, timeoutError
	}

	captureOutput := true
	if document.CaptureOutput != nil {
		captureOutput = *document.CaptureOutput
	}

	return execshell.ExecutionRequest{
		Commands:             document.Commands,
		Elevated:             document.Elevated,
		CaptureOutput:        captureOutput,
		Timeout:              timeout,
		WorkingDirectory:     strings.TrimSpace(document.WorkingDirectory),
		EnvironmentVariables: document.Environment,
	}, nil
}

func parseTimeout(sourceName string, rawTimeout string) (time.Duration, error) {
	trimmedTimeout := strings.TrimSpace(rawTimeout)
	if len(trimmedTimeout) == 0 {
		return 0, nil
	}

	timeout, parseError := time.ParseDuration(trimmedTimeout)
	if parseError != nil {
		return 0, fmt.Errorf(batchTimeoutErrorTemplateConstant, rawTimeout, sourceName, parseError)
	}
	if timeout < 0 {
		return 0, fmt.Errorf(batchNegativeTimeoutTemplateConstant, rawTimeout, sourceName)
	}
	return timeout, nil
}
