package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/temirov/shellbatch/internal/execshell"
	"github.com/temirov/shellbatch/internal/utils"
)

// OutputFormat selects how a result is rendered.
type OutputFormat string

// Supported output formats.
const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

const (
	unsupportedOutputFormatMessageConstant  = "unsupported output format"
	unsupportedOutputFormatTemplateConstant = "%w: %s"
	renderErrorTemplateConstant             = "unable to render %s result: %w"
	textLineTemplateConstant                = "%s\n"
	jsonIndentConstant                      = "  "
	yamlIndentConstant                      = 2
)

// ErrUnsupportedOutputFormat indicates that Render received an unknown format.
var ErrUnsupportedOutputFormat = errors.New(unsupportedOutputFormatMessageConstant)

// SupportedOutputFormats lists the formats accepted by ResultRenderer.
func SupportedOutputFormats() []string {
	return []string{string(OutputFormatText), string(OutputFormatJSON), string(OutputFormatYAML)}
}

type renderedResult struct {
	ExitCode       int    `json:"exit_code" yaml:"exit_code"`
	Outcome        string `json:"outcome" yaml:"outcome"`
	StandardOutput string `json:"standard_output" yaml:"standard_output"`
	StandardError  string `json:"standard_error" yaml:"standard_error"`
	Failure        string `json:"failure,omitempty" yaml:"failure,omitempty"`
}

// ResultRenderer writes execution results for operators and scripts.
type ResultRenderer struct{}

// NewResultRenderer constructs a ResultRenderer.
func NewResultRenderer() ResultRenderer {
	return ResultRenderer{}
}

// Render writes result to writer in the requested format.
//
// The text format echoes the captured standard output and standard error,
// each followed by a newline when non-empty. Structured formats carry the
// exit code, outcome, and failure as well.
func (renderer ResultRenderer) Render(writer io.Writer, result execshell.ExecutionResult, format OutputFormat) error {
	outputWriter := utils.NewFlushingWriter(writer)

	var renderError error
	switch OutputFormat(strings.ToLower(strings.TrimSpace(string(format)))) {
	case OutputFormatText:
		renderError = renderer.renderText(outputWriter, result)
	case OutputFormatJSON:
		encoder := json.NewEncoder(outputWriter)
		encoder.SetIndent("", jsonIndentConstant)
		renderError = encoder.Encode(newRenderedResult(result))
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(outputWriter)
		encoder.SetIndent(yamlIndentConstant)
		renderError = multierr.Combine(encoder.Encode(newRenderedResult(result)), encoder.Close())
	default:
		return fmt.Errorf(unsupportedOutputFormatTemplateConstant, ErrUnsupportedOutputFormat, format)
	}

	if renderError != nil {
		return fmt.Errorf(renderErrorTemplateConstant, format, renderError)
	}
	return nil
}

func (renderer ResultRenderer) renderText(writer io.Writer, result execshell.ExecutionResult) error {
	for _, text := range []string{result.StandardOutput, result.StandardError} {
		if len(text) == 0 {
			continue
		}
		if _, writeError := fmt.Fprintf(writer, textLineTemplateConstant, text); writeError != nil {
			return writeError
		}
	}
	return nil
}

func newRenderedResult(result execshell.ExecutionResult) renderedResult {
	rendered := renderedResult{
		ExitCode:       result.ExitCode,
		Outcome:        string(result.Outcome),
		StandardOutput: result.StandardOutput,
		StandardError:  result.StandardError,
	}
	if result.Failure != nil {
		rendered.Failure = result.Failure.Error()
	}
	return rendered
}
