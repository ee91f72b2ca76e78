package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(testInstance *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "default_first_choice",
			defaultChoice:  "text",
			choices:        []string{"text", "json", "yaml"},
			description:    "Result format.",
			expectedOutput: "`<TEXT|json|yaml>` Result format.",
		},
		{
			name:           "default_last_choice",
			defaultChoice:  "yaml",
			choices:        []string{"text", "json", "yaml"},
			description:    "Result format.",
			expectedOutput: "`<text|json|YAML>` Result format.",
		},
		{
			name:           "empty_description",
			defaultChoice:  "structured",
			choices:        []string{"structured", "console"},
			expectedOutput: "`<STRUCTURED|console>`",
		},
		{
			name:           "duplicates_and_whitespace_ignored",
			defaultChoice:  "console",
			choices:        []string{" console ", "console", "", "structured"},
			description:    "Log format.",
			expectedOutput: "`<CONSOLE|structured>` Log format.",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedOutput, FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description))
		})
	}
}

func TestResolveChoice(testInstance *testing.T) {
	choices := []string{"text", "json", "yaml"}

	resolvedChoice, resolveError := ResolveChoice(" JSON ", choices)
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, "json", resolvedChoice)

	_, unsupportedError := ResolveChoice("xml", choices)
	require.ErrorContains(testInstance, unsupportedError, "text, json, yaml")
}
