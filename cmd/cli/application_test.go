package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/shellbatch/cmd/cli"
	"github.com/temirov/shellbatch/internal/execshell"
)

const (
	testElevatedBinaryEnvironmentName = "SHELLBATCH_SHELL_ELEVATED_BINARY"
	testOutputFormatEnvironmentName   = "SHELLBATCH_SHELL_OUTPUT_FORMAT"
	testMissingBinaryConstant         = "/nonexistent/shellbatch-su"
	testConfigurationFileNameConstant = "config.yaml"
	testBatchFileNameConstant         = "batch.yaml"
)

type applicationRun struct {
	standardOutput string
	executionError error
}

func requireShell(testInstance *testing.T) {
	testInstance.Helper()
	if _, lookupError := exec.LookPath("sh"); lookupError != nil {
		testInstance.Skip("sh is not available")
	}
}

// runApplication executes the CLI with an isolated home directory so no user configuration leaks in.
func runApplication(testInstance *testing.T, arguments ...string) applicationRun {
	testInstance.Helper()
	homeDirectory := testInstance.TempDir()
	testInstance.Setenv("HOME", homeDirectory)
	testInstance.Setenv("XDG_CONFIG_HOME", filepath.Join(homeDirectory, "config"))

	var standardOutput, standardError bytes.Buffer
	application := cli.NewApplication()
	application.SetOutput(&standardOutput, &standardError)

	executionError := application.ExecuteArguments(arguments)
	return applicationRun{standardOutput: standardOutput.String(), executionError: executionError}
}

func writeTestFile(testInstance *testing.T, fileName string, content string) string {
	testInstance.Helper()
	filePath := filepath.Join(testInstance.TempDir(), fileName)
	require.NoError(testInstance, os.WriteFile(filePath, []byte(content), 0o600))
	return filePath
}

func TestRunCommandPrintsCapturedOutput(testInstance *testing.T) {
	requireShell(testInstance)

	testCases := []struct {
		name           string
		arguments      []string
		expectedOutput string
	}{
		{name: "single_command", arguments: []string{"run", "echo hello"}, expectedOutput: "hello\n"},
		{name: "ordered_commands", arguments: []string{"run", "echo a", "echo b"}, expectedOutput: "a\nb\n"},
		{name: "standard_error_follows_output", arguments: []string{"run", "echo out", "echo err 1>&2"}, expectedOutput: "out\nerr\n"},
		{name: "no_capture", arguments: []string{"run", "--no-capture", "echo hidden"}, expectedOutput: ""},
		{name: "terminator_allows_dash_commands", arguments: []string{"run", "--", "echo dashed"}, expectedOutput: "dashed\n"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			run := runApplication(testInstance, testCase.arguments...)

			require.NoError(testInstance, run.executionError)
			require.Equal(testInstance, testCase.expectedOutput, run.standardOutput)
		})
	}
}

func TestRunCommandReportsExitStatus(testInstance *testing.T) {
	requireShell(testInstance)

	run := runApplication(testInstance, "run", "echo partial", "(exit 3)")

	var exitStatusError cli.ExitStatusError
	require.ErrorAs(testInstance, run.executionError, &exitStatusError)
	require.Equal(testInstance, 3, exitStatusError.ExitCode)
	require.Equal(testInstance, 3, exitStatusError.ProcessExitCode())
	require.False(testInstance, exitStatusError.Reportable())
	require.Equal(testInstance, "partial\n", run.standardOutput)
}

func TestRunCommandTimeout(testInstance *testing.T) {
	requireShell(testInstance)

	run := runApplication(testInstance, "run", "--timeout", "200ms", "--format", "json", "sleep 3")

	var exitStatusError cli.ExitStatusError
	require.ErrorAs(testInstance, run.executionError, &exitStatusError)
	require.Equal(testInstance, execshell.OutcomeTimedOut, exitStatusError.Outcome)
	require.True(testInstance, exitStatusError.Reportable())
	require.Equal(testInstance, 1, exitStatusError.ProcessExitCode())

	decoded := map[string]any{}
	require.NoError(testInstance, json.Unmarshal([]byte(run.standardOutput), &decoded))
	require.Equal(testInstance, "timed_out", decoded["outcome"])
	require.EqualValues(testInstance, -1, decoded["exit_code"])
}

func TestRunCommandStructuredOutput(testInstance *testing.T) {
	requireShell(testInstance)

	run := runApplication(testInstance, "run", "--format", "json", "echo hello")
	require.NoError(testInstance, run.executionError)

	decoded := map[string]any{}
	require.NoError(testInstance, json.Unmarshal([]byte(run.standardOutput), &decoded))
	require.EqualValues(testInstance, 0, decoded["exit_code"])
	require.Equal(testInstance, "completed", decoded["outcome"])
	require.Equal(testInstance, "hello", decoded["standard_output"])
	require.NotContains(testInstance, decoded, "failure")
}

func TestRunCommandUsesConfiguredOutputFormat(testInstance *testing.T) {
	requireShell(testInstance)

	testInstance.Run("configuration_file", func(testInstance *testing.T) {
		configurationPath := writeTestFile(testInstance, testConfigurationFileNameConstant, "shell:\n  output_format: yaml\n")

		run := runApplication(testInstance, "--config", configurationPath, "run", "echo hello")
		require.NoError(testInstance, run.executionError)
		require.Contains(testInstance, run.standardOutput, "standard_output: hello")
	})

	testInstance.Run("environment", func(testInstance *testing.T) {
		testInstance.Setenv(testOutputFormatEnvironmentName, "json")

		run := runApplication(testInstance, "run", "echo hello")
		require.NoError(testInstance, run.executionError)
		require.True(testInstance, json.Valid([]byte(run.standardOutput)))
	})

	testInstance.Run("flag_overrides_configuration", func(testInstance *testing.T) {
		testInstance.Setenv(testOutputFormatEnvironmentName, "json")

		run := runApplication(testInstance, "run", "--format", "text", "echo hello")
		require.NoError(testInstance, run.executionError)
		require.Equal(testInstance, "hello\n", run.standardOutput)
	})
}

func TestRunCommandLoadsBatchFile(testInstance *testing.T) {
	requireShell(testInstance)

	workingDirectory := testInstance.TempDir()
	resolvedDirectory, resolveError := filepath.EvalSymlinks(workingDirectory)
	require.NoError(testInstance, resolveError)

	batchPath := writeTestFile(testInstance, testBatchFileNameConstant, "commands:\n  - echo \"$GREETING\"\n  - pwd -P\nworking_directory: "+workingDirectory+"\nenvironment:\n  GREETING: hello\n")

	run := runApplication(testInstance, "run", "--file", batchPath)
	require.NoError(testInstance, run.executionError)
	require.Equal(testInstance, "hello\n"+resolvedDirectory+"\n", run.standardOutput)
}

func TestRunCommandWorkingDirectoryFlag(testInstance *testing.T) {
	requireShell(testInstance)

	workingDirectory := testInstance.TempDir()
	resolvedDirectory, resolveError := filepath.EvalSymlinks(workingDirectory)
	require.NoError(testInstance, resolveError)

	run := runApplication(testInstance, "run", "--workdir", workingDirectory, "pwd -P")
	require.NoError(testInstance, run.executionError)
	require.Equal(testInstance, resolvedDirectory+"\n", run.standardOutput)
}

func TestRunCommandElevatedShell(testInstance *testing.T) {
	requireShell(testInstance)

	testCases := []struct {
		name      string
		arguments []string
	}{
		{name: "bare_long_flag", arguments: []string{"run", "--root", "echo elevated"}},
		{name: "bare_shorthand", arguments: []string{"run", "-r", "echo elevated"}},
		{name: "explicit_value", arguments: []string{"run", "--root", "yes", "echo elevated"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			testInstance.Setenv(testElevatedBinaryEnvironmentName, "sh")

			run := runApplication(testInstance, testCase.arguments...)
			require.NoError(testInstance, run.executionError)
			require.Equal(testInstance, "elevated\n", run.standardOutput)
		})
	}
}

func TestRunCommandMissingElevatedShell(testInstance *testing.T) {
	testInstance.Setenv(testElevatedBinaryEnvironmentName, testMissingBinaryConstant)

	run := runApplication(testInstance, "run", "--root", "id -u")

	var exitStatusError cli.ExitStatusError
	require.ErrorAs(testInstance, run.executionError, &exitStatusError)
	require.Equal(testInstance, execshell.SentinelExitCode, exitStatusError.ExitCode)
	require.Equal(testInstance, execshell.OutcomeSpawnFailed, exitStatusError.Outcome)
	require.True(testInstance, exitStatusError.Reportable())
	require.Empty(testInstance, run.standardOutput)
}

func TestRunCommandRejectsInvalidInvocations(testInstance *testing.T) {
	batchPath := writeTestFile(testInstance, testBatchFileNameConstant, "commands: [\"echo a\"]\n")

	testCases := []struct {
		name            string
		arguments       []string
		expectedMessage string
	}{
		{name: "no_commands", arguments: []string{"run"}, expectedMessage: "provide commands"},
		{name: "file_and_arguments", arguments: []string{"run", "--file", batchPath, "echo b"}, expectedMessage: "mutually exclusive"},
		{name: "unsupported_format", arguments: []string{"run", "--format", "xml", "echo a"}, expectedMessage: "invalid --format"},
		{name: "negative_timeout", arguments: []string{"run", "--timeout=-1s", "echo a"}, expectedMessage: "must not be negative"},
		{name: "missing_batch_file", arguments: []string{"run", "--file", filepath.Join(testInstance.TempDir(), "absent.yaml")}, expectedMessage: "unable to load batch"},
		{name: "unsupported_log_level", arguments: []string{"--log-level", "verbose", "run", "echo a"}, expectedMessage: "unable to create logger"},
		{name: "missing_configuration_file", arguments: []string{"--config", filepath.Join(testInstance.TempDir(), "absent.yaml"), "run", "echo a"}, expectedMessage: "unable to load configuration"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			run := runApplication(testInstance, testCase.arguments...)

			require.ErrorContains(testInstance, run.executionError, testCase.expectedMessage)
			var exitStatusError cli.ExitStatusError
			require.NotErrorAs(testInstance, run.executionError, &exitStatusError)
		})
	}
}

func TestRootCheckCommand(testInstance *testing.T) {
	requireShell(testInstance)

	testCases := []struct {
		name           string
		elevatedBinary string
		expectedOutput string
		expectExitCode bool
	}{
		{name: "available", elevatedBinary: "sh", expectedOutput: "root access available\n"},
		{name: "unavailable", elevatedBinary: testMissingBinaryConstant, expectedOutput: "root access unavailable\n", expectExitCode: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			testInstance.Setenv(testElevatedBinaryEnvironmentName, testCase.elevatedBinary)

			run := runApplication(testInstance, "root-check")
			require.Equal(testInstance, testCase.expectedOutput, run.standardOutput)

			if !testCase.expectExitCode {
				require.NoError(testInstance, run.executionError)
				return
			}
			var exitStatusError cli.ExitStatusError
			require.ErrorAs(testInstance, run.executionError, &exitStatusError)
			require.Equal(testInstance, 1, exitStatusError.ProcessExitCode())
			require.False(testInstance, exitStatusError.Reportable())
		})
	}
}

func TestEmbeddedDefaultConfiguration(testInstance *testing.T) {
	content, configurationType := cli.EmbeddedDefaultConfiguration()

	require.Equal(testInstance, "yaml", configurationType)
	require.Contains(testInstance, string(content), "elevated_binary: su")
	require.Contains(testInstance, string(content), "output_format: text")
}
