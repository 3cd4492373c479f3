//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	Host       string
	Port       string
	Username   string
	Password   string
	BinaryPath string
	Verbose    bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		Host:       os.Getenv("CODE42_TEST_HOST"),
		Port:       os.Getenv("CODE42_TEST_PORT"),
		Username:   os.Getenv("CODE42_TEST_USERNAME"),
		Password:   os.Getenv("CODE42_TEST_PASSWORD"),
		BinaryPath: getBinaryPath(),
		Verbose:    os.Getenv("CODE42_TEST_VERBOSE") == "true",
	}
}

// getBinaryPath determines the path to the code42 binary
func getBinaryPath() string {
	if path := os.Getenv("CODE42_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../code42",
		"./code42",
		"../code42",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "code42"
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.Host == "" || config.Username == "" || config.Password == "" {
		t.Skip("CODE42_TEST_HOST, CODE42_TEST_USERNAME or CODE42_TEST_PASSWORD not set, skipping integration test")
	}

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("code42 binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// CommandRunner runs code42 commands against the test server with a
// throwaway configuration file.
type CommandRunner struct {
	config     *TestConfig
	configFile string
	t          *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	return &CommandRunner{
		config:     config,
		configFile: filepath.Join(t.TempDir(), "config.yml"),
		t:          t,
	}
}

// Run executes a code42 command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	global := []string{
		"--config", runner.configFile,
		"--host", runner.config.Host,
		"--username", runner.config.Username,
	}

	if runner.config.Port != "" {
		global = append(global, "--port", runner.config.Port)
	}

	cmd := exec.Command(runner.config.BinaryPath, append(global, args...)...)
	cmd.Env = append(os.Environ(), "CODE42_PASSWORD="+runner.config.Password)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}

// AssertJSONOutput fails the test when output is not valid JSON
func AssertJSONOutput(t *testing.T, output string) {
	t.Helper()

	var decoded any
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, output)
	}
}
