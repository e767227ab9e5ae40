package integration

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

var (
	binaryPath  string
	coverageDir string
)

func TestMain(m *testing.M) {
	// Build the binary once before running tests
	tmpDir, err := os.MkdirTemp("", "tailring-test")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(tmpDir, "tailring")

	// Create coverage directory in project root for persistent coverage data
	// If GOCOVERDIR is set externally, use that; otherwise use "./coverage"
	coverageDir = os.Getenv("GOCOVERDIR")
	if coverageDir == "" {
		// Get absolute path to project root (2 levels up from internal/integration)
		wd, err := os.Getwd()
		if err != nil {
			_ = os.RemoveAll(tmpDir)
			panic("failed to get working directory: " + err.Error())
		}
		coverageDir = filepath.Join(wd, "..", "..", "coverage")
	}
	// Make path absolute
	coverageDir, err = filepath.Abs(coverageDir)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		panic("failed to get absolute coverage directory path: " + err.Error())
	}
	if err := os.MkdirAll(coverageDir, 0o750); err != nil {
		_ = os.RemoveAll(tmpDir)
		panic("failed to create coverage directory: " + err.Error())
	}

	// Build the module's main package with coverage instrumentation
	cmd := exec.Command("go", "build", "-cover", "-o", binaryPath, "github.com/tinovyatkin/tailring")
	if out, err := cmd.CombinedOutput(); err != nil {
		_ = os.RemoveAll(tmpDir)
		panic("failed to build binary: " + string(out))
	}

	code := m.Run()

	_ = os.RemoveAll(tmpDir)
	os.Exit(code)
}

// run executes the binary with a clean tailring environment.
func run(t *testing.T, args ...string) ([]byte, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(cleanEnv(),
		"GOCOVERDIR="+coverageDir,
	)
	return cmd.CombinedOutput()
}

func cleanEnv() []string {
	var env []string
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "TAILRING_") {
			env = append(env, kv)
		}
	}
	return env
}

func TestTail(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{"character", []string{"--max-size", "64", "-g", "character", "testdata/app.log"}},
		{"line", []string{"--max-size", "128", "-g", "line", "testdata/app.log"}},
		{"line-stats", []string{"--max-size", "128", "-g", "line", "--stats", "--color", "off", "testdata/app.log"}},
		{"oversized-line", []string{"--max-size", "10", "-g", "line", "--stats", "--color", "off", "testdata/app.log"}},
		{"glob", []string{"--max-size", "48", "-g", "line", "testdata/logs/**/*.log"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"tail"}, tc.args...)
			output, err := run(t, args...)
			if err != nil {
				t.Fatalf("tail failed: %v\noutput: %s", err, output)
			}

			snaps.WithConfig(snaps.Ext(".txt")).MatchStandaloneSnapshot(t, string(output))
		})
	}
}

func TestTail_Stdin(t *testing.T) {
	cmd := exec.Command(binaryPath, "tail", "--max-size", "18", "-g", "character")
	cmd.Env = append(cleanEnv(), "GOCOVERDIR="+coverageDir)
	cmd.Stdin = strings.NewReader("hello worldthis is a test")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("tail failed: %v\noutput: %s", err, output)
	}
	if got, want := string(output), "orldthis is a test"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestTail_MissingFile(t *testing.T) {
	output, err := run(t, "tail", "testdata/does-not-exist.log")
	if err == nil {
		t.Fatalf("expected failure, got output: %s", output)
	}
	if !strings.Contains(string(output), "does-not-exist.log") {
		t.Errorf("error output should name the file, got: %s", output)
	}
}

func TestExec(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	t.Run("lines", func(t *testing.T) {
		output, err := run(t, "exec", "--max-size", "16", "-g", "line", "--",
			"sh", "-c", `printf 'one\ntwo\nthree\nfour\nfive\n'`)
		if err != nil {
			t.Fatalf("exec failed: %v\noutput: %s", err, output)
		}
		snaps.WithConfig(snaps.Ext(".txt")).MatchStandaloneSnapshot(t, string(output))
	})

	t.Run("exit code", func(t *testing.T) {
		output, err := run(t, "exec", "--max-size", "64", "--",
			"sh", "-c", "echo started; echo boom >&2; exit 3")
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("expected exit error, got %v\noutput: %s", err, output)
		}
		if exitErr.ExitCode() != 3 {
			t.Errorf("exit code = %d, want 3", exitErr.ExitCode())
		}
		if !strings.Contains(string(output), "started\nboom\n") {
			t.Errorf("output should keep the command's tail, got: %q", output)
		}
	})
}

func TestVersion(t *testing.T) {
	output, err := run(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v\noutput: %s", err, output)
	}

	// Version output contains "dev" in tests
	if !strings.HasPrefix(string(output), "tailring version dev") {
		t.Errorf("unexpected version output: %q", output)
	}
}
