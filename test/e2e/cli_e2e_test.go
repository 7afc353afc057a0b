package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestCLI_E2E builds the binary and checks its observable behavior.
func TestCLI_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	tmpDir := t.TempDir()
	binName := "montyhall"
	if runtime.GOOS == "windows" {
		binName = "montyhall.exe"
	}
	binPath := filepath.Join(tmpDir, binName)

	// go test runs in the package directory; build from the module root.
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/montyhall")
	cmd.Dir = "../.."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build montyhall: %v", err)
	}

	tests := []struct {
		name     string
		args     []string
		env      []string
		wantOut  string // substring match (case-insensitive)
		wantCode int
	}{
		{"Default run", []string{"-r", "10000"}, nil, "Swap", 0},
		{"Quiet", []string{"-r", "1000", "-q", "--seed", "3"}, nil, "Stick  = ", 0},
		{"Verbose lines", []string{"-r", "5", "-t", "2", "-o", "--seed", "3"}, nil, "RoundNumber:WinningNumber", 0},
		{"Zero rounds clamped", []string{"-r", "0", "-q"}, nil, "Random = ", 0},
		{"Static partition", []string{"-r", "5000", "--partition", "static", "--sink", "locked", "-q"}, nil, "Swap", 0},
		{"Env override", []string{"-q"}, []string{"MONTYHALL_ROUNDS=7"}, "Stick", 0},
		{"Help", []string{"--help"}, nil, "usage", 0},
		{"Version Flag", []string{"--version"}, nil, "montyhall", 0},
		{"Completion", []string{"--completion", "bash"}, nil, "_montyhall_completions", 0},
		{"Bad partition", []string{"--partition", "zigzag"}, nil, "configuration error", 4},
		{"Bad env value", nil, []string{"MONTYHALL_WORKERS=many"}, "configuration error", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binPath, tt.args...)
			cmd.Env = append(append(os.Environ(), "NO_COLOR=1"), tt.env...)
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			code := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else if err != nil {
				t.Fatalf("running binary: %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nOutput: %s", code, tt.wantCode, outStr)
			}
			if !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
				t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
			}
		})
	}
}

// TestCLI_VerboseLineCount checks that -o writes exactly one line per trial
// after the header, whatever the worker count.
func TestCLI_VerboseLineCount(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	binPath := filepath.Join(t.TempDir(), "montyhall")
	build := exec.Command("go", "build", "-o", binPath, "./cmd/montyhall")
	build.Dir = "../.."
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("build: %v\n%s", err, out)
	}

	cmd := exec.Command(binPath, "-r", "3000", "-t", "8", "-o", "--seed", "11")
	cmd.Env = append(os.Environ(), "NO_COLOR=1")
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	count := 0
	for _, line := range strings.Split(string(out), "\n") {
		if strings.Count(line, ":") == 7 && strings.Contains(line, ":w") {
			count++
		}
	}
	if count != 3000 {
		t.Errorf("got %d trial lines, want 3000", count)
	}
}
