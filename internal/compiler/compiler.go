// internal/compiler/compiler.go
// Package compiler builds submissions with the fixed grading toolchain.
package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mwiater/autograde/internal/logging"
)

const (
	// SourceExt is the extension of submission source files.
	SourceExt = ".c"
	// ArtifactExt is the extension of compiled submission binaries.
	ArtifactExt = ".out"
	// DefaultToolchain is the compiler binary looked up on PATH.
	DefaultToolchain = "gcc"
	// defaultTimeout bounds a single compiler invocation.
	defaultTimeout = 30 * time.Second
)

// flags is the grading policy: strict warnings, C89.
var flags = []string{"-Wall", "-ansi"}

// ErrToolchainUnavailable is returned when the compiler cannot be started at all.
var ErrToolchainUnavailable = errors.New("toolchain unavailable")

// Result describes one compiler invocation.
type Result struct {
	Succeeded    bool   `json:"succeeded"`
	ArtifactPath string `json:"artifactPath,omitempty"`
	Diagnostics  int    `json:"diagnostics"`
	Output       string `json:"output,omitempty"`
}

// Compiler turns a source file into an executable artifact.
type Compiler interface {
	Compile(ctx context.Context, sourcePath string) (Result, error)
}

// GCC invokes gcc with the fixed grading flags.
type GCC struct {
	// Path is the toolchain binary; empty means DefaultToolchain.
	Path string
	// Timeout bounds each compilation; zero means the package default.
	Timeout time.Duration
}

// NewGCC returns a GCC compiler using the toolchain found on PATH.
func NewGCC(timeout time.Duration) *GCC {
	return &GCC{Path: DefaultToolchain, Timeout: timeout}
}

func (g *GCC) path() string {
	if p := strings.TrimSpace(g.Path); p != "" {
		return p
	}
	return DefaultToolchain
}

func (g *GCC) timeout() time.Duration {
	if g.Timeout <= 0 {
		return defaultTimeout
	}
	return g.Timeout
}

// Check reports ErrToolchainUnavailable when the toolchain cannot be resolved.
func (g *GCC) Check() error {
	if _, err := exec.LookPath(g.path()); err != nil {
		return fmt.Errorf("%w: %v", ErrToolchainUnavailable, err)
	}
	return nil
}

// ArtifactPath returns the binary path for sourcePath: same directory and base
// name, with the source extension replaced by ArtifactExt.
func ArtifactPath(sourcePath string) string {
	return strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + ArtifactExt
}

// Compile runs the toolchain on sourcePath. A non-zero exit status is reported
// through Result.Succeeded, not as an error; only a toolchain that cannot be
// started (or a cancelled ctx) yields an error.
func (g *GCC) Compile(ctx context.Context, sourcePath string) (Result, error) {
	artifact := ArtifactPath(sourcePath)

	compileCtx, cancel := context.WithTimeout(ctx, g.timeout())
	defer cancel()

	args := append(append([]string{}, flags...), sourcePath, "-o", artifact)
	cmd := exec.CommandContext(compileCtx, g.path(), args...)
	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	runErr := cmd.Run()
	output := stderr.String()
	result := Result{
		Diagnostics: CountDiagnostics(output),
		Output:      output,
	}

	// ErrWaitDelay means the toolchain exited 0 while a child it spawned kept
	// stderr open; the artifact check below decides the outcome.
	if runErr != nil && !errors.Is(runErr, exec.ErrWaitDelay) {
		var exitErr *exec.ExitError
		switch {
		case ctx.Err() != nil:
			return result, ctx.Err()
		case errors.As(runErr, &exitErr):
			logging.LogPhase(sourcePath, "compile", "succeeded", false, "exitCode", exitErr.ExitCode(), "diagnostics", result.Diagnostics, "timedOut", compileCtx.Err() != nil)
			return result, nil
		default:
			return result, fmt.Errorf("%w: %s: %v", ErrToolchainUnavailable, g.path(), runErr)
		}
	}

	if _, err := os.Stat(artifact); err != nil {
		logging.LogPhase(sourcePath, "compile", "succeeded", false, "reason", "artifact missing", "diagnostics", result.Diagnostics)
		return result, nil
	}

	result.Succeeded = true
	result.ArtifactPath = artifact
	logging.LogPhase(sourcePath, "compile", "succeeded", true, "diagnostics", result.Diagnostics)
	return result, nil
}

// CountDiagnostics returns the number of newline-terminated lines in a
// diagnostic stream. An empty stream counts as zero.
func CountDiagnostics(stream string) int {
	return len(strings.Split(stream, "\n")) - 1
}
