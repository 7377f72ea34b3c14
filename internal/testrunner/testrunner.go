// internal/testrunner/testrunner.go
// Package testrunner executes a compiled submission against the fixed
// addition test vector.
package testrunner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mwiater/autograde/internal/logging"
)

const (
	// DefaultTimeout bounds a single test case execution.
	DefaultTimeout = 3 * time.Second
	// maxOutputBytes caps how much of a program's stdout is kept. Only the
	// tail matters since the answer is the last token.
	maxOutputBytes = 64 * 1024
)

// Case is one input pair; the program is expected to print A+B.
type Case struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Expected returns the sum the program must print.
func (c Case) Expected() int { return c.A + c.B }

// Args returns the positional arguments passed to the program.
func (c Case) Args() []string {
	return []string{strconv.Itoa(c.A), strconv.Itoa(c.B)}
}

// DefaultCases is the grading test vector.
var DefaultCases = []Case{
	{0, 0},
	{1, 0},
	{0, 1},
	{1, 1},
	{12, 12},
	{12, -43},
	{-1, -52},
}

// Status classifies a single case outcome.
type Status string

const (
	StatusPassed       Status = "passed"
	StatusWrongAnswer  Status = "wrong_answer"
	StatusParseError   Status = "parse_error"
	StatusRuntimeError Status = "runtime_error"
	StatusTimeout      Status = "timeout"
	StatusCancelled    Status = "cancelled"
)

// CaseResult records how the program behaved on one Case.
type CaseResult struct {
	Case     Case          `json:"case"`
	Expected int           `json:"expected"`
	Actual   *int          `json:"actual,omitempty"`
	Status   Status        `json:"status"`
	Output   string        `json:"output,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"durationNs"`
}

// Outcome summarizes a full run of the test vector.
type Outcome struct {
	Passed int          `json:"passed"`
	Total  int          `json:"total"`
	Cases  []CaseResult `json:"cases"`
}

// Runner executes artifacts against a test vector, one case at a time.
type Runner struct {
	Cases   []Case
	Timeout time.Duration
}

// New returns a Runner over DefaultCases. A non-positive timeout selects
// DefaultTimeout.
func New(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{Cases: DefaultCases, Timeout: timeout}
}

// Run executes artifactPath once per case and counts passes. Crashes,
// timeouts and unparsable output are failed cases, never errors. When ctx
// is cancelled the remaining cases are marked cancelled without running.
func (r *Runner) Run(ctx context.Context, artifactPath string) Outcome {
	if abs, err := filepath.Abs(artifactPath); err == nil {
		artifactPath = abs
	}

	outcome := Outcome{
		Total: len(r.Cases),
		Cases: make([]CaseResult, 0, len(r.Cases)),
	}
	for _, c := range r.Cases {
		var result CaseResult
		if ctx.Err() != nil {
			result = CaseResult{Case: c, Expected: c.Expected(), Status: StatusCancelled, Error: ctx.Err().Error()}
		} else {
			result = r.runCase(ctx, artifactPath, c)
		}
		if result.Status == StatusPassed {
			outcome.Passed++
		}
		outcome.Cases = append(outcome.Cases, result)
	}

	logging.LogPhase(artifactPath, "test", "passed", outcome.Passed, "total", outcome.Total)
	return outcome
}

func (r *Runner) timeout() time.Duration {
	if r.Timeout <= 0 {
		return DefaultTimeout
	}
	return r.Timeout
}

func (r *Runner) runCase(ctx context.Context, artifactPath string, c Case) CaseResult {
	result := CaseResult{Case: c, Expected: c.Expected()}

	caseCtx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()

	cmd := exec.CommandContext(caseCtx, artifactPath, c.Args()...)
	stdout := &tailBuffer{limit: maxOutputBytes}
	cmd.Stdout = stdout
	cmd.Stderr = io.Discard
	cmd.WaitDelay = 500 * time.Millisecond

	start := time.Now()
	runErr := cmd.Run()
	result.Duration = time.Since(start)
	result.Output = strings.TrimSpace(stdout.String())

	switch {
	case ctx.Err() != nil:
		result.Status = StatusCancelled
		result.Error = ctx.Err().Error()
		return result
	case errors.Is(caseCtx.Err(), context.DeadlineExceeded):
		result.Status = StatusTimeout
		result.Error = fmt.Sprintf("no result within %s", r.timeout())
		return result
	case runErr != nil && !errors.Is(runErr, exec.ErrWaitDelay):
		result.Status = StatusRuntimeError
		result.Error = runErr.Error()
		return result
	}

	actual, err := ParseLastToken(result.Output)
	if err != nil {
		result.Status = StatusParseError
		result.Error = err.Error()
		return result
	}
	result.Actual = &actual
	if actual == result.Expected {
		result.Status = StatusPassed
	} else {
		result.Status = StatusWrongAnswer
	}
	return result
}

// ParseLastToken parses the last whitespace-delimited token of output as an
// integer. "Result: -31" yields -31; "-31 Result" is an error.
func ParseLastToken(output string) (int, error) {
	fields := strings.Fields(output)
	if len(fields) == 0 {
		return 0, errors.New("empty output")
	}
	last := fields[len(fields)-1]
	value, err := strconv.Atoi(last)
	if err != nil {
		return 0, fmt.Errorf("last token %q is not an integer", last)
	}
	return value, nil
}

// tailBuffer keeps at most limit trailing bytes written to it.
type tailBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if len(p) >= t.limit {
		t.buf.Reset()
		t.buf.Write(p[len(p)-t.limit:])
		return n, nil
	}
	if overflow := t.buf.Len() + len(p) - t.limit; overflow > 0 {
		t.buf.Next(overflow)
	}
	t.buf.Write(p)
	return n, nil
}

func (t *tailBuffer) String() string { return t.buf.String() }
