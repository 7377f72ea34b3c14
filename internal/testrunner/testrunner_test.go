package testrunner

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mwiater/autograde/internal/testutil"
)

func TestDefaultCasesExpectedSums(t *testing.T) {
	want := []int{0, 1, 1, 2, 24, -31, -53}
	if len(DefaultCases) != len(want) {
		t.Fatalf("expected %d cases, got %d", len(want), len(DefaultCases))
	}
	for i, c := range DefaultCases {
		if c.Expected() != want[i] {
			t.Fatalf("case %d expected %d, got %d", i, want[i], c.Expected())
		}
	}
	if args := (Case{12, -43}).Args(); args[0] != "12" || args[1] != "-43" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestParseLastToken(t *testing.T) {
	ok := map[string]int{
		"Result: -31":        -31,
		"-31":                -31,
		"  42\n":             42,
		"a + b =\n 7":        7,
		"sum is +5":          5,
		"line one\nline 2 3": 3,
	}
	for output, want := range ok {
		got, err := ParseLastToken(output)
		if err != nil {
			t.Fatalf("ParseLastToken(%q) error: %v", output, err)
		}
		if got != want {
			t.Fatalf("ParseLastToken(%q) = %d, want %d", output, got, want)
		}
	}

	for _, output := range []string{"", "   ", "-31 Result", "7.0", "sum=7"} {
		if _, err := ParseLastToken(output); err == nil {
			t.Fatalf("ParseLastToken(%q) expected error", output)
		}
	}
}

func TestRunScenarios(t *testing.T) {
	cases := []struct {
		name   string
		script string
		passed int
		status Status
	}{
		{"labelled sum", `echo "Result: $(($1 + $2))"`, 7, StatusPassed},
		{"label after sum", `echo "$(($1 + $2)) Result"`, 0, StatusParseError},
		{"constant zero", `echo 0`, 1, StatusWrongAnswer},
		{"correct output but crash", "echo $(($1 + $2))\nexit 3", 0, StatusRuntimeError},
		{"no output", `exit 0`, 0, StatusParseError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			artifact := testutil.WriteScript(t, t.TempDir(), "prog.out", tc.script)
			outcome := New(2*time.Second).Run(context.Background(), artifact)

			if outcome.Passed != tc.passed {
				t.Fatalf("Passed = %d, want %d (%+v)", outcome.Passed, tc.passed, outcome.Cases)
			}
			if outcome.Total != len(DefaultCases) || len(outcome.Cases) != len(DefaultCases) {
				t.Fatalf("expected %d case results, got total=%d len=%d", len(DefaultCases), outcome.Total, len(outcome.Cases))
			}
			last := outcome.Cases[len(outcome.Cases)-1]
			if last.Status != tc.status {
				t.Fatalf("last case status = %s, want %s", last.Status, tc.status)
			}
		})
	}
}

func TestRunLastTokenContract(t *testing.T) {
	dir := t.TempDir()
	runner := &Runner{Cases: []Case{{12, -43}}, Timeout: 2 * time.Second}

	labelled := testutil.WriteScript(t, dir, "labelled.out", `echo "Result: -31"`)
	if got := runner.Run(context.Background(), labelled).Passed; got != 1 {
		t.Fatalf("expected \"Result: -31\" to pass, got %d", got)
	}

	trailing := testutil.WriteScript(t, dir, "trailing.out", `echo "-31 Result"`)
	if got := runner.Run(context.Background(), trailing).Passed; got != 0 {
		t.Fatalf("expected \"-31 Result\" to fail, got %d", got)
	}
}

func TestRunHangingProgramTimesOut(t *testing.T) {
	artifact := testutil.WriteScript(t, t.TempDir(), "hang.out", "exec sleep 30")
	runner := &Runner{Cases: []Case{{0, 0}, {1, 1}}, Timeout: 150 * time.Millisecond}

	start := time.Now()
	outcome := runner.Run(context.Background(), artifact)
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("hanging program was not terminated, took %s", elapsed)
	}
	if outcome.Passed != 0 {
		t.Fatalf("expected 0 passes, got %d", outcome.Passed)
	}
	for _, c := range outcome.Cases {
		if c.Status != StatusTimeout {
			t.Fatalf("expected timeout status, got %s", c.Status)
		}
	}
}

func TestRunCancelledContext(t *testing.T) {
	artifact := testutil.WriteScript(t, t.TempDir(), "sum.out", `echo $(($1 + $2))`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := New(0).Run(ctx, artifact)
	if outcome.Passed != 0 {
		t.Fatalf("expected no passes after cancellation, got %d", outcome.Passed)
	}
	for _, c := range outcome.Cases {
		if c.Status != StatusCancelled {
			t.Fatalf("expected cancelled status, got %s", c.Status)
		}
	}
}

func TestRunMissingArtifact(t *testing.T) {
	outcome := New(time.Second).Run(context.Background(), "/nonexistent/prog.out")
	if outcome.Passed != 0 {
		t.Fatalf("expected 0 passes, got %d", outcome.Passed)
	}
	if outcome.Cases[0].Status != StatusRuntimeError {
		t.Fatalf("expected runtime error, got %s", outcome.Cases[0].Status)
	}
}

func TestTailBufferKeepsTail(t *testing.T) {
	buf := &tailBuffer{limit: 8}
	_, _ = buf.Write([]byte("abcdef"))
	_, _ = buf.Write([]byte("ghij"))
	if got := buf.String(); got != "cdefghij" {
		t.Fatalf("unexpected tail %q", got)
	}
	_, _ = buf.Write([]byte(strings.Repeat("x", 20) + "Result 7"))
	if got := buf.String(); got != "Result 7" {
		t.Fatalf("unexpected tail %q", got)
	}
}

func TestRunProgramLeavingBackgroundChild(t *testing.T) {
	artifact := testutil.WriteScript(t, t.TempDir(), "forks.out", "echo \"Result: $(($1 + $2))\"\nsleep 2 &")
	runner := &Runner{Cases: DefaultCases[:2], Timeout: 3 * time.Second}

	outcome := runner.Run(context.Background(), artifact)
	if outcome.Passed != 2 {
		t.Fatalf("Passed = %d, want 2 (%+v)", outcome.Passed, outcome.Cases)
	}
}
