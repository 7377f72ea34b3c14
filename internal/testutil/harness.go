// Package testutil holds helpers shared by the grading package tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

// WriteScript writes an executable /bin/sh script named name into dir and
// returns its path. Tests that need one skip on platforms without /bin/sh.
func WriteScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	RequireShell(t)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script %s: %v", name, err)
	}
	return path
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// RequireShell skips the test when /bin/sh scripts cannot be executed.
func RequireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
}

// RequireGCC skips the test when gcc is not on PATH.
func RequireGCC(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("gcc")
	if err != nil {
		t.Skip("gcc not available")
	}
	return path
}

// SumProgram is a C89 program that prints the sum of its two arguments.
const SumProgram = `/* sum of two integers */
#include <stdio.h>
#include <stdlib.h>

/* entry point */
int main(int argc, char *argv[]) {
    int a, b;
    /* both operands are required */
    if (argc != 3) {
        return 1;
    }
    a = atoi(argv[1]);
    b = atoi(argv[2]);
    printf("Result: %d\n", a + b);
    return 0;
}
`

// BrokenProgram does not compile.
const BrokenProgram = `#include <stdio.h>

int main(void) {
    printf("missing semicolon")
    return 0
}
`

// FakeToolchain is a WriteScript body that mimics gcc invoked as
// "cc -Wall -ansi SRC -o OUT": sources containing BROKEN fail with two
// diagnostics; anything else yields one warning and a shell "binary" that
// prints the sum of its two arguments.
const FakeToolchain = `if grep -q BROKEN "$3"; then
  echo 'error: expected ;' >&2
  echo 'error: expected }' >&2
  exit 1
fi
echo 'warning: unused variable' >&2
printf '#!/bin/sh\necho "Result: $(($1 + $2))"\n' > "$5"
chmod +x "$5"`
