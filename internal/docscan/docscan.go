// internal/docscan/docscan.go
package docscan

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Markers that make a line count as documentation. Matching is plain
// substring containment, so a marker inside a string literal also counts.
var Markers = []string{"/*", "//"}

// CountDocumentationLines returns how many lines of the file at path contain
// a documentation marker.
func CountDocumentationLines(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open source %s: %w", path, err)
	}
	defer file.Close()

	count, err := CountLines(file)
	if err != nil {
		return 0, fmt.Errorf("scan source %s: %w", path, err)
	}
	return count, nil
}

// CountLines counts qualifying lines read from r. A line holding several
// markers counts once. Lines may be of any length.
func CountLines(r io.Reader) (int, error) {
	reader := bufio.NewReader(r)

	count := 0
	for {
		line, err := reader.ReadString('\n')
		if line != "" && isDocumentation(line) {
			count++
		}
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, err
		}
	}
}

func isDocumentation(line string) bool {
	for _, marker := range Markers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}
