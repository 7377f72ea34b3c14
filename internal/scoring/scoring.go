// internal/scoring/scoring.go
// Package scoring turns raw grading signals into sub-scores and a final grade.
package scoring

import "math"

// Grading policy weights.
const (
	// CompileCredit is awarded for a successful compilation.
	CompileCredit = 3.0
	// DiagnosticPenalty is subtracted per diagnostic line.
	DiagnosticPenalty = 0.5
	// DocCreditPerLine is awarded per documentation line.
	DocCreditPerLine = 2.0 / 3.0
	// DocCap is the maximum documentation score.
	DocCap = 2.0
	// TestCredit is the score for passing the whole test vector.
	TestCredit = 5.0
	// TestVectorSize is the number of cases TestCredit is spread over.
	TestVectorSize = 7
)

// Breakdown holds the sub-scores of one submission.
type Breakdown struct {
	DocScore     float64 `json:"docScore"`
	CompileScore float64 `json:"compileScore"`
	TestScore    float64 `json:"testScore"`
	FinalScore   float64 `json:"finalScore"`
}

// Score combines the grading signals. It is pure and deterministic.
func Score(docCount int, compiled bool, diagnostics, testsPassed int) Breakdown {
	docScore := Round2(math.Min(float64(docCount)*DocCreditPerLine, DocCap))

	compileScore := math.Max(float64(boolToInt(compiled))*CompileCredit-float64(diagnostics)*DiagnosticPenalty, 0)

	testScore := float64(testsPassed) * TestCredit / TestVectorSize

	return Breakdown{
		DocScore:     docScore,
		CompileScore: compileScore,
		TestScore:    testScore,
		FinalScore:   Round2(compileScore + docScore + testScore),
	}
}

// Round2 rounds v to two decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
