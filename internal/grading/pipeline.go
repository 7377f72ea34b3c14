// internal/grading/pipeline.go
// Package grading discovers submissions in a directory and grades each one:
// identity, compilation, tests, documentation scan and scoring.
package grading

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mwiater/autograde/internal/compiler"
	"github.com/mwiater/autograde/internal/docscan"
	"github.com/mwiater/autograde/internal/identity"
	"github.com/mwiater/autograde/internal/logging"
	"github.com/mwiater/autograde/internal/scoring"
	"github.com/mwiater/autograde/internal/testrunner"
)

// ErrSubmissionsDir is returned when the submissions directory cannot be listed.
var ErrSubmissionsDir = errors.New("submissions directory unavailable")

// Tester runs a compiled artifact against the test vector.
type Tester interface {
	Run(ctx context.Context, artifactPath string) testrunner.Outcome
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers bounds how many submissions are graded concurrently.
// Values below 1 select runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		p.workers = n
	}
}

// WithProgress registers a callback invoked once per graded submission.
// Calls are serialized.
func WithProgress(fn func(Record)) Option {
	return func(p *Pipeline) {
		p.onGraded = fn
	}
}

// Pipeline grades submissions. It holds no per-run state, so one Pipeline
// may grade several directories.
type Pipeline struct {
	compiler compiler.Compiler
	tester   Tester
	workers  int
	onGraded func(Record)
	mu       sync.Mutex
}

// New returns a Pipeline using the given compiler and tester.
func New(c compiler.Compiler, t Tester, options ...Option) *Pipeline {
	p := &Pipeline{
		compiler: c,
		tester:   t,
	}
	for _, option := range options {
		option(p)
	}
	if p.workers < 1 {
		p.workers = runtime.NumCPU()
	}
	return p
}

// Discover lists the files directly inside dir whose extension is ext,
// sorted by name.
func Discover(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSubmissionsDir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) == ext {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Run grades every submission in dir. Submissions that cannot be graded are
// returned in Run.Failures and do not stop the run. The returned error is
// reserved for conditions no submission can recover from: an unlistable
// directory, an unavailable toolchain or a cancelled ctx.
func (p *Pipeline) Run(ctx context.Context, dir string) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		Directory: dir,
		StartedAt: time.Now(),
	}

	files, err := Discover(dir, compiler.SourceExt)
	if err != nil {
		return run, err
	}
	logging.Logger().Infow("grading run started", "run", run.ID, "directory", dir, "submissions", len(files), "workers", p.workers)

	results := make([]Record, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			record, err := p.Grade(gctx, path)
			if err != nil {
				return fmt.Errorf("grade %s: %w", filepath.Base(path), err)
			}
			results[i] = record
			p.progress(record)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		run.Duration = time.Since(run.StartedAt)
		logging.Logger().Errorw("grading run aborted", "run", run.ID, "error", err)
		return run, err
	}

	for _, record := range results {
		if record.Failed() {
			run.Failures = append(run.Failures, record)
			continue
		}
		run.Records = append(run.Records, record)
	}
	run.Duration = time.Since(run.StartedAt)
	logging.Logger().Infow("grading run finished", "run", run.ID, "graded", len(run.Records), "failures", len(run.Failures), "duration", run.Duration)
	return run, nil
}

// Grade grades a single submission file. Per-submission problems are
// recorded on the returned Record; an error means the run cannot continue.
func (p *Pipeline) Grade(ctx context.Context, path string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	start := time.Now()
	record := Record{SourcePath: path}

	id, err := identity.Parse(path)
	if err != nil {
		return record.fail(err, start), nil
	}
	record.Identity = id

	compiled, err := p.compiler.Compile(ctx, path)
	if err != nil {
		return record, err
	}
	record.Compilation = compiled
	record.Compiled = compiled.Succeeded
	record.Diagnostics = compiled.Diagnostics

	if compiled.Succeeded {
		record.Tests = p.tester.Run(ctx, compiled.ArtifactPath)
		if err := ctx.Err(); err != nil {
			return record, err
		}
		record.TestsPassed = record.Tests.Passed
	}

	docLines, err := docscan.CountDocumentationLines(path)
	if err != nil {
		return record.fail(err, start), nil
	}
	record.DocLines = docLines

	record.Scores = scoring.Score(docLines, record.Compiled, record.Diagnostics, record.TestsPassed)
	record.Duration = time.Since(start)
	logging.LogPhase(path, "score", "final", record.Scores.FinalScore, "compiled", record.Compiled, "testsPassed", record.TestsPassed, "docLines", docLines)
	return record, nil
}

func (r Record) fail(err error, start time.Time) Record {
	r.Err = err
	r.Error = err.Error()
	r.Duration = time.Since(start)
	logging.Logger().Warnw("submission skipped", "submission", filepath.Base(r.SourcePath), "error", err)
	return r
}

func (p *Pipeline) progress(record Record) {
	if p.onGraded == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onGraded(record)
}
