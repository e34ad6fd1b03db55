package pipeline

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docextract/internal/category"
	"git.home.luguber.info/inful/docextract/internal/eventstore"
	"git.home.luguber.info/inful/docextract/internal/extract"
	"git.home.luguber.info/inful/docextract/internal/foundation/errors"
	"git.home.luguber.info/inful/docextract/internal/frontmatter"
	"git.home.luguber.info/inful/docextract/internal/metrics"
	"git.home.luguber.info/inful/docextract/internal/sources"
)

const containSource = `module fluentasserts.operations.string.contain;

static immutable description = "Checks that a string contains a value";

@("finds a substring")
unittest {
  expect("abc").to.contain("a");
}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// sourceTree lays out <tmp>/source/fluentasserts/operations/... and returns
// the operations root and an output root.
func sourceTree(t *testing.T, files map[string]string) (string, string) {
	t.Helper()
	base := t.TempDir()
	root := filepath.Join(base, "source", "fluentasserts", "operations")
	require.NoError(t, os.MkdirAll(root, 0o755))
	for rel, content := range files {
		writeFile(t, filepath.Join(root, filepath.FromSlash(rel)), content)
	}
	return root, filepath.Join(base, "out")
}

func TestRun_EndToEnd_Contain(t *testing.T) {
	root, out := sourceTree(t, map[string]string{"string/contain.d": containSource})

	sum, err := New(DefaultOptions(root, out)).Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Scanned)
	assert.Equal(t, 1, sum.Generated)
	assert.NotEmpty(t, sum.RunID)

	path := filepath.Join(out, "strings", "contain.mdx")
	assert.Equal(t, []string{path}, sum.Written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	fm, body, had, err := frontmatter.Split(data)
	require.NoError(t, err)
	require.True(t, had)
	fields, err := frontmatter.Parse(fm)
	require.NoError(t, err)
	assert.Equal(t, "contain", fields["title"])
	assert.Equal(t, "Checks that a string contains a value", fields["description"])

	basic := string(body)[strings.Index(string(body), "### Basic Usage"):]
	assert.Contains(t, basic, `expect("abc").to.contain("a");`)
}

func TestRun_EmptyRoot(t *testing.T) {
	base := t.TempDir()
	sum, err := New(DefaultOptions(filepath.Join(base, "missing"), filepath.Join(base, "out"))).Run(t.Context())
	require.NoError(t, err)
	assert.Zero(t, sum.Scanned)
	assert.Zero(t, sum.Generated)

	_, statErr := os.Stat(filepath.Join(base, "out"))
	assert.True(t, os.IsNotExist(statErr), "nothing is written for an empty run")
}

func TestRun_RoutesAndCounts(t *testing.T) {
	root, out := sourceTree(t, map[string]string{
		"string/contain.d":     containSource,
		"equality/equal.d":     "void equal(ref Evaluation evaluation) {}",
		"memory/gcMemory.d":    "/// Tracks GC allocations.\nvoid allocateGCMemory(ref Evaluation evaluation) {}",
		"snapshot.d":           `static immutable snapshotDescription = "Snapshots";`,
		"unknown/thing.d":      `static immutable description = "Somewhere";`,
		"type/helpers.d":       "int helper() { return 1; }",
		"package.d":            `static immutable description = "infrastructure";`,
		"string/registry.d":    `static immutable description = "infrastructure";`,
		"comparison/notes.txt": "not a source file",
	})

	sum, err := New(DefaultOptions(root, out)).Run(t.Context())
	require.NoError(t, err)

	assert.Equal(t, 6, sum.Scanned)
	assert.Equal(t, 5, sum.Generated)
	assert.Equal(t, 1, sum.Skipped)
	assert.Zero(t, sum.Failed)
	assert.Equal(t, map[category.Category]int{
		category.Strings:  1,
		category.Equality: 1,
		category.Callable: 1,
		category.Other:    2,
	}, sum.Categories)

	for _, rel := range []string{
		"strings/contain.mdx",
		"equality/equal.mdx",
		"callable/gcMemory.mdx",
		"other/snapshot.mdx",
		"other/thing.mdx",
	} {
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(rel)))
	}
	assert.NoFileExists(t, filepath.Join(out, "types", "helpers.mdx"))

	data, err := os.ReadFile(filepath.Join(out, "callable", "gcMemory.mdx"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: allocateGCMemory")
	assert.Contains(t, string(data), "description: Tracks GC allocations.")
}

func TestRun_UnreadableFileIsSkipped(t *testing.T) {
	root, out := sourceTree(t, map[string]string{"string/contain.d": containSource})
	require.NoError(t, os.Symlink(filepath.Join(root, "nowhere.d"), filepath.Join(root, "string", "broken.d")))

	sum, err := New(DefaultOptions(root, out)).Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Scanned)
	assert.Equal(t, 1, sum.Generated)
	assert.Equal(t, 1, sum.Failed)
}

func TestRun_PanickingRuleSkipsFile(t *testing.T) {
	saved := extract.Rules
	t.Cleanup(func() { extract.Rules = saved })
	extract.Rules = append([]extract.Rule{{
		Fact: "explosive",
		Apply: func(text, _ string, _ *extract.Facts) {
			if strings.Contains(text, "BOOM") {
				panic("unexpected input")
			}
		},
	}}, saved...)

	root, out := sourceTree(t, map[string]string{
		"string/contain.d": containSource,
		"string/bad.d":     `static immutable description = "BOOM";`,
	})

	rec := newCountingRecorder()
	sum, err := New(DefaultOptions(root, out)).WithRecorder(rec).Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Generated)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 1, rec.skipped[metrics.SkipExtraction])
	assert.NoFileExists(t, filepath.Join(out, "strings", "bad.mdx"))
}

func TestRun_RejectedPageSkipsFile(t *testing.T) {
	root, out := sourceTree(t, map[string]string{
		"string/contain.d":      containSource,
		"equality/deprecated.d": `static immutable description = "## Deprecated alias of equal";`,
	})

	rec := newCountingRecorder()
	sum, err := New(DefaultOptions(root, out)).WithRecorder(rec).Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Scanned)
	assert.Equal(t, 1, sum.Generated)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 1, rec.skipped[metrics.SkipRender])
	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeSuccess])
	assert.FileExists(t, filepath.Join(out, "strings", "contain.mdx"))
	assert.NoFileExists(t, filepath.Join(out, "equality", "deprecated.mdx"))

	opts := DefaultOptions(root, out)
	opts.Verify = false
	sum, err = New(opts).Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Generated)
	assert.FileExists(t, filepath.Join(out, "equality", "deprecated.mdx"))
}

func TestPlan_ExtractionFailureIsClassified(t *testing.T) {
	saved := extract.Rules
	t.Cleanup(func() { extract.Rules = saved })
	extract.Rules = append([]extract.Rule{{
		Fact:  "explosive",
		Apply: func(string, string, *extract.Facts) { panic("unexpected input") },
	}}, saved...)

	root, out := sourceTree(t, map[string]string{"string/contain.d": containSource})
	entries, err := New(DefaultOptions(root, out)).Plan(t.Context())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Error(t, entries[0].Err)
	assert.ErrorIs(t, entries[0].Err, ErrExtractionFailed)
	assert.True(t, errors.HasCategory(entries[0].Err, errors.CategoryExtraction))
}

func TestRun_OverwritesExistingDocument(t *testing.T) {
	root, out := sourceTree(t, map[string]string{"string/contain.d": containSource})
	target := filepath.Join(out, "strings", "contain.mdx")
	writeFile(t, target, "stale content that is much longer than anything we will generate ... "+strings.Repeat("x", 4096))

	_, err := New(DefaultOptions(root, out)).Run(t.Context())
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale content")
	assert.True(t, strings.HasPrefix(string(data), "---\ntitle: contain\n"))
}

func TestRun_WriteFailureAborts(t *testing.T) {
	root, out := sourceTree(t, map[string]string{"string/contain.d": containSource})
	writeFile(t, out, "a file where the output directory should be")

	rec := newCountingRecorder()
	sum, err := New(DefaultOptions(root, out)).WithRecorder(rec).Run(t.Context())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
	assert.Zero(t, sum.Generated)
	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeFailed])
}

func TestRun_RootIsAFile(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "contain.d")
	writeFile(t, file, containSource)

	_, err := New(DefaultOptions(file, filepath.Join(base, "out"))).Run(t.Context())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
	assert.True(t, stderrors.Is(err, sources.ErrRootNotDirectory))
}

func TestRun_InvalidIgnorePattern(t *testing.T) {
	opts := DefaultOptions(t.TempDir(), t.TempDir())
	opts.Sources.Ignore = []string{"["}

	_, err := New(opts).Run(t.Context())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestRun_Canceled(t *testing.T) {
	root, out := sourceTree(t, map[string]string{"string/contain.d": containSource})
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := New(DefaultOptions(root, out)).Run(ctx)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, context.Canceled))
}

func TestRun_CleanRemovesStaleDocuments(t *testing.T) {
	root, out := sourceTree(t, map[string]string{"string/contain.d": containSource})
	stale := filepath.Join(out, "strings", "removed.mdx")
	writeFile(t, stale, "old")

	opts := DefaultOptions(root, out)
	opts.Clean = true
	_, err := New(opts).Run(t.Context())
	require.NoError(t, err)

	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(out, "strings", "contain.mdx"))
}

func TestRun_CleanRefusesSourceParent(t *testing.T) {
	root, _ := sourceTree(t, map[string]string{"string/contain.d": containSource})
	opts := DefaultOptions(root, filepath.Dir(root))
	opts.Clean = true

	_, err := New(opts).Run(t.Context())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrUnsafeClean))
	assert.FileExists(t, filepath.Join(root, "string", "contain.d"))
}

func TestRun_JournalAndMetrics(t *testing.T) {
	root, out := sourceTree(t, map[string]string{
		"string/contain.d": containSource,
		"type/helpers.d":   "int helper();",
	})

	store, err := eventstore.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	rec := newCountingRecorder()
	tick := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		tick = tick.Add(time.Millisecond)
		return tick
	}

	sum, err := New(DefaultOptions(root, out)).
		WithRecorder(rec).
		WithJournal(eventstore.NewJournal(store)).
		WithClock(clock).
		Run(t.Context())
	require.NoError(t, err)
	assert.Positive(t, sum.Duration)

	assert.Equal(t, 2, rec.scanned)
	assert.Equal(t, 1, rec.documents["strings"])
	assert.Equal(t, 1, rec.skipped[metrics.SkipNotEligible])
	assert.Equal(t, 1, rec.outcomes[metrics.OutcomeSuccess])
	assert.Contains(t, rec.stages, StageExtract)
	assert.Contains(t, rec.stages, StageRender)
	assert.Contains(t, rec.stages, StageWrite)

	events, err := store.GetByRunID(t.Context(), sum.RunID)
	require.NoError(t, err)
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	assert.Equal(t, []string{eventstore.TypeRunStarted, eventstore.TypeDocumentWritten, eventstore.TypeRunCompleted}, types)

	var done eventstore.RunCompleted
	require.NoError(t, events[2].Decode(&done))
	assert.Equal(t, 2, done.Scanned)
	assert.Equal(t, 1, done.Generated)
}

func TestRun_JournalFailureIsNotFatal(t *testing.T) {
	root, out := sourceTree(t, map[string]string{"string/contain.d": containSource})

	sum, err := New(DefaultOptions(root, out)).WithJournal(failingJournal{}).Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Generated)
}

func TestRun_ReportsProgress(t *testing.T) {
	root, out := sourceTree(t, map[string]string{
		"string/contain.d": containSource,
		"equality/equal.d": "void equal(ref Evaluation e) {}",
	})
	p := &countingProgress{}

	_, err := New(DefaultOptions(root, out)).WithProgress(p).Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, p.added)
	assert.True(t, p.finished)
}

func TestRun_Deterministic(t *testing.T) {
	root, out := sourceTree(t, map[string]string{"string/contain.d": containSource})
	d := New(DefaultOptions(root, out))

	_, err := d.Run(t.Context())
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(out, "strings", "contain.mdx"))
	require.NoError(t, err)

	_, err = d.Run(t.Context())
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(out, "strings", "contain.mdx"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

type countingRecorder struct {
	mu        sync.Mutex
	scanned   int
	skipped   map[metrics.SkipReason]int
	documents map[string]int
	outcomes  map[metrics.RunOutcome]int
	stages    map[string]time.Duration
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		skipped:   map[metrics.SkipReason]int{},
		documents: map[string]int{},
		outcomes:  map[metrics.RunOutcome]int{},
		stages:    map[string]time.Duration{},
	}
}

func (r *countingRecorder) IncFilesScanned() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scanned++
}

func (r *countingRecorder) IncFileSkipped(reason metrics.SkipReason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped[reason]++
}

func (r *countingRecorder) IncDocumentGenerated(category string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.documents[category]++
}

func (r *countingRecorder) ObserveStageDuration(stage string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages[stage] += d
}

func (r *countingRecorder) ObserveRunDuration(time.Duration) {}

func (r *countingRecorder) IncRunOutcome(outcome metrics.RunOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[outcome]++
}

type failingJournal struct{}

func (failingJournal) Record(context.Context, string, string, any) error {
	return stderrors.New("journal unavailable")
}

type countingProgress struct {
	added    int
	finished bool
}

func (p *countingProgress) Add(n int) error {
	p.added += n
	return nil
}

func (p *countingProgress) Describe(string) {}

func (p *countingProgress) Finish() error {
	p.finished = true
	return nil
}
