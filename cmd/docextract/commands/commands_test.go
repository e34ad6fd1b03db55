package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docextract/internal/category"
	"git.home.luguber.info/inful/docextract/internal/foundation/errors"
	"git.home.luguber.info/inful/docextract/internal/pipeline"
)

const containSource = `static immutable description = "Checks that a string contains a value";

@("finds a substring")
unittest {
  expect("abc").to.contain("a");
}
`

// runCLI parses args and runs the selected command, returning its output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("docextract"),
		kong.Vars{"version": "test"},
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
	)
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer
	err = kctx.Run(&Global{Out: &out}, &cli)
	return out.String(), err
}

// project lays out a source tree and a config file pointing at it. extra, if
// set, returns additional YAML for the project directory.
func project(t *testing.T, extra func(dir string) string) (dir, configPath string) {
	t.Helper()
	dir = t.TempDir()
	src := filepath.Join(dir, "source", "fluentasserts", "operations", "string")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "contain.d"), []byte(containSource), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(src, "helpers.d"), []byte("int helper();"), 0o600))

	configPath = filepath.Join(dir, "docextract.yaml")
	cfg := fmt.Sprintf("source:\n  root: %s\noutput:\n  root: %s\n",
		filepath.Join(dir, "source", "fluentasserts", "operations"),
		filepath.Join(dir, "out"))
	if extra != nil {
		cfg += extra(dir)
	}
	require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0o600))
	return dir, configPath
}

func TestExtract_WithConfig(t *testing.T) {
	dir, cfgPath := project(t, func(root string) string {
		return fmt.Sprintf("metrics:\n  textfile: %s\nhistory:\n  database: %s\n",
			filepath.Join(root, "metrics", "docextract.prom"),
			filepath.Join(root, "state", "history.db"))
	})

	out, err := runCLI(t, "--config", cfgPath, "extract")
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 1 document(s) from 2 file(s)")
	assert.Contains(t, out, "strings")
	assert.FileExists(t, filepath.Join(dir, "out", "strings", "contain.mdx"))

	prom, err := os.ReadFile(filepath.Join(dir, "metrics", "docextract.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), "docextract_files_scanned_total 2")

	out, err = runCLI(t, "--config", cfgPath, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "1 generated, 2 scanned")
}

func TestExtract_FlagsOverrideConfig(t *testing.T) {
	dir, cfgPath := project(t, nil)
	other := filepath.Join(dir, "elsewhere")

	_, err := runCLI(t, "-c", cfgPath, "extract", "--output", other)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(other, "strings", "contain.mdx"))
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestExtract_MissingExplicitConfig(t *testing.T) {
	_, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "extract")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestDiscover(t *testing.T) {
	dir, cfgPath := project(t, nil)

	out, err := runCLI(t, "-c", cfgPath, "discover")
	require.NoError(t, err)
	assert.Contains(t, out, "string/contain.d")
	assert.Contains(t, out, "page")
	assert.NotContains(t, out, "helpers.d")
	assert.Contains(t, out, "1 of 2 file(s) would produce a page")
	assert.NoDirExists(t, filepath.Join(dir, "out"))

	out, err = runCLI(t, "-c", cfgPath, "discover", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "string/helpers.d")
	assert.Contains(t, out, "skip")
}

func TestHistory_NotConfigured(t *testing.T) {
	_, cfgPath := project(t, nil)
	_, err := runCLI(t, "-c", cfgPath, "history")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docextract.yaml")

	out, err := runCLI(t, "-c", path, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "initialized successfully")
	assert.FileExists(t, path)

	_, err = runCLI(t, "-c", path, "init")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	_, err = runCLI(t, "-c", path, "init", "--force")
	require.NoError(t, err)

	// The generated file is a valid configuration.
	_, err = runCLI(t, "-c", path, "discover", "--source", t.TempDir())
	require.NoError(t, err)
}

func TestStamp_FallbackVersion(t *testing.T) {
	dir := t.TempDir()
	content := filepath.Join(dir, "content")
	require.NoError(t, os.MkdirAll(content, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(content, "index.mdx"), []byte("Current version v9.9.9"), 0o600))

	out, err := runCLI(t, "stamp",
		"--repository", dir,
		"--public-dir", filepath.Join(dir, "public"),
		"--content-dir", content)
	require.NoError(t, err)
	assert.Contains(t, out, "Version info updated: v0.0.0 (unknown)")
	assert.Contains(t, out, "Updated 1 markdown file(s)")
	assert.FileExists(t, filepath.Join(dir, "public", "version.json"))
}

func TestSchedule_RejectsShortInterval(t *testing.T) {
	_, cfgPath := project(t, nil)
	_, err := runCLI(t, "-c", cfgPath, "schedule", "--every", "500ms")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestWatch_MissingSourceRoot(t *testing.T) {
	_, cfgPath := project(t, nil)
	_, err := runCLI(t, "-c", cfgPath, "watch", "--source", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, &pipeline.Summary{
		Scanned:   5,
		Generated: 3,
		Skipped:   1,
		Failed:    1,
		Categories: map[category.Category]int{
			category.Strings:  2,
			category.Equality: 1,
		},
		Duration: 1500 * time.Microsecond,
	})
	assert.Equal(t, "Generated 3 document(s) from 5 file(s) in 2ms\n"+
		"Skipped 1 without documentation, 1 unparseable\n"+
		"  equality     1\n"+
		"  strings      2\n", buf.String())
}

func TestRunnerRunFunc(t *testing.T) {
	_, cfgPath := project(t, nil)
	cli := CLI{Config: cfgPath}
	cfg, err := cli.LoadConfig()
	require.NoError(t, err)

	r, err := NewRunner(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	require.NoError(t, r.RunFunc(context.Background()))
}
