package versioning

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now       = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	committed = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
)

func signature(when time.Time) *object.Signature {
	return &object.Signature{Name: "tester", Email: "t@example.com", When: when}
}

func initRepo(t *testing.T) (*git.Repository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return repo, dir
}

func addCommit(t *testing.T, repo *git.Repository, dir, name string, when time.Time) plumbing.Hash {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o600))
	_, err = wt.Add(name)
	require.NoError(t, err)
	hash, err := wt.Commit("add "+name, &git.CommitOptions{Author: signature(when), Committer: signature(when)})
	require.NoError(t, err)
	return hash
}

func TestResolve_NotARepository(t *testing.T) {
	info, err := Resolve(t.TempDir(), now)
	require.ErrorIs(t, err, ErrRepositoryUnavailable)
	assert.Equal(t, FallbackVersion, info.Version)
	assert.Equal(t, "0.0", info.MajorMinor)
	assert.Equal(t, UnknownCommit, info.CommitHash)
	assert.Equal(t, "2026-10-18T09:30:00.000Z", info.CommitDate)
	assert.Equal(t, "2026-10-18T09:30:00.000Z", info.GeneratedAt)
}

func TestResolve_NoTags(t *testing.T) {
	repo, dir := initRepo(t)
	head := addCommit(t, repo, dir, "a.txt", committed)

	info, err := Resolve(dir, now)
	require.NoError(t, err)
	assert.Equal(t, FallbackVersion, info.Version)
	assert.Equal(t, head.String()[:7], info.CommitHash)
	assert.Equal(t, "2025-03-01T12:00:00Z", info.CommitDate)
}

func TestResolve_TagOnHead(t *testing.T) {
	repo, dir := initRepo(t)
	first := addCommit(t, repo, dir, "a.txt", committed)
	head := addCommit(t, repo, dir, "b.txt", committed.Add(time.Hour))

	_, err := repo.CreateTag("v1.2.0", first, nil)
	require.NoError(t, err)
	_, err = repo.CreateTag("v1.3.0-beta.1", head, &git.CreateTagOptions{
		Tagger:  signature(committed),
		Message: "beta",
	})
	require.NoError(t, err)

	info, err := Resolve(dir, now)
	require.NoError(t, err)
	assert.Equal(t, "1.3.0-beta.1", info.Version)
	assert.Equal(t, "1.3", info.MajorMinor)
}

func TestResolve_NearestReachableTag(t *testing.T) {
	repo, dir := initRepo(t)
	first := addCommit(t, repo, dir, "a.txt", committed)
	second := addCommit(t, repo, dir, "b.txt", committed.Add(time.Hour))
	addCommit(t, repo, dir, "c.txt", committed.Add(2*time.Hour))

	_, err := repo.CreateTag("v1.0.0", first, nil)
	require.NoError(t, err)
	_, err = repo.CreateTag("v1.1.0", second, nil)
	require.NoError(t, err)

	info, err := Resolve(dir, now)
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", info.Version)
}

func TestResolve_SubdirectoryOfRepository(t *testing.T) {
	repo, dir := initRepo(t)
	head := addCommit(t, repo, dir, "a.txt", committed)
	_, err := repo.CreateTag("2.0.0", head, nil)
	require.NoError(t, err)

	sub := filepath.Join(dir, "docs")
	require.NoError(t, os.Mkdir(sub, 0o755))

	info, err := Resolve(sub, now)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", info.Version)
}

func TestMajorMinor(t *testing.T) {
	tests := map[string]string{
		"2.0.0-beta.1": "2.0",
		"1.12.3":       "1.12",
		"3.4":          "3.4",
		"7":            "7",
		"nightly":      "nightly",
	}
	for in, want := range tests {
		assert.Equal(t, want, MajorMinor(in), in)
	}
}
