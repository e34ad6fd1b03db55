package versioning

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// Resolve reads the release version and HEAD commit of the repository at
// repoPath.
//
// The version is the nearest tag reachable from HEAD, else the last tag by
// name, else FallbackVersion, with a leading "v" removed. The returned Info is
// always usable: when the repository cannot be read the error is non-nil and
// Info holds the fallbacks (unknown commit, now as commit date).
func Resolve(repoPath string, now time.Time) (Info, error) {
	fallback := newInfo(FallbackVersion, UnknownCommit, now.UTC().Format(isoMillis), now)

	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return fallback, fmt.Errorf("%w: %s: %w", ErrRepositoryUnavailable, repoPath, err)
	}

	tagsByCommit, err := collectTags(repo)
	if err != nil {
		return fallback, err
	}

	head, err := repo.Head()
	if err != nil {
		// An empty repository can still carry a fallback version from tags.
		fallback.Version = lastTag(tagsByCommit)
		fallback.MajorMinor = MajorMinor(fallback.Version)
		return fallback, fmt.Errorf("%w: %s: %w", ErrRepositoryUnavailable, repoPath, err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return fallback, fmt.Errorf("%w: %s: %w", ErrRepositoryUnavailable, repoPath, err)
	}

	version, err := nearestTag(repo, head.Hash(), tagsByCommit)
	if err != nil {
		return fallback, err
	}
	if version == "" {
		version = lastTag(tagsByCommit)
	}

	hash := head.Hash().String()[:shortHashLen]
	date := commit.Committer.When.Format(time.RFC3339)
	return newInfo(version, hash, date, now), nil
}

// collectTags maps commit hashes to the names of the tags pointing at them.
// Annotated tags are peeled to their commit.
func collectTags(repo *git.Repository) (map[plumbing.Hash][]string, error) {
	iter, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTagsUnreadable, err)
	}
	defer iter.Close()

	out := map[plumbing.Hash][]string{}
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		target := ref.Hash()
		if tag, tagErr := repo.TagObject(target); tagErr == nil {
			c, cErr := tag.Commit()
			if cErr != nil {
				// Tags of trees or blobs never describe a commit.
				return nil
			}
			target = c.Hash
		}
		out[target] = append(out[target], ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTagsUnreadable, err)
	}
	return out, nil
}

// nearestTag walks history from head breadth first and returns the first
// tagged commit's tag, "" when no tag is reachable.
func nearestTag(repo *git.Repository, head plumbing.Hash, tags map[plumbing.Hash][]string) (string, error) {
	if len(tags) == 0 {
		return "", nil
	}
	iter, err := repo.Log(&git.LogOptions{From: head, Order: git.LogOrderBSF})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRepositoryUnavailable, err)
	}
	defer iter.Close()

	var found string
	err = iter.ForEach(func(c *object.Commit) error {
		names, ok := tags[c.Hash]
		if !ok {
			return nil
		}
		found = stripV(slices.Max(names))
		return storer.ErrStop
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return "", fmt.Errorf("%w: %w", ErrRepositoryUnavailable, err)
	}
	return found, nil
}

// lastTag returns the name-wise last tag, or FallbackVersion without tags.
func lastTag(tags map[plumbing.Hash][]string) string {
	var all []string
	for _, names := range tags {
		all = append(all, names...)
	}
	if len(all) == 0 {
		return FallbackVersion
	}
	return stripV(slices.Max(all))
}

func stripV(tag string) string {
	return strings.TrimPrefix(tag, "v")
}
