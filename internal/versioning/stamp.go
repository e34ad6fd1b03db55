package versioning

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docextract/internal/foundation/errors"
	"git.home.luguber.info/inful/docextract/internal/logfields"
)

// StampOptions locates the repository and the documentation site.
type StampOptions struct {
	Repository  string
	PublicDir   string
	ContentDir  string
	PackageName string
}

// StampResult reports what Stamp did.
type StampResult struct {
	Info        Info
	VersionFile string
	Updated     []string
}

// Stamp resolves the version, writes version.json and rewrites the content
// tree. An unreadable repository degrades to fallback values with a warning;
// failing to write version.json or a missing content directory is an error.
func Stamp(opts StampOptions, now time.Time) (*StampResult, error) {
	info, err := Resolve(opts.Repository, now)
	if err != nil {
		slog.Warn("Using fallback version information",
			logfields.Path(opts.Repository),
			logfields.Error(err))
	}

	res := &StampResult{Info: info}
	res.VersionFile, err = WriteVersionFile(opts.PublicDir, info)
	if err != nil {
		return res, errors.WrapError(err, errors.CategoryFileSystem, "failed to write version file").
			WithContext("path", opts.PublicDir).
			Build()
	}

	res.Updated, err = NewRewriter(info, opts.PackageName).RewriteTree(opts.ContentDir)
	if err != nil {
		return res, errors.WrapError(err, errors.CategoryFileSystem, "failed to update content").
			WithContext("path", opts.ContentDir).
			Build()
	}

	slog.Info("Version info updated",
		logfields.Version(info.Version),
		logfields.Commit(info.CommitHash),
		logfields.Count(len(res.Updated)))
	return res, nil
}
