package frontmatterops

import (
	"strings"

	"git.home.luguber.info/inful/docextract/internal/frontmatter"
	"github.com/inful/mdfp"
)

// FingerprintKey is the front-matter key holding the content fingerprint.
const FingerprintKey = "fingerprint"

// ComputeFingerprint hashes a document's front-matter and body.
//
// The fingerprint and uid fields are excluded, so adding either does not
// change the result. Front-matter is serialized in field order with one
// trailing newline trimmed before hashing.
func ComputeFingerprint(fields []frontmatter.Field, body []byte) (string, error) {
	forHash := make([]frontmatter.Field, 0, len(fields))
	for _, f := range fields {
		if f.Key == FingerprintKey || f.Key == UIDKey {
			continue
		}
		forHash = append(forHash, f)
	}

	serialized, err := frontmatter.Marshal(forHash)
	if err != nil {
		return "", err
	}
	fm := strings.TrimSuffix(string(serialized), "\n")

	return mdfp.CalculateFingerprintFromParts(fm, string(body)), nil
}
