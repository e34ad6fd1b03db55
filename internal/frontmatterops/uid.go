// Package frontmatterops derives optional front-matter fields for generated
// documents.
package frontmatterops

import (
	"strings"

	"github.com/google/uuid"
)

// UIDKey is the front-matter key holding the stable document id.
const UIDKey = "uid"

// StableUID returns a name-based (version 5) UUID for a document, so the same
// category and name always map to the same id across runs and machines.
func StableUID(category, name string) string {
	key := strings.Trim(category, "/") + "/" + strings.TrimSpace(name)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}
