package repository

import (
	"strings"

	"github.com/google/uuid"
)

// newRef returns a short public reference such as "BK-1A2B3C4D".  The
// columns holding references are UNIQUE, so a collision surfaces as
// ErrDuplicate rather than a silent overwrite.
func newRef(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(id[:10])
}
