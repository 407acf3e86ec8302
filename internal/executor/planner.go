package executor

import (
	"path/filepath"
	"strings"
)

// StructuralPrefix returns the leading segments of a root-relative
// destination that describe deployment structure rather than the
// resource itself: bracketed category folders, the fixed resources/tmp
// roots, and relative markers. The first segment matching none of
// these is the resource folder; it and everything after it are
// excluded. Dry runs create only the returned prefix, so the skeleton
// is visible without any network access.
func StructuralPrefix(dest string) string {
	segments := strings.Split(filepath.ToSlash(dest), "/")
	var kept []string
	for _, seg := range segments {
		if seg == "" || seg == "." {
			continue
		}
		switch {
		case strings.Contains(seg, "[") && strings.Contains(seg, "]"):
		case seg == "resources" || seg == "tmp":
		case strings.HasPrefix(seg, "./"):
		default:
			return filepath.Join(kept...)
		}
		kept = append(kept, seg)
	}
	return filepath.Join(kept...)
}
