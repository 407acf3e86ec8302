// Package fetch performs the network-facing recipe operations: git
// clones with a shallow-then-fallback strategy, and plain HTTP file
// downloads, both wrapped in a retry loop.
package fetch

// RefType classifies a version-control reference string.
type RefType int

const (
	// RefNamed is a branch or tag name.
	RefNamed RefType = iota
	// RefCommitHash is a full or abbreviated commit SHA.
	RefCommitHash
)

// ClassifyRef decides lexically whether ref is a commit hash: at least
// seven characters, all hexadecimal (case-insensitive). Anything else
// is treated as a branch or tag. The remote is never queried.
func ClassifyRef(ref string) RefType {
	if len(ref) < 7 {
		return RefNamed
	}
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return RefNamed
		}
	}
	return RefCommitHash
}
