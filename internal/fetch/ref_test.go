package fetch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"txrecipe/internal/fetch"
)

func TestClassifyRef(t *testing.T) {
	tests := []struct {
		ref  string
		want fetch.RefType
	}{
		{"a3f9c21", fetch.RefCommitHash},
		{"A3F9C21", fetch.RefCommitHash},
		{"8f14e45fceea167a5a36dedd4bea2543", fetch.RefCommitHash},
		{"a3f9c2", fetch.RefNamed}, // below the 7-char floor
		{"main", fetch.RefNamed},
		{"master", fetch.RefNamed},
		{"release-1.0", fetch.RefNamed},
		{"deadbeefg", fetch.RefNamed}, // 'g' is not hex
		{"", fetch.RefNamed},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, fetch.ClassifyRef(tt.ref), "ref %q", tt.ref)
	}
}
