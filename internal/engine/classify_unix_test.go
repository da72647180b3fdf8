//go:build !windows

package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"golang.org/x/sys/unix"
)

// The copier wraps OS errors before reporting them, so classification
// must see through the chain.
func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"wrapped ENOSPC", fmt.Errorf("copy track: %w", unix.ENOSPC), KindNoSpace},
		{"wrapped EDQUOT", fmt.Errorf("copy track: %w", unix.EDQUOT), KindNoSpace},
		{"bare ENOSPC", unix.ENOSPC, KindNoSpace},
		{"wrapped not-exist", fmt.Errorf("open: %w", fs.ErrNotExist), KindNotFound},
		{"anything else", errors.New("checksum mismatch"), KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
