//go:build !windows

package space

import "golang.org/x/sys/unix"

// statfs reports the bytes available to unprivileged users on the
// volume containing path.
func statfs(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}
