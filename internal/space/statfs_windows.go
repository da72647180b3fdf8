//go:build windows

package space

import "golang.org/x/sys/windows"

// statfs reports the bytes available to the calling user on the volume
// containing path.
func statfs(path string) (uint64, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}
	var free, total, totalFree uint64
	if err := windows.GetDiskFreeSpaceEx(p, &free, &total, &totalFree); err != nil {
		return 0, err
	}
	return free, nil
}
