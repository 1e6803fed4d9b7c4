//go:build windows

package storage

import (
	"fmt"

	"golang.org/x/sys/windows"
)

func statVolume(path string) (volumeSpace, error) {
	ptr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return volumeSpace{}, err
	}
	var available, total, free uint64
	if err := windows.GetDiskFreeSpaceEx(ptr, &available, &total, &free); err != nil {
		return volumeSpace{}, fmt.Errorf("GetDiskFreeSpaceEx %s: %w", path, err)
	}
	return volumeSpace{total: total, available: available}, nil
}
