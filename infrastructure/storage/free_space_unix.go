//go:build !windows

package storage

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func statVolume(path string) (volumeSpace, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return volumeSpace{}, fmt.Errorf("statfs %s: %w", path, err)
	}
	bsize := uint64(st.Bsize)
	// Bavail คือส่วนที่ process ที่ไม่ใช่ root ใช้ได้จริง
	return volumeSpace{total: st.Blocks * bsize, available: st.Bavail * bsize}, nil
}
