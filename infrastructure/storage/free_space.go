package storage

import (
	"fmt"

	"project-tracker/pkg/utils"
)

type volumeSpace struct {
	total     uint64
	available uint64
}

// InsufficientSpaceError upload ถูกปฏิเสธเพราะจะทำให้ volume เหลือพื้นที่ต่ำกว่าที่ตั้งไว้
type InsufficientSpaceError struct {
	Required  int64
	Available uint64
}

func (e *InsufficientSpaceError) Error() string {
	return fmt.Sprintf("insufficient disk space: required %s, available %s",
		utils.FormatBytes(uint64(e.Required)), utils.FormatBytes(e.Available))
}

// ensureSpace minFreePercent <= 0 คือไม่เช็ค
func (l *LocalStorage) ensureSpace(size int64) error {
	if size <= 0 || l.minFreePercent <= 0 {
		return nil
	}

	space, err := statVolume(l.basePath)
	if err != nil {
		return fmt.Errorf("failed to check disk space: %w", err)
	}
	if space.total == 0 || uint64(size) > space.available {
		return &InsufficientSpaceError{Required: size, Available: space.available}
	}

	remaining := float64(space.available-uint64(size)) / float64(space.total) * 100
	if remaining < l.minFreePercent {
		return &InsufficientSpaceError{Required: size, Available: space.available}
	}
	return nil
}
