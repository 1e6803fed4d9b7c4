package repositories

import "errors"

var (
	// ErrNotFound คืนจาก GetXxx เมื่อไม่มี record
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate คืนเมื่อชน unique index
	ErrDuplicate = errors.New("duplicate record")
)
