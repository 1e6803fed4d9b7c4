package apperror

import (
	"errors"
	"fmt"
)

// Kinds ของ error ที่ service layer ส่งออกไป handler ใช้แยก status code
var (
	ErrValidation      = errors.New("validation failed")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrStorage         = errors.New("storage failure")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Error คือ business error ที่มี Kind เป็น sentinel ด้านบน
type Error struct {
	Kind    error
	Message string
	Details map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Is ให้ errors.Is(err, ErrNotFound) ทำงานได้
func (e *Error) Is(target error) bool {
	return e != nil && e.Kind == target
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(message string) *Error {
	return &Error{Kind: ErrValidation, Message: message}
}

// ValidationFields คืน validation error พร้อมรายละเอียดราย field
func ValidationFields(message string, details map[string]string) *Error {
	return &Error{Kind: ErrValidation, Message: message, Details: details}
}

func Forbidden(message string) *Error {
	if message == "" {
		message = "you do not have permission to perform this action"
	}
	return &Error{Kind: ErrForbidden, Message: message}
}

func NotFound(entity string) *Error {
	return &Error{Kind: ErrNotFound, Message: entity + " not found"}
}

func Conflict(message string) *Error {
	return &Error{Kind: ErrConflict, Message: message}
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: ErrUnauthenticated, Message: message}
}

// Storage ห่อ error จาก persistence layer
func Storage(op string, err error) *Error {
	return &Error{Kind: ErrStorage, Message: op, Err: err}
}

// Is เช็คว่า err เป็น kind ที่กำหนดหรือไม่
func Is(err error, kind error) bool {
	return errors.Is(err, kind)
}

// From ดึง *Error ออกจาก chain ถ้าไม่ใช่ business error จะถือเป็น storage error
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Storage("unexpected error", err)
}
