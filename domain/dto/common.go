package dto

import "time"

// DateLayout รูปแบบ due date ที่รับเข้าและส่งออก
const DateLayout = "2006-01-02"

type MessageResponse struct {
	Message string `json:"message"`
}

// FormatDate คืน nil ถ้าไม่มีวันที่
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
