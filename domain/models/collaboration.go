package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback ความเห็นจาก admin หรือเจ้าของโปรเจกต์ ไม่มีการแก้ไขหลังสร้าง
type Feedback struct {
	ID        uuid.UUID  `gorm:"primaryKey;type:uuid"`
	TaskID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	AuthorID  *uuid.UUID `gorm:"type:uuid;index"`
	Content   string     `gorm:"type:text;not null"`
	CreatedAt time.Time

	Author *User `gorm:"foreignKey:AuthorID"`
}

func (Feedback) TableName() string {
	return "task_feedback"
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

type Submission struct {
	ID          uuid.UUID  `gorm:"primaryKey;type:uuid"`
	TaskID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	SubmitterID *uuid.UUID `gorm:"type:uuid;index"`
	Content     string     `gorm:"type:text"`
	URL         string     `gorm:"size:1000"`
	StorageKey  string     `gorm:"size:500"` // มีค่าเมื่อเป็นไฟล์ที่อัปโหลดเข้า storage
	CreatedAt   time.Time

	Submitter *User `gorm:"foreignKey:SubmitterID"`
}

func (Submission) TableName() string {
	return "task_submissions"
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
