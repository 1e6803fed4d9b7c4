package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	Username  string    `gorm:"size:64;uniqueIndex;not null"`
	Email     string    `gorm:"size:255;uniqueIndex;not null"`
	Password  string    `gorm:"not null"`
	FirstName string    `gorm:"size:100"`
	LastName  string    `gorm:"size:100"`
	Role      string    `gorm:"size:20;not null"` // label สำหรับแสดงผล ห้ามใช้ตัดสินสิทธิ์
	IsAdmin   bool      `gorm:"not null"`         // ใช้ตัวนี้ตัวเดียวในการเช็คสิทธิ์ admin
	IsActive  bool      `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// SetAdmin เปลี่ยนสิทธิ์ admin และ sync role label ให้ตรงกัน
func (u *User) SetAdmin(isAdmin bool) {
	u.IsAdmin = isAdmin
	if isAdmin {
		u.Role = RoleAdmin
	} else if u.Role == "" || u.Role == RoleAdmin {
		u.Role = RoleUser
	}
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
