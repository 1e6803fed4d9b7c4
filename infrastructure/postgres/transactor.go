package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"project-tracker/domain/repositories"
)

type txKey struct{}

type TransactorImpl struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) repositories.Transactor {
	return &TransactorImpl{db: db}
}

// WithinTransaction ถ้า ctx อยู่ใน transaction อยู่แล้วจะใช้ตัวเดิม
func (t *TransactorImpl) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn คืน transaction จาก ctx ถ้ามี ไม่งั้นใช้ db ปกติ
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// translate แปลง gorm error เป็น error ของ repositories
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repositories.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repositories.ErrDuplicate
	}
	return err
}
