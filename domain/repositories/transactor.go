package repositories

import "context"

// Transactor รัน fn ภายใน transaction เดียว repository ทุกตัวที่ถูกเรียกด้วย ctx
// ที่ส่งเข้า fn จะใช้ transaction เดียวกัน ถ้า fn คืน error จะ rollback ทั้งหมด
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
