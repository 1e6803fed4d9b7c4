package ports

import (
	"context"
	"time"
)

// TokenStorePort เก็บ token id ที่ถูก revoke (logout) จนกว่าจะหมดอายุ
type TokenStorePort interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
