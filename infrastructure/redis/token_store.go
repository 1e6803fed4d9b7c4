package redis

import (
	"context"
	"time"

	"project-tracker/domain/ports"
)

const revokedTokenPrefix = "auth:revoked:"

// TokenStore เก็บ jti ที่ logout แล้วใน Redis พร้อม TTL เท่าอายุ token ที่เหลือ
type TokenStore struct {
	client *Client
}

func NewTokenStore(client *Client) ports.TokenStorePort {
	return &TokenStore{client: client}
}

func (s *TokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedTokenPrefix+tokenID, "1", ttl)
}

func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.client.Exists(ctx, revokedTokenPrefix+tokenID)
}
