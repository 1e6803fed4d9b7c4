package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"project-tracker/domain/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrMissingToken = errors.New("missing token")
	ErrNoActor      = errors.New("user not found in context")
)

// LocalsUser key ของ c.Locals ที่ auth middleware ใส่ *models.User
const (
	LocalsUser   = "user"
	LocalsClaims = "claims"
)

// JWTClaims ID (jti) ใช้ตอน logout เพื่อ revoke token
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// TokenUserID แปลง user_id ใน claims เป็น uuid
func (c *JWTClaims) TokenUserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

// RemainingTTL เวลาที่เหลือก่อน token หมดอายุ
func (c *JWTClaims) RemainingTTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}

func GenerateToken(user *models.User, secret string, ttl time.Duration, now time.Time) (string, error) {
	claims := JWTClaims{
		UserID:   user.ID.String(),
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(tokenString, secret string) (*JWTClaims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func ExtractTokenFromHeader(authHeader string) string {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// GetActor คืนผู้ใช้ที่ login อยู่ ต้องผ่าน auth middleware มาก่อน
func GetActor(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(LocalsUser).(*models.User)
	if !ok || user == nil {
		return nil, ErrNoActor
	}
	return user, nil
}

func GetClaims(c *fiber.Ctx) (*JWTClaims, error) {
	claims, ok := c.Locals(LocalsClaims).(*JWTClaims)
	if !ok || claims == nil {
		return nil, ErrMissingToken
	}
	return claims, nil
}
