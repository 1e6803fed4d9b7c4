package services

import (
	"context"

	"project-tracker/domain/dto"
	"project-tracker/domain/models"
	"project-tracker/pkg/utils"
)

type UserService interface {
	// Auth
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (string, *models.User, error)
	Logout(ctx context.Context, claims *utils.JWTClaims) error
	// Authenticate ตรวจ token, revoke list และสถานะผู้ใช้ คืน actor สำหรับ request นั้น
	Authenticate(ctx context.Context, token string) (*models.User, *utils.JWTClaims, error)
	GenerateJWT(user *models.User) (string, error)
	ValidateJWT(token string) (*utils.JWTClaims, error)

	// Profile
	GetProfile(ctx context.Context, actor *models.User) (*models.User, error)
	GetProfileByUsername(ctx context.Context, actor *models.User, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, actor *models.User, req *dto.UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, actor *models.User, req *dto.ChangePasswordRequest) error
	LookupUser(ctx context.Context, actor *models.User, username string) (*models.User, error)

	// Admin
	ListUsers(ctx context.Context, actor *models.User, offset, limit int) ([]*models.User, int64, error)
	CreateUser(ctx context.Context, actor *models.User, req *dto.CreateUserRequest) (*models.User, string, error)
	AdminGetUser(ctx context.Context, actor *models.User, username string) (*models.User, error)
	AdminUpdateUser(ctx context.Context, actor *models.User, username string, req *dto.AdminUpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, actor *models.User, username string) error

	// CreateAdmin ใช้จาก CLI ตอนยังไม่มี admin ในระบบ
	CreateAdmin(ctx context.Context, req *dto.CreateUserRequest) (*models.User, string, error)
}
