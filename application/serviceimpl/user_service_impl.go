package serviceimpl

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"project-tracker/domain/dto"
	"project-tracker/domain/models"
	"project-tracker/domain/policy"
	"project-tracker/domain/ports"
	"project-tracker/domain/repositories"
	"project-tracker/domain/services"
	"project-tracker/pkg/apperror"
	"project-tracker/pkg/logger"
	"project-tracker/pkg/utils"
)

const generatedPasswordLength = 16

type UserServiceImpl struct {
	userRepo    repositories.UserRepository
	projectRepo repositories.ProjectRepository
	taskRepo    repositories.TaskRepository
	collabRepo  repositories.CollaborationRepository
	transactor  repositories.Transactor
	tokenStore  ports.TokenStorePort
	publisher   ports.EventPublisherPort
	jwtSecret   string
	jwtTTL      time.Duration
	now         func() time.Time
}

func NewUserService(
	userRepo repositories.UserRepository,
	projectRepo repositories.ProjectRepository,
	taskRepo repositories.TaskRepository,
	collabRepo repositories.CollaborationRepository,
	transactor repositories.Transactor,
	tokenStore ports.TokenStorePort,
	publisher ports.EventPublisherPort,
	jwtSecret string,
	jwtTTL time.Duration,
) services.UserService {
	return &UserServiceImpl{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		collabRepo:  collabRepo,
		transactor:  transactor,
		tokenStore:  tokenStore,
		publisher:   publisher,
		jwtSecret:   jwtSecret,
		jwtTTL:      jwtTTL,
		now:         time.Now,
	}
}

// ========== Auth ==========

func (s *UserServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = normalizeEmail(req.Email)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.createUser(ctx, &dto.CreateUserRequest{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "User registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *UserServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (string, *models.User, error) {
	req.Login = strings.TrimSpace(req.Login)
	if err := validateRequest(req); err != nil {
		return "", nil, err
	}

	user, err := s.userRepo.GetByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.WarnContext(ctx, "Login failed - user not found", "login", req.Login)
			return "", nil, apperror.Unauthenticated("invalid username or password")
		}
		return "", nil, storageErr(ctx, "failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.WarnContext(ctx, "Login failed - invalid password", "user_id", user.ID)
		return "", nil, apperror.Unauthenticated("invalid username or password")
	}

	if !user.IsActive {
		logger.WarnContext(ctx, "Login failed - account disabled", "user_id", user.ID)
		return "", nil, apperror.Unauthenticated("account is disabled")
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to generate JWT", "user_id", user.ID, "error", err)
		return "", nil, apperror.Storage("failed to issue token", err)
	}

	logger.InfoContext(ctx, "User logged in", "user_id", user.ID)
	return token, user, nil
}

// Logout revoke token จนกว่าจะหมดอายุเอง
func (s *UserServiceImpl) Logout(ctx context.Context, claims *utils.JWTClaims) error {
	if claims == nil || claims.ID == "" {
		return apperror.Unauthenticated("missing token")
	}

	ttl := claims.RemainingTTL(s.now())
	if ttl <= 0 {
		return nil
	}

	if err := s.tokenStore.Revoke(ctx, claims.ID, ttl); err != nil {
		return storageErr(ctx, "failed to revoke token", err)
	}

	logger.InfoContext(ctx, "User logged out", "user_id", claims.UserID)
	return nil
}

func (s *UserServiceImpl) Authenticate(ctx context.Context, token string) (*models.User, *utils.JWTClaims, error) {
	claims, err := s.ValidateJWT(token)
	if err != nil {
		if errors.Is(err, utils.ErrExpiredToken) {
			return nil, nil, apperror.Unauthenticated("token has expired")
		}
		return nil, nil, apperror.Unauthenticated("invalid token")
	}

	revoked, err := s.tokenStore.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, storageErr(ctx, "failed to check token revocation", err)
	}
	if revoked {
		return nil, nil, apperror.Unauthenticated("token has been revoked")
	}

	userID, err := claims.TokenUserID()
	if err != nil {
		return nil, nil, apperror.Unauthenticated("invalid token")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, apperror.Unauthenticated("user no longer exists")
		}
		return nil, nil, storageErr(ctx, "failed to load user", err)
	}
	if !user.IsActive {
		return nil, nil, apperror.Unauthenticated("account is disabled")
	}

	return user, claims, nil
}

func (s *UserServiceImpl) GenerateJWT(user *models.User) (string, error) {
	return utils.GenerateToken(user, s.jwtSecret, s.jwtTTL, s.now())
}

func (s *UserServiceImpl) ValidateJWT(token string) (*utils.JWTClaims, error) {
	return utils.ParseToken(token, s.jwtSecret)
}

// ========== Profile ==========

func (s *UserServiceImpl) GetProfile(ctx context.Context, actor *models.User) (*models.User, error) {
	if !policy.CanBrowse(actor) {
		return nil, apperror.Forbidden("")
	}
	user, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, lookupErr(ctx, "user", err)
	}
	return user, nil
}

func (s *UserServiceImpl) GetProfileByUsername(ctx context.Context, actor *models.User, username string) (*models.User, error) {
	target, err := s.getByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewProfile(actor, target) {
		return nil, apperror.Forbidden("you can only view your own profile")
	}
	return target, nil
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, actor *models.User, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !policy.CanEditProfile(actor, user) {
		return nil, apperror.Forbidden("")
	}

	req.Email = normalizeEmail(req.Email)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if err := s.ensureEmailAvailable(ctx, req.Email, user.ID); err != nil {
		return nil, err
	}

	user.Email = req.Email
	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "User profile updated", "user_id", user.ID)
	return user, nil
}

func (s *UserServiceImpl) ChangePassword(ctx context.Context, actor *models.User, req *dto.ChangePasswordRequest) error {
	user, err := s.GetProfile(ctx, actor)
	if err != nil {
		return err
	}
	if err := validateRequest(req); err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return apperror.ValidationFields("current password is incorrect", map[string]string{
			"currentPassword": "does not match",
		})
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return storageErr(ctx, "failed to hash password", err)
	}
	user.Password = hash

	if err := s.save(ctx, user); err != nil {
		return err
	}

	logger.InfoContext(ctx, "User password changed", "user_id", user.ID)
	return nil
}

// LookupUser ให้ผู้ใช้ทุกคนหา id จาก username ได้ (ใช้ตอน assign งาน)
func (s *UserServiceImpl) LookupUser(ctx context.Context, actor *models.User, username string) (*models.User, error) {
	if !policy.CanBrowse(actor) {
		return nil, apperror.Forbidden("")
	}
	return s.getByUsername(ctx, username)
}

// ========== Admin ==========

func (s *UserServiceImpl) ListUsers(ctx context.Context, actor *models.User, offset, limit int) ([]*models.User, int64, error) {
	if !policy.CanManageUsers(actor) {
		return nil, 0, apperror.Forbidden("only admins can manage users")
	}

	users, err := s.userRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, storageErr(ctx, "failed to list users", err)
	}
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, 0, storageErr(ctx, "failed to count users", err)
	}
	return users, count, nil
}

// CreateUser คืน password ที่ระบบสุ่มให้ถ้า request ไม่ได้ส่งมา
func (s *UserServiceImpl) CreateUser(ctx context.Context, actor *models.User, req *dto.CreateUserRequest) (*models.User, string, error) {
	if !policy.CanManageUsers(actor) {
		return nil, "", apperror.Forbidden("only admins can manage users")
	}
	return s.quickAdd(ctx, req, actor)
}

func (s *UserServiceImpl) CreateAdmin(ctx context.Context, req *dto.CreateUserRequest) (*models.User, string, error) {
	req.IsAdmin = true
	return s.quickAdd(ctx, req, nil)
}

func (s *UserServiceImpl) quickAdd(ctx context.Context, req *dto.CreateUserRequest, actor *models.User) (*models.User, string, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = normalizeEmail(req.Email)
	if err := validateRequest(req); err != nil {
		return nil, "", err
	}

	generated := ""
	if req.Password == "" {
		generated = utils.GenerateRandomString(generatedPasswordLength)
		req.Password = generated
	}

	user, err := s.createUser(ctx, req)
	if err != nil {
		return nil, "", err
	}

	createdBy := "cli"
	if actor != nil {
		createdBy = actor.ID.String()
	}
	logger.InfoContext(ctx, "User created", "user_id", user.ID, "is_admin", user.IsAdmin, "created_by", createdBy)
	return user, generated, nil
}

func (s *UserServiceImpl) AdminGetUser(ctx context.Context, actor *models.User, username string) (*models.User, error) {
	if !policy.CanManageUsers(actor) {
		return nil, apperror.Forbidden("only admins can manage users")
	}
	return s.getByUsername(ctx, username)
}

func (s *UserServiceImpl) AdminUpdateUser(ctx context.Context, actor *models.User, username string, req *dto.AdminUpdateUserRequest) (*models.User, error) {
	if !policy.CanManageUsers(actor) {
		return nil, apperror.Forbidden("only admins can manage users")
	}

	target, err := s.getByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		trimmed := strings.TrimSpace(*req.Username)
		req.Username = &trimmed
	}
	if req.Email != nil {
		normalized := normalizeEmail(*req.Email)
		req.Email = &normalized
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	self := target.ID == actor.ID
	if self && req.IsActive != nil && !*req.IsActive {
		return nil, apperror.Validation("you cannot deactivate your own account")
	}
	if self && req.IsAdmin != nil && !*req.IsAdmin {
		return nil, apperror.Validation("you cannot remove your own admin rights")
	}

	if req.Username != nil && *req.Username != target.Username {
		exists, err := s.userRepo.ExistsByUsername(ctx, *req.Username, target.ID)
		if err != nil {
			return nil, storageErr(ctx, "failed to check username", err)
		}
		if exists {
			return nil, apperror.Conflict("username already exists")
		}
		target.Username = *req.Username
	}
	if req.Email != nil {
		if err := s.ensureEmailAvailable(ctx, *req.Email, target.ID); err != nil {
			return nil, err
		}
		target.Email = *req.Email
	}
	if req.FirstName != nil {
		target.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		target.LastName = strings.TrimSpace(*req.LastName)
	}

	// role เป็นแค่ label ถ้าส่งมาอย่างเดียวจะแปลงเป็น is_admin ให้
	switch {
	case req.IsAdmin != nil:
		target.SetAdmin(*req.IsAdmin)
	case req.Role != nil:
		if self && *req.Role != models.RoleAdmin {
			return nil, apperror.Validation("you cannot remove your own admin rights")
		}
		target.SetAdmin(*req.Role == models.RoleAdmin)
	}

	if req.IsActive != nil {
		target.IsActive = *req.IsActive
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, storageErr(ctx, "failed to hash password", err)
		}
		target.Password = hash
	}

	if err := s.save(ctx, target); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "User updated by admin", "user_id", target.ID, "admin_id", actor.ID)
	return target, nil
}

// DeleteUser ลบผู้ใช้และจัดการ reference ทั้งหมดใน transaction เดียว
// งานที่ target สร้างและโปรเจกต์ที่ target เป็นเจ้าของจะย้ายมาเป็นของ actor
func (s *UserServiceImpl) DeleteUser(ctx context.Context, actor *models.User, username string) error {
	if actor == nil {
		return apperror.Forbidden("")
	}
	// ลบตัวเองไม่ได้ไม่ว่าจะมีสิทธิ์อะไร
	username = strings.TrimSpace(username)
	if username == actor.Username {
		return apperror.Validation("you cannot delete your own account")
	}
	if !policy.CanManageUsers(actor) {
		return apperror.Forbidden("only admins can delete users")
	}

	target, err := s.getByUsername(ctx, username)
	if err != nil {
		return err
	}
	if target.ID == actor.ID {
		return apperror.Validation("you cannot delete your own account")
	}

	var reassigned []uuid.UUID
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.projectRepo.RemoveUserFromAllProjects(ctx, target.ID); err != nil {
			return err
		}
		if err := s.taskRepo.ClearAssignee(ctx, target.ID); err != nil {
			return err
		}
		if err := s.taskRepo.ReassignCreator(ctx, target.ID, actor.ID); err != nil {
			return err
		}

		ids, err := s.projectRepo.ReassignOwner(ctx, target.ID, actor.ID)
		if err != nil {
			return err
		}
		// owner ต้องไม่อยู่ใน roster ของโปรเจกต์ตัวเอง
		if err := s.projectRepo.RemoveMemberships(ctx, ids, actor.ID); err != nil {
			return err
		}
		reassigned = ids

		if err := s.collabRepo.DetachUser(ctx, target.ID); err != nil {
			return err
		}
		return s.userRepo.Delete(ctx, target.ID)
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to delete user", "user_id", target.ID, "error", err)
		return apperror.Storage("failed to delete user", err)
	}

	logger.InfoContext(ctx, "User deleted",
		"user_id", target.ID,
		"admin_id", actor.ID,
		"reassigned_projects", len(reassigned),
	)

	publish(ctx, s.publisher, &ports.ActivityEvent{
		Type:    ports.EventUserDeleted,
		ActorID: actor.ID.String(),
		Data:    map[string]string{"userId": target.ID.String(), "username": target.Username},
	})
	for _, id := range reassigned {
		publish(ctx, s.publisher, &ports.ActivityEvent{
			Type:      ports.EventProjectUpdated,
			ProjectID: id.String(),
			ActorID:   actor.ID.String(),
			Data:      map[string]string{"ownerId": actor.ID.String()},
		})
	}
	return nil
}

// ========== Helpers ==========

func (s *UserServiceImpl) createUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username, uuid.Nil)
	if err != nil {
		return nil, storageErr(ctx, "failed to check username", err)
	}
	if exists {
		return nil, apperror.Conflict("username already exists")
	}
	if err := s.ensureEmailAvailable(ctx, req.Email, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, storageErr(ctx, "failed to hash password", err)
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  hash,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		IsActive:  true,
	}
	user.SetAdmin(req.IsAdmin)

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.Conflict("username or email already exists")
		}
		return nil, storageErr(ctx, "failed to create user", err)
	}
	return user, nil
}

func (s *UserServiceImpl) getByUsername(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.ValidationFields("username is required", map[string]string{"username": "is required"})
	}
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, lookupErr(ctx, "user", err)
	}
	return user, nil
}

func (s *UserServiceImpl) ensureEmailAvailable(ctx context.Context, email string, excludeID uuid.UUID) error {
	exists, err := s.userRepo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return storageErr(ctx, "failed to check email", err)
	}
	if exists {
		return apperror.Conflict("email already exists")
	}
	return nil
}

func (s *UserServiceImpl) save(ctx context.Context, user *models.User) error {
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return apperror.Conflict("username or email already exists")
		}
		return storageErr(ctx, "failed to update user", err)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
