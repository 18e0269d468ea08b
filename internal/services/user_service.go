package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shrinkearn/backend/internal/auth"
	"github.com/shrinkearn/backend/internal/config"
	"github.com/shrinkearn/backend/internal/models"
	"github.com/shrinkearn/backend/internal/rbac"
	"github.com/shrinkearn/backend/internal/repositories"
	"go.uber.org/zap"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type UserService struct {
	userRepo  *repositories.UserRepo
	auditRepo *repositories.AuditRepo
	cfg       *config.Config
	log       *zap.Logger
}

func NewUserService(userRepo *repositories.UserRepo, auditRepo *repositories.AuditRepo, cfg *config.Config, log *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, auditRepo: auditRepo, cfg: cfg, log: log}
}

func (s *UserService) Register(ctx context.Context, email, username, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", errors.New("a valid email is required")
	}
	if username == "" {
		return nil, "", errors.New("username is required")
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         rbac.RoleMember,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := auth.GenerateJWT(s.cfg.JWTSecret, user.ID, user.Role, s.cfg.JWTExpiration)
	if err != nil {
		return nil, "", err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()))
	return user, token, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(s.cfg.JWTSecret, user.ID, user.Role, s.cfg.JWTExpiration)
	if err != nil {
		return nil, "", err
	}
	_ = s.userRepo.UpdateLastActive(ctx, user.ID)
	return user, token, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// ChangeRole is superadmin-only plumbing; the handler enforces the caller's
// permission, this enforces the target role is real.
func (s *UserService) ChangeRole(ctx context.Context, actorID, userID uuid.UUID, role string) error {
	if !rbac.IsValidRole(role) {
		return fmt.Errorf("unknown role %q", role)
	}
	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		return err
	}
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actorID,
		ActorType:   "admin",
		Action:      "user_role_changed",
		EntityType:  "user",
		EntityID:    &userID,
		Meta:        map[string]any{"role": role},
	})
	return nil
}
