package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/model"
	"marketplace/internal/repository"
	"marketplace/pkg/token"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrRoleInvalid        = errors.New("角色不合法")
)

type AuthService struct {
	db         *gorm.DB
	userRepo   *repository.UserRepository
	tokenMaker *token.Maker
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:         db,
		userRepo:   repository.NewUserRepository(db),
		tokenMaker: token.NewMaker(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpireHours)*time.Hour),
	}
}

type RegisterRequest struct {
	Email    string
	Password string
	Name     string
	Role     string
}

type AuthResponse struct {
	Token   string             `json:"token"`
	UserID  int64              `json:"user_id"`
	Role    string             `json:"role"`
	Profile *model.UserProfile `json:"profile"`
}

// Register 注册
// 用户与资料在同一事务内创建；卖家/配送员初始为 DRAFT + 第一步，
// 顾客没有入驻流程，直接可用
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	switch req.Role {
	case model.RoleCustomer, model.RoleSeller, model.RoleDelivery:
	default:
		// ADMIN 不开放注册
		return nil, ErrRoleInvalid
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, repository.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
	}
	profile := &model.UserProfile{
		Role:           req.Role,
		Status:         model.ProfileStatusDraft,
		OnboardingStep: model.StepProfile,
	}
	if req.Role == model.RoleCustomer {
		profile.Status = model.ProfileStatusApproved
		profile.OnboardingStep = model.StepCompleted
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			return err
		}
		profile.UserID = user.ID
		return s.userRepo.CreateProfile(ctx, tx, profile)
	})
	if err != nil {
		return nil, err
	}

	tokenStr, err := s.tokenMaker.Create(user.ID, profile.Role)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token:   tokenStr,
		UserID:  user.ID,
		Role:    profile.Role,
		Profile: profile,
	}, nil
}

// Login 登录
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	profile, err := s.userRepo.GetProfileByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	tokenStr, err := s.tokenMaker.Create(user.ID, profile.Role)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token:   tokenStr,
		UserID:  user.ID,
		Role:    profile.Role,
		Profile: profile,
	}, nil
}

// GetProfile 当前用户资料
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*model.UserProfile, error) {
	return s.userRepo.GetProfileByUserID(ctx, userID)
}

// TokenMaker 给认证中间件复用
func (s *AuthService) TokenMaker() *token.Maker {
	return s.tokenMaker
}
