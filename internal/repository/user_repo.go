package repository

import (
	"context"
	"errors"

	"marketplace/internal/model"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("用户不存在")
	ErrEmailTaken      = errors.New("邮箱已被注册")
	ErrProfileNotFound = errors.New("用户资料不存在")
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, tx *gorm.DB, user *model.User) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ============================================================
// 用户资料
// ============================================================

func (r *UserRepository) CreateProfile(ctx context.Context, tx *gorm.DB, profile *model.UserProfile) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(profile).Error
}

func (r *UserRepository) GetProfileByUserID(ctx context.Context, userID int64) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// SaveProfile 覆盖写资料（入驻步骤提交走这里）
func (r *UserRepository) SaveProfile(ctx context.Context, profile *model.UserProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// UpdateProfileStatus 条件更新资料审核状态
// WHERE 带上 fromStatus，并发审核只有一个请求生效
func (r *UserRepository) UpdateProfileStatus(ctx context.Context, profileID int64, fromStatus, toStatus, rejectReason string) error {
	result := r.db.WithContext(ctx).
		Model(&model.UserProfile{}).
		Where("id = ? AND status = ?", profileID, fromStatus).
		Updates(map[string]interface{}{
			"status":        toStatus,
			"reject_reason": rejectReason,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// ListProfilesByStatus 按审核状态分页查询，管理员审核队列用
func (r *UserRepository) ListProfilesByStatus(ctx context.Context, status string, page, pageSize int) ([]*model.UserProfile, int64, error) {
	var profiles []*model.UserProfile
	var total int64

	query := r.db.WithContext(ctx).Model(&model.UserProfile{}).Where("status = ?", status)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&profiles).Error

	return profiles, total, err
}
