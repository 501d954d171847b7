package service

import (
	"context"
	"errors"

	"marketplace/internal/model"
	"marketplace/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrStepOutOfOrder       = errors.New("入驻步骤必须按序提交")
	ErrOnboardingDone       = errors.New("入驻流程已完成")
	ErrNoOnboardingRequired = errors.New("该角色无需入驻")
)

// OnboardingService 入驻向导的后端状态机
// 每个角色有固定的步骤序列（见 model.OnboardingSteps），
// 只允许提交"当前步骤"，提交后前进一步；最后一步提交后资料
// 进入 PENDING_APPROVAL 等待管理员审核
type OnboardingService struct {
	db       *gorm.DB
	userRepo *repository.UserRepository
}

func NewOnboardingService(db *gorm.DB) *OnboardingService {
	return &OnboardingService{
		db:       db,
		userRepo: repository.NewUserRepository(db),
	}
}

type OnboardingState struct {
	Role        string   `json:"role"`
	Status      string   `json:"status"`
	CurrentStep string   `json:"current_step"`
	Steps       []string `json:"steps"`
}

// GetState 当前入驻进度
func (s *OnboardingService) GetState(ctx context.Context, userID int64) (*OnboardingState, error) {
	profile, err := s.userRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	steps, ok := model.OnboardingSteps[profile.Role]
	if !ok {
		return nil, ErrNoOnboardingRequired
	}

	return &OnboardingState{
		Role:        profile.Role,
		Status:      profile.Status,
		CurrentStep: profile.OnboardingStep,
		Steps:       steps,
	}, nil
}

// StepPayload 各步骤的提交内容，按步骤取对应字段
type StepPayload struct {
	// PROFILE
	Phone       string `json:"phone"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	Pincode     string `json:"pincode"`
	// BUSINESS（卖家）
	BusinessName string `json:"business_name"`
	GSTNumber    string `json:"gst_number"`
	// BANK（卖家）
	BankAccountNo string `json:"bank_account_no"`
	BankIFSC      string `json:"bank_ifsc"`
	// VEHICLE（配送员）
	VehicleType   string `json:"vehicle_type"`
	VehicleNumber string `json:"vehicle_number"`
}

// SubmitStep 提交一个入驻步骤
// step 必须等于当前步骤；重复提交当前步骤允许，视为覆盖修改。
// 已通过审核的资料不允许再改；被驳回的资料从被驳回时的步骤重新提交
func (s *OnboardingService) SubmitStep(ctx context.Context, userID int64, step string, payload *StepPayload) (*OnboardingState, error) {
	profile, err := s.userRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, ok := model.OnboardingSteps[profile.Role]; !ok {
		return nil, ErrNoOnboardingRequired
	}
	if profile.Status == model.ProfileStatusApproved || profile.Status == model.ProfileStatusPending {
		return nil, ErrOnboardingDone
	}
	if step != profile.OnboardingStep {
		// 被驳回的资料允许重新提交任意已填过的数据步骤
		if profile.Status != model.ProfileStatusRejected || !isDataStep(profile.Role, step) {
			return nil, ErrStepOutOfOrder
		}
	}

	switch step {
	case model.StepProfile:
		profile.Phone = payload.Phone
		profile.AddressLine = payload.AddressLine
		profile.City = payload.City
		profile.Pincode = payload.Pincode
	case model.StepBusiness:
		profile.BusinessName = payload.BusinessName
		profile.GSTNumber = payload.GSTNumber
	case model.StepBank:
		profile.BankAccountNo = payload.BankAccountNo
		profile.BankIFSC = payload.BankIFSC
	case model.StepVehicle:
		profile.VehicleType = payload.VehicleType
		profile.VehicleNumber = payload.VehicleNumber
	default:
		return nil, ErrStepOutOfOrder
	}

	// 只有提交"当前步骤"才前进；驳回后的修改不回退进度
	if step == profile.OnboardingStep {
		if next := model.NextOnboardingStep(profile.Role, step); next != "" {
			profile.OnboardingStep = next
		}
	}
	// 走到 COMPLETED 即提交审核；被驳回后重新提交也会再次进入待审核
	if profile.OnboardingStep == model.StepCompleted {
		profile.Status = model.ProfileStatusPending
		profile.RejectReason = ""
	}

	if err := s.userRepo.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}

	return s.GetState(ctx, userID)
}

// ============================================================
// 管理员审核
// ============================================================

// ListPendingProfiles 待审核队列，按提交时间先到先审
func (s *OnboardingService) ListPendingProfiles(ctx context.Context, page, pageSize int) ([]*model.UserProfile, int64, error) {
	return s.userRepo.ListProfilesByStatus(ctx, model.ProfileStatusPending, page, pageSize)
}

// ApproveProfile 审核通过 PENDING_APPROVAL -> APPROVED
// 条件更新保证并发审核只有一次生效
func (s *OnboardingService) ApproveProfile(ctx context.Context, profileID int64) error {
	return s.userRepo.UpdateProfileStatus(ctx, profileID, model.ProfileStatusPending, model.ProfileStatusApproved, "")
}

// RejectProfile 驳回 PENDING_APPROVAL -> REJECTED，附驳回原因
// 被驳回的用户可修改资料后重新提交
func (s *OnboardingService) RejectProfile(ctx context.Context, profileID int64, reason string) error {
	return s.userRepo.UpdateProfileStatus(ctx, profileID, model.ProfileStatusPending, model.ProfileStatusRejected, reason)
}

// isDataStep step 是否是该角色序列中的数据步骤（COMPLETED 不算）
func isDataStep(role, step string) bool {
	for _, s := range model.OnboardingSteps[role] {
		if s == step {
			return step != model.StepCompleted
		}
	}
	return false
}
