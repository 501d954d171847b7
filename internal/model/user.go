package model

import (
	"time"
)

// ============================================================================
// 角色与入驻流程常量
// ============================================================================

const (
	RoleCustomer = "CUSTOMER"
	RoleSeller   = "SELLER"
	RoleDelivery = "DELIVERY"
	RoleAdmin    = "ADMIN"
)

// 资料审核状态
// 卖家/配送员完成入驻后进入 PENDING_APPROVAL，由管理员审核
const (
	ProfileStatusDraft    = "DRAFT"
	ProfileStatusPending  = "PENDING_APPROVAL"
	ProfileStatusApproved = "APPROVED"
	ProfileStatusRejected = "REJECTED"
)

// 入驻步骤
// 每个角色有自己的步骤序列，只能按序前进，当前步骤允许重复提交覆盖
const (
	StepProfile   = "PROFILE"
	StepBusiness  = "BUSINESS"
	StepBank      = "BANK"
	StepVehicle   = "VEHICLE"
	StepCompleted = "COMPLETED"
)

// OnboardingSteps 各角色的入驻步骤序列
var OnboardingSteps = map[string][]string{
	RoleSeller:   {StepProfile, StepBusiness, StepBank, StepCompleted},
	RoleDelivery: {StepProfile, StepVehicle, StepCompleted},
}

// NextOnboardingStep 返回某角色当前步骤之后的下一步
// 角色没有入驻流程、或步骤不在序列中、或已是最后一步时返回空串
func NextOnboardingStep(role, current string) string {
	steps, ok := OnboardingSteps[role]
	if !ok {
		return ""
	}
	for i, s := range steps {
		if s == current && i+1 < len(steps) {
			return steps[i+1]
		}
	}
	return ""
}

// User 账号表，只负责登录凭证
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(128);not null" json:"-"`
	Name         string    `gorm:"type:varchar(64);not null" json:"name"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}

// UserProfile 角色资料表
// role 决定该用户能访问哪些接口；入驻进度与业务资料都挂在这里
type UserProfile struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64     `gorm:"uniqueIndex;not null" json:"user_id"`
	Role           string    `gorm:"type:varchar(16);index;not null" json:"role"`
	Status         string    `gorm:"type:varchar(20);index;not null;default:DRAFT" json:"status"`
	OnboardingStep string    `gorm:"type:varchar(20);not null;default:PROFILE" json:"onboarding_step"`
	Phone          string    `gorm:"type:varchar(20)" json:"phone"`
	AddressLine    string    `gorm:"type:varchar(256)" json:"address_line"`
	City           string    `gorm:"type:varchar(64)" json:"city"`
	Pincode        string    `gorm:"type:varchar(10)" json:"pincode"`
	BusinessName   string    `gorm:"type:varchar(128)" json:"business_name,omitempty"`
	GSTNumber      string    `gorm:"type:varchar(20)" json:"gst_number,omitempty"` // 仅存储，不做外部校验
	BankAccountNo  string    `gorm:"type:varchar(32)" json:"bank_account_no,omitempty"`
	BankIFSC       string    `gorm:"type:varchar(16)" json:"bank_ifsc,omitempty"`
	VehicleType    string    `gorm:"type:varchar(32)" json:"vehicle_type,omitempty"`
	VehicleNumber  string    `gorm:"type:varchar(20)" json:"vehicle_number,omitempty"`
	RejectReason   string    `gorm:"type:varchar(256)" json:"reject_reason,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profile"
}

// Onboarded 入驻是否已完成（CUSTOMER/ADMIN 没有入驻流程，视为已完成）
func (p *UserProfile) Onboarded() bool {
	if _, ok := OnboardingSteps[p.Role]; !ok {
		return true
	}
	return p.OnboardingStep == StepCompleted
}
