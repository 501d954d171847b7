package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextOnboardingStep(t *testing.T) {
	// 卖家：PROFILE -> BUSINESS -> BANK -> COMPLETED
	assert.Equal(t, StepBusiness, NextOnboardingStep(RoleSeller, StepProfile))
	assert.Equal(t, StepBank, NextOnboardingStep(RoleSeller, StepBusiness))
	assert.Equal(t, StepCompleted, NextOnboardingStep(RoleSeller, StepBank))
	assert.Equal(t, "", NextOnboardingStep(RoleSeller, StepCompleted))

	// 配送员：PROFILE -> VEHICLE -> COMPLETED
	assert.Equal(t, StepVehicle, NextOnboardingStep(RoleDelivery, StepProfile))
	assert.Equal(t, StepCompleted, NextOnboardingStep(RoleDelivery, StepVehicle))

	// 卖家序列里没有 VEHICLE
	assert.Equal(t, "", NextOnboardingStep(RoleSeller, StepVehicle))
	// 顾客没有入驻流程
	assert.Equal(t, "", NextOnboardingStep(RoleCustomer, StepProfile))
}

func TestProfileOnboarded(t *testing.T) {
	seller := &UserProfile{Role: RoleSeller, OnboardingStep: StepBank}
	assert.False(t, seller.Onboarded())

	seller.OnboardingStep = StepCompleted
	assert.True(t, seller.Onboarded())

	// 没有入驻流程的角色视为已完成
	customer := &UserProfile{Role: RoleCustomer, OnboardingStep: StepProfile}
	assert.True(t, customer.Onboarded())

	admin := &UserProfile{Role: RoleAdmin}
	assert.True(t, admin.Onboarded())
}
