package handler

import (
	"marketplace/internal/service"
	"marketplace/pkg/response"

	"github.com/gin-gonic/gin"
)

// GetOnboardingState 查询入驻进度
// GET /api/v1/onboarding/state
func (h *Handler) GetOnboardingState(c *gin.Context) {
	state, err := h.onboardingService.GetState(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, state)
}

// SubmitStepRequest 入驻步骤提交
// step 指明提交哪一步，data 按步骤取对应字段
type SubmitStepRequest struct {
	Step string              `json:"step" binding:"required"`
	Data service.StepPayload `json:"data"`
}

// SubmitOnboardingStep 提交入驻步骤
// POST /api/v1/onboarding/submit
func (h *Handler) SubmitOnboardingStep(c *gin.Context) {
	var req SubmitStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	state, err := h.onboardingService.SubmitStep(c.Request.Context(), currentUserID(c), req.Step, &req.Data)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, state)
}
