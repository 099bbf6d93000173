package controller

import (
	"lingua_backend/internal/service"
	"lingua_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubscriptionController struct {
	SubscriptionService *service.SubscriptionService
}

func NewSubscriptionController(subscriptionService *service.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{SubscriptionService: subscriptionService}
}

// GetSubscription godoc
// @Summary 订阅状态
// @Tags 订阅
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.SubscriptionStatus}
// @Router /api/subscription [get]
func (c *SubscriptionController) GetSubscription(ctx *gin.Context) {
	status, err := c.SubscriptionService.GetStatus(ctx.Request.Context(), util.CurrentUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, status)
}

// CreateCheckout godoc
// @Summary 发起订阅
// @Description 已有支付客户时返回账单门户地址，否则返回结账页地址
// @Tags 订阅
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response
// @Failure 502 {object} util.Response "支付平台错误"
// @Router /api/subscription/checkout [post]
func (c *SubscriptionController) CreateCheckout(ctx *gin.Context) {
	url, err := c.SubscriptionService.CreateCheckoutURL(ctx.Request.Context(), util.CurrentUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}
