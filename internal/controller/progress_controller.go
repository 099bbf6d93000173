package controller

import (
	"lingua_backend/internal/service"
	"lingua_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
	Views           service.ViewPublisher
}

func NewProgressController(progressService *service.ProgressService, views service.ViewPublisher) *ProgressController {
	return &ProgressController{ProgressService: progressService, Views: views}
}

// swagger:model ChallengeRequest
type ChallengeRequest struct {
	ChallengeID uint `json:"challengeId" binding:"required"`
}

// CompleteChallenge godoc
// @Summary 记录答题完成
// @Description 首次完成需要红心（订阅用户除外），重复完成为练习模式并恢复一颗红心。红心不足时返回 applied=false, error="hearts"
// @Tags 学习进度
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ChallengeRequest true "题目"
// @Success 200 {object} util.Response{data=service.CompletionResult}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/challenge-progress [post]
func (c *ProgressController) CompleteChallenge(ctx *gin.Context) {
	var req ChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	userID := util.CurrentUserID(ctx)
	result, err := c.ProgressService.RecordChallengeCompletion(ctx.Request.Context(), userID, req.ChallengeID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	publishStale(ctx, c.Views, userID, result.StaleViews)
	util.Success(ctx, result)
}

// ReduceHearts godoc
// @Summary 答错扣除红心
// @Description 练习题与订阅用户不扣减；红心为 0 时返回 applied=false, error="hearts"
// @Tags 学习进度
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ChallengeRequest true "题目"
// @Success 200 {object} util.Response{data=service.HeartsResult}
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/hearts/reduce [post]
func (c *ProgressController) ReduceHearts(ctx *gin.Context) {
	var req ChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	userID := util.CurrentUserID(ctx)
	result, err := c.ProgressService.ReduceHearts(ctx.Request.Context(), userID, req.ChallengeID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	publishStale(ctx, c.Views, userID, result.StaleViews)
	util.Success(ctx, result)
}

// RefillHearts godoc
// @Summary 积分兑换红心
// @Tags 学习进度
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.HeartsResult}
// @Failure 401 {object} util.Response
// @Failure 409 {object} util.Response "红心已满或积分不足"
// @Router /api/hearts/refill [post]
func (c *ProgressController) RefillHearts(ctx *gin.Context) {
	userID := util.CurrentUserID(ctx)
	result, err := c.ProgressService.RefillHearts(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	publishStale(ctx, c.Views, userID, result.StaleViews)
	util.Success(ctx, result)
}
