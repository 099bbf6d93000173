package controller

import (
	"lingua_backend/internal/service"
	"lingua_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// LearnController 学习页、课时、商店、任务和排行榜的只读接口
type LearnController struct {
	ViewService *service.ViewService
}

func NewLearnController(viewService *service.ViewService) *LearnController {
	return &LearnController{ViewService: viewService}
}

// GetLearn godoc
// @Summary 学习页数据
// @Description 当前课程的单元、课时完成情况和当前课时进度。未选择课程时返回 404
// @Tags 学习
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.LearnView}
// @Failure 404 {object} util.Response
// @Router /api/learn [get]
func (c *LearnController) GetLearn(ctx *gin.Context) {
	view, err := c.ViewService.GetLearnView(ctx.Request.Context(), util.CurrentUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// GetActiveLesson godoc
// @Summary 当前课时
// @Tags 学习
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.LessonView}
// @Failure 404 {object} util.Response
// @Router /api/lessons/active [get]
func (c *LearnController) GetActiveLesson(ctx *gin.Context) {
	view, err := c.ViewService.GetLessonView(ctx.Request.Context(), util.CurrentUserID(ctx), 0)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// GetLesson godoc
// @Summary 课时详情
// @Tags 学习
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课时ID"
// @Success 200 {object} util.Response{data=service.LessonView}
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id} [get]
func (c *LearnController) GetLesson(ctx *gin.Context) {
	lessonID, ok := bindID(ctx, "id")
	if !ok {
		return
	}
	view, err := c.ViewService.GetLessonView(ctx.Request.Context(), util.CurrentUserID(ctx), lessonID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// GetShop godoc
// @Summary 商店页数据
// @Tags 学习
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.ShopView}
// @Router /api/shop [get]
func (c *LearnController) GetShop(ctx *gin.Context) {
	view, err := c.ViewService.GetShopView(ctx.Request.Context(), util.CurrentUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// GetQuests godoc
// @Summary 积分任务
// @Tags 学习
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.QuestsView}
// @Router /api/quests [get]
func (c *LearnController) GetQuests(ctx *gin.Context) {
	view, err := c.ViewService.GetQuestsView(ctx.Request.Context(), util.CurrentUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// GetLeaderboard godoc
// @Summary 积分排行榜（前 10 名）
// @Tags 学习
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry}
// @Router /api/leaderboard [get]
func (c *LearnController) GetLeaderboard(ctx *gin.Context) {
	entries, err := c.ViewService.GetLeaderboard(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}
