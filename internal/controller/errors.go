package controller

import (
	"context"
	"errors"
	"lingua_backend/internal/service"
	"lingua_backend/internal/util"
	"lingua_backend/pkg/logger"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError 将领域错误映射为 HTTP 状态码
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrUnauthorized):
		util.Unauthorized(ctx)
	case util.IsNotFound(err), errors.Is(err, util.ErrNoActiveCourse):
		util.NotFoundWithMessage(ctx, err.Error())
	case errors.Is(err, util.ErrHeartsFull),
		errors.Is(err, util.ErrNotEnoughPoints),
		errors.Is(err, util.ErrEmailRegistered),
		errors.Is(err, util.ErrCourseEmpty):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidContent):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrPaymentProvider):
		util.BadGateway(ctx, strings.TrimPrefix(err.Error(), util.ErrPaymentProvider.Error()+": "))
	case errors.Is(err, context.Canceled):
		util.Error(ctx, 499, "Request canceled")
	default:
		util.LogInternalError(ctx, err)
	}
}

// publishStale 通知客户端刷新页面数据，失败只记录日志
func publishStale(ctx *gin.Context, publisher service.ViewPublisher, userID uint, paths []string) {
	if publisher == nil || len(paths) == 0 {
		return
	}
	if err := publisher.Publish(ctx.Request.Context(), userID, paths); err != nil {
		logger.Log.Warn("Failed to publish stale views",
			zap.Uint("userId", userID),
			zap.Strings("paths", paths),
			zap.Error(err))
	}
}

// bindID 解析路径参数中的 ID
func bindID(ctx *gin.Context, name string) (uint, bool) {
	id := util.MustParseUint(ctx.Param(name))
	if id == 0 {
		util.Error(ctx, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
