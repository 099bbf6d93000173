package controller

import (
	"lingua_backend/internal/service"
	"lingua_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ViewController struct {
	Hub *service.ViewHub
}

func NewViewController(hub *service.ViewHub) *ViewController {
	return &ViewController{Hub: hub}
}

// Connect godoc
// @Summary 页面失效通知
// @Description 建立 websocket 连接，推送 {"type":"VIEWS_STALE","data":{"paths":[...]}}。浏览器可通过 ?token= 传递令牌
// @Tags 系统
// @Security ApiKeyAuth
// @Router /api/views/ws [get]
func (c *ViewController) Connect(ctx *gin.Context) {
	userID := util.CurrentUserID(ctx)
	if userID == 0 {
		util.Unauthorized(ctx)
		return
	}
	service.ServeWs(c.Hub, ctx.Writer, ctx.Request, userID)
}
