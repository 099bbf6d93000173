package controller

import (
	"lingua_backend/internal/service"
	"lingua_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
	ViewService   *service.ViewService
	Views         service.ViewPublisher
}

func NewCourseController(courseService *service.CourseService, viewService *service.ViewService, views service.ViewPublisher) *CourseController {
	return &CourseController{CourseService: courseService, ViewService: viewService, Views: views}
}

// ListCourses godoc
// @Summary 课程列表
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.CoursesView}
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	view, err := c.ViewService.ListCourses(ctx.Request.Context(), util.CurrentUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// swagger:model SelectCourseRequest
type SelectCourseRequest struct {
	CourseID uint `json:"courseId" binding:"required"`
}

// SelectCourse godoc
// @Summary 选择当前课程
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SelectCourseRequest true "课程"
// @Success 200 {object} util.Response{data=service.SelectCourseResult}
// @Failure 404 {object} util.Response "课程不存在"
// @Failure 409 {object} util.Response "课程为空"
// @Router /api/user-progress [post]
func (c *CourseController) SelectCourse(ctx *gin.Context) {
	var req SelectCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	userID := util.CurrentUserID(ctx)
	result, err := c.CourseService.SelectCourse(ctx.Request.Context(), userID, req.CourseID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	publishStale(ctx, c.Views, userID, result.StaleViews)
	util.Success(ctx, result)
}
