package controller

import (
	"errors"

	"edu_portal_backend/internal/service"
	"edu_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TaxonomyController struct {
	Service *service.TaxonomyService
}

func NewTaxonomyController(svc *service.TaxonomyService) *TaxonomyController {
	return &TaxonomyController{Service: svc}
}

// @Summary 获取学段列表
// @Tags 内容分类
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/taxonomy/segments [get]
func (c *TaxonomyController) ListSegments(ctx *gin.Context) {
	segments, err := c.Service.ListSegments(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, segments)
}

// @Summary 获取学段下的分组
// @Tags 内容分类
// @Produce json
// @Param id path int true "学段ID"
// @Success 200 {object} util.Response
// @Router /api/taxonomy/segments/{id}/groups [get]
func (c *TaxonomyController) ListGroups(ctx *gin.Context) {
	segmentID := util.MustParseUint(ctx.Param("id"))
	groups, err := c.Service.ListGroups(ctx.Request.Context(), segmentID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, groups)
}

// @Summary 获取分组下的科目
// @Tags 内容分类
// @Produce json
// @Param id path int true "分组ID"
// @Success 200 {object} util.Response
// @Router /api/taxonomy/groups/{id}/subjects [get]
func (c *TaxonomyController) ListSubjects(ctx *gin.Context) {
	groupID := util.MustParseUint(ctx.Param("id"))
	subjects, err := c.Service.ListSubjects(ctx.Request.Context(), groupID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// @Summary 创建学段
// @Tags 内容分类
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SegmentRequest true "学段信息"
// @Success 201 {object} util.Response
// @Router /api/admin/taxonomy/segments [post]
func (c *TaxonomyController) CreateSegment(ctx *gin.Context) {
	var req service.SegmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	segment, err := c.Service.CreateSegment(ctx.Request.Context(), req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, segment)
}

// @Summary 创建分组
// @Tags 内容分类
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.GroupRequest true "分组信息"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response "父级学段不存在"
// @Router /api/admin/taxonomy/groups [post]
func (c *TaxonomyController) CreateGroup(ctx *gin.Context) {
	var req service.GroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	group, err := c.Service.CreateGroup(ctx.Request.Context(), req)
	if err != nil {
		if errors.Is(err, util.ErrInvalidParent) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, group)
}

// @Summary 创建科目
// @Tags 内容分类
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SubjectRequest true "科目信息"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response "父级分组不存在"
// @Router /api/admin/taxonomy/subjects [post]
func (c *TaxonomyController) CreateSubject(ctx *gin.Context) {
	var req service.SubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	subject, err := c.Service.CreateSubject(ctx.Request.Context(), req)
	if err != nil {
		if errors.Is(err, util.ErrInvalidParent) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, subject)
}
