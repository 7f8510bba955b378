package controller

import (
	"errors"

	"edu_portal_backend/internal/model"
	"edu_portal_backend/internal/repository"
	"edu_portal_backend/internal/service"
	"edu_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResourceController struct {
	LinkService  *service.LinkService
	ResourceRepo *repository.ResourceRepository
}

func NewResourceController(linkService *service.LinkService, resourceRepo *repository.ResourceRepository) *ResourceController {
	return &ResourceController{
		LinkService:  linkService,
		ResourceRepo: resourceRepo,
	}
}

// swagger:model ResourceRequest
type ResourceRequest struct {
	Title   string `json:"title" binding:"required"`
	Slug    string `json:"slug" binding:"required"`
	Summary string `json:"summary"`
}

// @Summary 创建内容资源
// @Tags 资源
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ResourceRequest true "资源信息"
// @Success 201 {object} util.Response
// @Router /api/resources [post]
func (c *ResourceController) Create(ctx *gin.Context) {
	var req ResourceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	resource := &model.Resource{
		Title:    req.Title,
		Slug:     req.Slug,
		Summary:  req.Summary,
		AuthorID: claims.UserID,
	}
	if err := c.ResourceRepo.Create(resource); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, resource)
}

// @Summary 获取资源挂载的题目列表
// @Description 按 order_index 升序返回关联题目
// @Tags 资源
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "资源ID"
// @Success 200 {object} util.Response
// @Router /api/resources/{id}/questions [get]
func (c *ResourceController) ListQuestions(ctx *gin.Context) {
	resourceID := util.MustParseUint(ctx.Param("id"))
	links, err := c.LinkService.List(resourceID)
	if err != nil {
		if errors.Is(err, util.ErrResourceNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, links)
}

// swagger:model LinkRequest
type LinkRequest struct {
	QuestionID uint `json:"questionId" binding:"required"`
}

// @Summary 挂载题目到资源
// @Description 重复挂载返回409，调用方应跳过继续；序号由服务端事务内分配
// @Tags 资源
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "资源ID"
// @Param body body LinkRequest true "题目"
// @Success 201 {object} util.Response
// @Failure 409 {object} util.Response "题目已挂载"
// @Router /api/resources/{id}/questions [post]
func (c *ResourceController) Link(ctx *gin.Context) {
	resourceID := util.MustParseUint(ctx.Param("id"))
	var req LinkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	link, err := c.LinkService.Link(resourceID, req.QuestionID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrDuplicateLink):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrResourceNotFound), errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrChildNotSelectable):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, link)
}

// swagger:model BulkLinkRequest
type BulkLinkRequest struct {
	QuestionIDs []uint `json:"questionIds" binding:"required"`
}

// @Summary 批量挂载题目
// @Description 已挂载的题目跳过不中断，返回挂载与跳过明细
// @Tags 资源
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "资源ID"
// @Param body body BulkLinkRequest true "题目列表"
// @Success 200 {object} util.Response
// @Router /api/resources/{id}/questions/bulk [post]
func (c *ResourceController) BulkLink(ctx *gin.Context) {
	resourceID := util.MustParseUint(ctx.Param("id"))
	var req BulkLinkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.LinkService.BulkLink(resourceID, req.QuestionIDs)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrResourceNotFound), errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrChildNotSelectable):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// @Summary 解除题目挂载
// @Description 只删除关联行，题目本身保留在题库
// @Tags 资源
// @Produce json
// @Security ApiKeyAuth
// @Param linkId path int true "关联ID"
// @Success 200 {object} util.Response
// @Router /api/resources/questions/{linkId} [delete]
func (c *ResourceController) Unlink(ctx *gin.Context) {
	linkID := util.MustParseUint(ctx.Param("linkId"))
	if err := c.LinkService.Unlink(linkID); err != nil {
		if errors.Is(err, util.ErrLinkNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": linkID})
}

// swagger:model ReorderRequest
type ReorderRequest struct {
	LinkIDs []uint `json:"linkIds" binding:"required"`
}

// @Summary 重排资源下的题目顺序
// @Description 传入的关联ID必须恰好覆盖该资源现有全部关联
// @Tags 资源
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "资源ID"
// @Param body body ReorderRequest true "新顺序"
// @Success 200 {object} util.Response
// @Router /api/resources/{id}/questions/reorder [put]
func (c *ResourceController) Reorder(ctx *gin.Context) {
	resourceID := util.MustParseUint(ctx.Param("id"))
	var req ReorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.LinkService.Reorder(resourceID, req.LinkIDs); err != nil {
		if errors.Is(err, util.ErrLinkNotFound) {
			util.BadRequest(ctx, "link ids do not match resource links")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"reordered": len(req.LinkIDs)})
}
