package controller

import (
	"errors"

	"edu_portal_backend/internal/service"
	"edu_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PaperController struct {
	Assembler    *service.AssemblerService
	PaperService *service.PaperService
}

func NewPaperController(assembler *service.AssemblerService, paperService *service.PaperService) *PaperController {
	return &PaperController{
		Assembler:    assembler,
		PaperService: paperService,
	}
}

// @Summary 查看当前组卷工作区
// @Tags 组卷
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/papers/draft [get]
func (c *PaperController) GetDraft(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, c.Assembler.Draft(claims.UserID))
}

// swagger:model DraftAddRequest
type DraftAddRequest struct {
	QuestionID uint `json:"questionId" binding:"required"`
}

// @Summary 选题入卷
// @Description 重复加入同一题目是幂等操作；子题不可单独入卷
// @Tags 组卷
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body DraftAddRequest true "题目"
// @Success 200 {object} util.Response
// @Router /api/papers/draft/questions [post]
func (c *PaperController) AddQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req DraftAddRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	draft, err := c.Assembler.AddQuestion(claims.UserID, req.QuestionID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrChildNotSelectable):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, draft)
}

// @Summary 移出选题
// @Tags 组卷
// @Produce json
// @Security ApiKeyAuth
// @Param questionId path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/papers/draft/questions/{questionId} [delete]
func (c *PaperController) RemoveQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	questionID := util.MustParseUint(ctx.Param("questionId"))
	util.Success(ctx, c.Assembler.RemoveQuestion(claims.UserID, questionID))
}

// @Summary 清空组卷工作区
// @Tags 组卷
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/papers/draft [delete]
func (c *PaperController) ClearDraft(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	c.Assembler.Clear(claims.UserID)
	util.Success(ctx, gin.H{"cleared": true})
}

// @Summary 保存试卷
// @Description 落库为不可变快照；标题必填，空卷允许保存；成功后清空工作区
// @Tags 组卷
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SavePaperRequest true "试卷信息"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response "标题为空"
// @Router /api/papers [post]
func (c *PaperController) Save(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SavePaperRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	paper, err := c.Assembler.Save(claims.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrEmptyPaperTitle) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, paper)
}

// @Summary 获取我的试卷列表
// @Tags 组卷
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /api/papers [get]
func (c *PaperController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page := int(util.MustParseUint(ctx.DefaultQuery("page", "1")))
	limit := int(util.MustParseUint(ctx.DefaultQuery("limit", "20")))

	papers, total, err := c.PaperService.ListByUser(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: papers, Total: total, Page: page, Limit: limit})
}

// @Summary 获取试卷详情
// @Tags 组卷
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "试卷ID"
// @Success 200 {object} util.Response
// @Router /api/papers/{id} [get]
func (c *PaperController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	paper, err := c.PaperService.Get(id)
	if err != nil {
		if errors.Is(err, util.ErrPaperNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, paper)
}

// @Summary 编辑已保存的试卷
// @Description 把试卷快照读回组卷工作区，重新进入组卷模式
// @Tags 组卷
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "试卷ID"
// @Success 200 {object} util.Response
// @Router /api/papers/{id}/edit [post]
func (c *PaperController) Edit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	draft, err := c.Assembler.LoadPaper(claims.UserID, id)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPaperNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, draft)
}

// @Summary 删除试卷
// @Tags 组卷
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "试卷ID"
// @Success 200 {object} util.Response
// @Router /api/papers/{id} [delete]
func (c *PaperController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	if err := c.PaperService.Delete(claims.UserID, id); err != nil {
		switch {
		case errors.Is(err, util.ErrPaperNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}
