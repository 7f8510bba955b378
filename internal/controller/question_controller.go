package controller

import (
	"errors"

	"edu_portal_backend/internal/service"
	"edu_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	Service        *service.QuestionService
	StorageService *service.StorageService
}

func NewQuestionController(svc *service.QuestionService, storage *service.StorageService) *QuestionController {
	return &QuestionController{Service: svc, StorageService: storage}
}

// @Summary 题库检索
// @Description 按分类与关键字检索顶层题目，passage 题连同子题返回；最多50条
// @Tags 题库
// @Produce json
// @Security ApiKeyAuth
// @Param segmentId query int false "学段ID"
// @Param groupId query int false "分组ID"
// @Param subjectId query int false "科目ID"
// @Param text query string false "题干关键字（不区分大小写的包含匹配）"
// @Param limit query int false "结果上限，默认50"
// @Success 200 {object} util.Response
// @Router /api/questions [get]
func (c *QuestionController) Search(ctx *gin.Context) {
	var req service.QuestionSearchRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	questions, err := c.Service.Search(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// @Summary 获取题目详情
// @Tags 题库
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/questions/{id} [get]
func (c *QuestionController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	question, err := c.Service.Get(id)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// @Summary 创建题目
// @Description mcq 至少一个正确选项；passage 可携带子题，子题不允许再嵌套
// @Tags 题库
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.QuestionRequest true "题目信息"
// @Success 201 {object} util.Response
// @Router /api/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.Service.Create(req)
	if err != nil {
		if errors.Is(err, util.ErrNoCorrectOption) || errors.Is(err, util.ErrInvalidParent) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// @Summary 更新题目
// @Tags 题库
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Param body body service.QuestionRequest true "题目信息"
// @Success 200 {object} util.Response
// @Router /api/questions/{id} [put]
func (c *QuestionController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.Service.Update(id, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNoCorrectOption), errors.Is(err, util.ErrInvalidParent):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, question)
}

// @Summary 删除题目
// @Description passage 题连同子题与选项一并删除；已保存试卷的快照不受影响
// @Tags 题库
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/questions/{id} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if err := c.Service.Delete(id); err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}

// @Summary 上传题目配图
// @Tags 题库
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "图片文件"
// @Success 200 {object} util.Response
// @Router /api/questions/image [post]
func (c *QuestionController) UploadImage(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	url, err := c.StorageService.UploadQuestionImage(ctx.Request.Context(), file)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, gin.H{"url": url})
}
