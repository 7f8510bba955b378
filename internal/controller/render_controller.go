package controller

import (
	"errors"
	"fmt"

	"edu_portal_backend/internal/model"
	"edu_portal_backend/internal/service"
	"edu_portal_backend/internal/util"
	"edu_portal_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type RenderController struct {
	RenderService *service.RenderService
	PrintService  *service.PrintService
	LinkService   *service.LinkService
	PaperService  *service.PaperService
}

func NewRenderController(renderService *service.RenderService, printService *service.PrintService, linkService *service.LinkService, paperService *service.PaperService) *RenderController {
	return &RenderController{
		RenderService: renderService,
		PrintService:  printService,
		LinkService:   linkService,
		PaperService:  paperService,
	}
}

// sessionKey 决定练习状态归属：登录用户跟随账号，
// 匿名查看者用显式传入的会话键，兜底退到客户端 IP。
func sessionKey(ctx *gin.Context) string {
	if claims := util.GetUserFromContext(ctx); claims != nil {
		return fmt.Sprintf("user:%d", claims.UserID)
	}
	if key := ctx.Query("sessionKey"); key != "" {
		return "anon:" + key
	}
	return "ip:" + ctx.ClientIP()
}

func viewerEntitled(ctx *gin.Context) bool {
	claims := util.GetUserFromContext(ctx)
	return claims != nil && claims.Entitled
}

// @Summary 渲染资源题组
// @Description 按资源的题目顺序渲染；mode 可选 interactive、print_blank、print_solved
// @Tags 渲染
// @Produce json
// @Param id path int true "资源ID"
// @Param mode query string false "渲染模式"
// @Param sessionKey query string false "匿名练习会话键"
// @Success 200 {object} util.Response
// @Router /api/render/resources/{id} [get]
func (c *RenderController) RenderResource(ctx *gin.Context) {
	mode, err := service.ParseRenderMode(ctx.Query("mode"))
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

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

	questions := service.QuestionsFromLinks(links)
	states := map[uint]service.QuestionState{}
	if mode == service.ModeInteractive {
		states = c.RenderService.States(ctx.Request.Context(), sessionKey(ctx))
	}
	util.Success(ctx, c.RenderService.Render(questions, states, mode, viewerEntitled(ctx)))
}

// swagger:model SelectOptionRequest
type SelectOptionRequest struct {
	QuestionID  uint `json:"questionId" binding:"required"`
	OptionIndex *int `json:"optionIndex" binding:"required"`
}

// @Summary 练习作答
// @Description 首次选择即揭示并定格答案；重复提交返回最早记录的选择
// @Tags 渲染
// @Accept json
// @Produce json
// @Param sessionKey query string false "匿名练习会话键"
// @Param body body SelectOptionRequest true "作答"
// @Success 200 {object} util.Response
// @Router /api/render/select [post]
func (c *RenderController) SelectOption(ctx *gin.Context) {
	var req SelectOptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	state, err := c.RenderService.SelectOption(ctx.Request.Context(), sessionKey(ctx), req.QuestionID, *req.OptionIndex)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, state)
}

// @Summary 渲染已保存的试卷
// @Tags 渲染
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "试卷ID"
// @Param mode query string false "渲染模式"
// @Success 200 {object} util.Response
// @Router /api/render/papers/{id} [get]
func (c *RenderController) RenderPaper(ctx *gin.Context) {
	mode, err := service.ParseRenderMode(ctx.Query("mode"))
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	_, questions, ok := c.loadPaperSnapshot(ctx)
	if !ok {
		return
	}

	states := map[uint]service.QuestionState{}
	if mode == service.ModeInteractive {
		states = c.RenderService.States(ctx.Request.Context(), sessionKey(ctx))
	}
	util.Success(ctx, c.RenderService.Render(questions, states, mode, viewerEntitled(ctx)))
}

// @Summary 导出试卷打印稿
// @Description mode 取 print_blank 或 print_solved；返回分页后的纯文本版面
// @Tags 渲染
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "试卷ID"
// @Param mode query string false "打印模式，默认 print_blank"
// @Success 200 {object} util.Response
// @Router /api/render/papers/{id}/print [get]
func (c *RenderController) PrintPaper(ctx *gin.Context) {
	modeParam := ctx.DefaultQuery("mode", string(service.ModePrintBlank))
	mode, err := service.ParseRenderMode(modeParam)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if mode == service.ModeInteractive {
		util.BadRequest(ctx, "print export requires a print mode")
		return
	}

	paper, questions, ok := c.loadPaperSnapshot(ctx)
	if !ok {
		return
	}

	result := c.RenderService.Render(questions, nil, mode, viewerEntitled(ctx))
	doc := c.PrintService.BuildDocument(paper.Title, paper.InstituteName, paper.Duration, paper.TotalMarks, paper.SettingsValue(), result)
	monitoring.PrintExports.WithLabelValues(string(mode)).Inc()
	util.Success(ctx, doc)
}

// loadPaperSnapshot 读取试卷并校验归属，失败时已写好响应。
func (c *RenderController) loadPaperSnapshot(ctx *gin.Context) (*model.ExamPaper, []model.PaperQuestion, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return nil, nil, false
	}

	paper, err := c.PaperService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrPaperNotFound) {
			util.NotFound(ctx)
			return nil, nil, false
		}
		util.LogInternalError(ctx, err)
		return nil, nil, false
	}
	if paper.UserID != claims.UserID {
		util.Forbidden(ctx)
		return nil, nil, false
	}

	questions, err := paper.QuestionList()
	if err != nil {
		util.LogInternalError(ctx, err)
		return nil, nil, false
	}
	return paper, questions, true
}
