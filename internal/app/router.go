package app

import (
	"edu_portal_backend/docs"
	"edu_portal_backend/internal/config"
	"edu_portal_backend/internal/middleware"
	"edu_portal_backend/internal/model"

	"edu_portal_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 渲染路由：游客可练习，登录用户带权益渲染
	a.registerRenderRoutes(router, c, cfg)

	// 3. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerUserRoutes(authGroup, c)
		a.registerEditorRoutes(authGroup, c)
	}

	// 4. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 分级目录是逐级下钻的公开导航
		taxonomy := public.Group("/taxonomy")
		{
			taxonomy.GET("/segments", c.taxonomy.ListSegments)
			taxonomy.GET("/segments/:id/groups", c.taxonomy.ListGroups)
			taxonomy.GET("/groups/:id/subjects", c.taxonomy.ListSubjects)
		}
	}
}

func (a *App) registerRenderRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	render := router.Group("/api/render")
	render.Use(middleware.TryAuthMiddleware(cfg))
	{
		render.GET("/resources/:id", c.render.RenderResource)
		render.POST("/select", c.render.SelectOption)
	}

	// 试卷渲染与打印只对试卷所有者开放
	paperRender := router.Group("/api/render/papers")
	paperRender.Use(middleware.AuthMiddleware(cfg))
	{
		paperRender.GET("/:id", c.render.RenderPaper)
		paperRender.GET("/:id/print", c.render.PrintPaper)
	}
}

func (a *App) registerUserRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	rg.GET("/questions", c.question.Search)
	rg.GET("/questions/:id", c.question.Get)
	rg.GET("/resources/:id/questions", c.resource.ListQuestions)

	// 组卷工作区与试卷
	rg.GET("/papers/draft", c.paper.GetDraft)
	rg.POST("/papers/draft/questions", c.paper.AddQuestion)
	rg.DELETE("/papers/draft/questions/:questionId", c.paper.RemoveQuestion)
	rg.DELETE("/papers/draft", c.paper.ClearDraft)
	rg.POST("/papers", c.paper.Save)
	rg.GET("/papers", c.paper.List)
	rg.GET("/papers/:id", c.paper.Get)
	rg.POST("/papers/:id/edit", c.paper.Edit)
	rg.DELETE("/papers/:id", c.paper.Delete)
}

func (a *App) registerEditorRoutes(rg *gin.RouterGroup, c *controllers) {
	editor := rg.Group("")
	editor.Use(middleware.RoleMiddleware(model.Editor))
	{
		editor.POST("/questions", c.question.Create)
		editor.PUT("/questions/:id", c.question.Update)
		editor.DELETE("/questions/:id", c.question.Delete)
		editor.POST("/questions/image", c.question.UploadImage)

		editor.POST("/resources", c.resource.Create)
		editor.POST("/resources/:id/questions", c.resource.Link)
		editor.POST("/resources/:id/questions/bulk", c.resource.BulkLink)
		editor.DELETE("/resources/questions/:linkId", c.resource.Unlink)
		editor.PUT("/resources/:id/questions/reorder", c.resource.Reorder)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/taxonomy/segments", c.taxonomy.CreateSegment)
		admin.POST("/taxonomy/groups", c.taxonomy.CreateGroup)
		admin.POST("/taxonomy/subjects", c.taxonomy.CreateSubject)
	}
}
