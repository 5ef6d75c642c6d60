package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/ignatzorin/projexnest-backend/internal/config"
	"github.com/ignatzorin/projexnest-backend/internal/http/handlers"
	"github.com/ignatzorin/projexnest-backend/internal/http/middleware"
	"github.com/ignatzorin/projexnest-backend/internal/interface/http/handler"
	"github.com/ignatzorin/projexnest-backend/internal/interface/http/response"
	"github.com/ignatzorin/projexnest-backend/internal/logger"
)

// Dependencies всё, что нужно для сборки маршрутов.
type Dependencies struct {
	Tokens         middleware.AccessTokenParser
	RateLimitStore limiter.Store

	Organizations *handler.OrganizationHandler
	Proposals     *handler.ProposalHandler
	Signing       *handler.SigningHandler

	Health *handlers.HealthHandler
	WS     *handlers.WSHandler
	// Seed подключается только в development.
	Seed *handlers.SeedHandler
}

func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Без доверенных прокси ClientIP берётся из адреса соединения.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Component("http").WithError(err).Warn("некорректный TRUSTED_PROXIES, заголовки прокси игнорируются")
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "маршрут не найден")
	})

	if deps.Health != nil {
		r.GET("/health", deps.Health.Health)
	}

	api := r.Group("/api")
	if deps.WS != nil {
		api.GET("/ws", deps.WS.Handle)
	}

	// Публичные маршруты подписанта.
	public := api.Group("/public")
	public.Use(middleware.RateLimitMiddleware(deps.RateLimitStore, cfg.RateLimitLimit, cfg.RateLimitPeriod))
	public.Use(middleware.Timeout(cfg.StoreTimeout))
	{
		public.GET("/proposals/:token", deps.Signing.GetPublicProposal)
		public.POST("/proposals/sign", deps.Signing.SignPublicProposal)
	}

	workflow := api.Group("/workflow")
	workflow.Use(middleware.AuthMiddleware(deps.Tokens))

	store := workflow.Group("")
	store.Use(middleware.Timeout(cfg.StoreTimeout))
	{
		orgs := deps.Organizations
		store.POST("/organizations", orgs.CreateOrganization)
		store.GET("/organizations", orgs.ListOrganizations)

		store.POST("/clients", orgs.CreateClient)
		store.GET("/clients", orgs.ListClients)
		store.PUT("/clients/:id", middleware.UUIDValidator("id"), orgs.UpdateClient)

		store.POST("/projects", orgs.CreateProject)
		store.GET("/projects", orgs.ListProjects)
		store.PUT("/projects/:id", middleware.UUIDValidator("id"), orgs.UpdateProject)
		store.POST("/projects/:id/complete", middleware.UUIDValidator("id"), orgs.CompleteProject)

		store.POST("/templates", orgs.CreateTemplate)
		store.GET("/templates", orgs.ListTemplates)

		props := deps.Proposals
		store.POST("/proposals", props.CreateProposal)
		store.GET("/proposals", props.ListProposals)
		store.POST("/proposals/draft", props.SaveDraft)
		store.GET("/proposals/:id", middleware.UUIDValidator("id"), props.GetProposal)

		store.POST("/signing-links", deps.Signing.CreateSigningLink)

		if deps.Seed != nil && cfg.IsDevelopment() {
			store.POST("/seed", deps.Seed.Seed)
		}
	}

	// Печать PDF получает собственный бюджет поверх обращений к хранилищу.
	exports := workflow.Group("")
	exports.Use(middleware.Timeout(cfg.StoreTimeout + cfg.PDFTimeout))
	{
		props := deps.Proposals
		exports.GET("/proposals/:id/pdf", middleware.UUIDValidator("id"), props.ExportPDF)
		exports.POST("/proposals/:id/pdf/archive", middleware.UUIDValidator("id"), props.ArchivePDF)
	}

	return r
}
