package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	authdomain "github.com/smallbiznis/gardenwatch/internal/auth/domain"
	"github.com/smallbiznis/gardenwatch/internal/auth/session"
	"github.com/smallbiznis/gardenwatch/internal/authorization"
	"github.com/smallbiznis/gardenwatch/internal/cache"
	"github.com/smallbiznis/gardenwatch/internal/config"
	keyworddomain "github.com/smallbiznis/gardenwatch/internal/keyword/domain"
	milestonedomain "github.com/smallbiznis/gardenwatch/internal/milestone/domain"
	"github.com/smallbiznis/gardenwatch/internal/observability"
	obsmiddleware "github.com/smallbiznis/gardenwatch/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/gardenwatch/internal/observability/metrics"
	obstracing "github.com/smallbiznis/gardenwatch/internal/observability/tracing"
	profiledomain "github.com/smallbiznis/gardenwatch/internal/profile/domain"
	"github.com/smallbiznis/gardenwatch/internal/ratelimit"
	subscriptiondomain "github.com/smallbiznis/gardenwatch/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		SlowThreshold:   obsCfg.SlowRequestThreshold,
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.SetHTMLTemplate(template.Must(
		template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"),
	))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

// authLimiter throttles credential endpoints per client address.
type authLimiter interface {
	AllowSignIn(ctx context.Context, clientIP string) (*ratelimit.RateLimitResult, error)
	AllowSignUp(ctx context.Context, clientIP string) (*ratelimit.RateLimitResult, error)
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	log             *zap.Logger
	authsvc         authdomain.Service
	sessions        *session.Manager
	caches          *cache.Registry
	authzSvc        authorization.Service
	keywordSvc      keyworddomain.Service
	milestoneSvc    milestonedomain.Service
	subscriptionSvc subscriptiondomain.Service
	profileSvc      profiledomain.Service
	limiter         authLimiter
	obsMetrics      *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Log             *zap.Logger
	Authsvc         authdomain.Service
	Sessions        *session.Manager
	Caches          *cache.Registry
	AuthzSvc        authorization.Service
	KeywordSvc      keyworddomain.Service
	MilestoneSvc    milestonedomain.Service
	SubscriptionSvc subscriptiondomain.Service
	ProfileSvc      profiledomain.Service
	Limiter         *ratelimit.AuthLimiter
	ObsMetrics      *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	return newServer(p, p.Limiter)
}

func newServer(p ServerParams, limiter authLimiter) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("http.server"),
		authsvc:         p.Authsvc,
		sessions:        p.Sessions,
		caches:          p.Caches,
		authzSvc:        p.AuthzSvc,
		keywordSvc:      p.KeywordSvc,
		milestoneSvc:    p.MilestoneSvc,
		subscriptionSvc: p.SubscriptionSvc,
		profileSvc:      p.ProfileSvc,
		limiter:         limiter,
		obsMetrics:      p.ObsMetrics,
	}

	svc.engine.Use(svc.LoadSession())

	svc.registerUIRoutes()
	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerUIRoutes() {
	r := s.engine

	r.GET("/", s.Dashboard)
	r.GET("/about", s.About)
	r.GET("/community", s.Community)
	r.GET("/verify", s.VerifyEmail)

	r.POST("/login", s.AuthRateLimit(actionSignIn), s.Login)
	r.POST("/register", s.AuthRateLimit(actionSignUp), s.Register)
	r.POST("/logout", s.Logout)

	web := r.Group("/", s.WebAuthRequired())
	{
		web.POST("/profile/notification-id", s.SaveNotificationID)
		web.POST("/profile/refresh", s.RefreshProfile)
		web.POST("/subscriptions", s.SaveSubscriptions)
		web.POST("/subscriptions/refresh", s.RefreshSubscriptions)
		web.POST("/cache/clear", s.ClearCache)
	}
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.GET("/keywords", s.APIListKeywords)
	api.GET("/community/progress", s.APICommunityProgress)

	me := api.Group("/me", s.APIAuthRequired())
	{
		me.GET("", s.APIMe)
		me.PUT("/notification-id", s.APISetNotificationID)
		me.GET("/subscriptions", s.APIListSubscriptions)
		me.PUT("/subscriptions", s.APISaveSubscriptions)
	}
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/api/admin", s.APIAuthRequired())

	admin.POST("/keywords", s.authorizeAction(authorization.ObjectKeyword, authorization.ActionKeywordCreate), s.AdminCreateKeyword)
	admin.DELETE("/keywords/:id", s.authorizeAction(authorization.ObjectKeyword, authorization.ActionKeywordDelete), s.AdminDeleteKeyword)
	admin.PUT("/milestones", s.authorizeAction(authorization.ObjectMilestone, authorization.ActionMilestoneUpsert), s.AdminUpsertMilestone)
	admin.DELETE("/milestones/:threshold", s.authorizeAction(authorization.ObjectMilestone, authorization.ActionMilestoneDelete), s.AdminDeleteMilestone)
}
