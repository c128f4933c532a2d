package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/riahunter/backend/docs"
	"github.com/riahunter/backend/internal/app/api/handlers"
	"github.com/riahunter/backend/internal/app/service/directory"
	"github.com/riahunter/backend/internal/app/service/ledger"
	"github.com/riahunter/backend/internal/app/service/statistics"
	subsvc "github.com/riahunter/backend/internal/app/service/subscription"
	"github.com/riahunter/backend/internal/app/service/support"
	"github.com/riahunter/backend/internal/app/service/webhook"
	"github.com/riahunter/backend/internal/ratelimit"
	cfgpkg "github.com/riahunter/backend/pkg/config"

	mw "github.com/riahunter/backend/internal/app/api/middleware"

	metrics "github.com/riahunter/backend/pkg/metrics"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

type routeDeps struct {
	fx.In

	Engine    *gin.Engine
	Log       *zap.SugaredLogger
	Cfg       *cfgpkg.Config
	Ledger    *ledger.Service
	Sub       *subsvc.Service
	Stripe    *webhook.StripeHandler
	Support   *support.Service
	Directory *directory.Service
	Stats     *statistics.Service
	Limiter   *ratelimit.SearchLimiter
}

func registerRoutes(d routeDeps) {
	r, log, cfg := d.Engine, d.Log, d.Cfg

	// Prometheus metrics
	if cfg != nil && cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: log,
		})
		p.SetListenAddress(cfg.MetricsAddr)
		p.Use(r)

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(log))
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Billing webhooks are authenticated by event payload, not bearer tokens
	webhooks := r.Group("/api/v1/webhook")
	webhooks.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(log))
	handlers.RegisterWebhookRoutes(webhooks, d.Stripe)

	// Protected group using auth middleware
	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(log), mw.AuthMiddleware(cfg))
	handlers.RegisterCreditRoutes(apiV1, d.Ledger, d.Sub)
	handlers.RegisterDirectoryRoutes(apiV1, cfg, d.Directory, d.Ledger, d.Sub, d.Limiter, log)

	// Admin APIs
	admin := apiV1.Group("/admin")
	admin.Use(mw.AdminOnly())
	handlers.RegisterAdminRoutes(admin, d.Ledger, d.Stats, d.Support, d.Directory)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
