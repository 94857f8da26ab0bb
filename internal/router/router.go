package router

import (
	"fmt"

	"github.com/Ladybert/web-api-client/internal/handler"
	"github.com/Ladybert/web-api-client/internal/media"
	mid "github.com/Ladybert/web-api-client/internal/middleware"
	"github.com/Ladybert/web-api-client/internal/response"
	"github.com/Ladybert/web-api-client/internal/validation"
	"github.com/Ladybert/web-api-client/pkg/config"
	"github.com/Ladybert/web-api-client/pkg/logger"
	appmetrics "github.com/Ladybert/web-api-client/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Deps are the resources the HTTP server is built from
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Registry *prometheus.Registry
}

type resource interface {
	List(c echo.Context) error
	Create(c echo.Context) error
	Get(c echo.Context) error
	Update(c echo.Context) error
	Delete(c echo.Context) error
}

// New builds the echo instance with every route and middleware
func New(d Deps) (*echo.Echo, error) {
	cfg := d.Config
	metrics := appmetrics.NewMetrics(cfg.Metrics.Prefix, d.Registry)

	storage, err := media.NewLocalStorage(cfg.Media.Root)
	if err != nil {
		return nil, fmt.Errorf("init media storage: %w", err)
	}
	manager := media.NewManager(storage, cfg.Media.PublicPrefix, metrics)

	deps := handler.Deps{
		DB:          d.DB,
		Validator:   validation.New(d.DB),
		Media:       manager,
		Metrics:     metrics,
		PageSize:    cfg.Pagination.PageSize,
		MaxUploadKB: cfg.Media.MaxUploadKB,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = response.HTTPErrorHandler

	// Multipart updates arrive as POST with _method=PUT
	e.Pre(middleware.MethodOverrideWithConfig(middleware.MethodOverrideConfig{
		Getter: middleware.MethodFromForm("_method"),
	}))

	// Recover stays inside the logger and metrics middleware
	e.Use(mid.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(mid.MetricsMiddleware(metrics))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	e.GET("/health", handler.NewHealthHandler(d.DB).Check)
	e.Static("/"+manager.PublicPrefix(), storage.Root())

	api := e.Group("/api")
	register(api.Group("/unit-type"), handler.NewUnitTypeHandler(deps))
	register(api.Group("/unit"), handler.NewUnitHandler(deps))
	register(api.Group("/residential-estate"), handler.NewResidentialEstateHandler(deps))

	return e, nil
}

func register(g *echo.Group, r resource) {
	g.GET("", r.List)
	g.GET("/index", r.List)
	g.POST("", r.Create)
	g.GET("/:id", r.Get)
	g.PUT("/:id", r.Update)
	g.PATCH("/:id", r.Update)
	g.DELETE("/:id", r.Delete)
}
