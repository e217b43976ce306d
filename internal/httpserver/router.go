package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"productsmgmt/internal/domain"
	"productsmgmt/internal/logging"
	"productsmgmt/internal/metrics"
	productsvc "productsmgmt/internal/service/product"
	"productsmgmt/internal/validation"
)

// ProductService is the catalog behaviour the handlers depend on.
type ProductService interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByCode(ctx context.Context, code string) (*domain.Product, error)
	List(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Product], error)
	Create(ctx context.Context, in productsvc.CreateInput) (*domain.Product, error)
}

// Deps bundles what the router needs beyond the logger and database.
type Deps struct {
	ProductSvc  ProductService
	Users       *UserStore
	Metrics     *metrics.Metrics
	CORSOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *logrus.Logger, db Pinger, deps Deps) (*gin.Engine, error) {
	if deps.ProductSvc == nil {
		return nil, errors.New("httpserver: product service is required")
	}
	if deps.Users == nil {
		return nil, errors.New("httpserver: user store is required")
	}

	logger = logging.OrDiscard(logger)
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		requestIDMiddleware(),
		accessLogMiddleware(logger),
		gin.CustomRecovery(recoveryHandler(logger)),
		cors.New(corsConfig(deps.CORSOrigins)),
		metricsMiddleware(deps.Metrics),
	)
	router.NoRoute(func(c *gin.Context) {
		writeMessage(c, http.StatusNotFound, "no handler found for "+c.Request.Method+" "+c.Request.URL.Path)
	})

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	h := &productHandler{svc: deps.ProductSvc, validator: validation.New(), logger: logger}
	products := router.Group("/products", basicAuthMiddleware(deps.Users))
	products.POST("", requireRole(RoleAdmin), h.create)
	products.GET("", h.list)
	products.GET("/by-id/:id", h.getByID)
	products.GET("/by-code/:code", h.getByCode)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders: []string{"Location", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
