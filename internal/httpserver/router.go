package httpserver

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/premieratx/party-on-delivery-sub002/internal/domain"
)

// Deps are the collaborators the handlers need.
type Deps struct {
	OrderRepo  orderRepo
	ReportRepo reportRepo
}

type orderRepo interface {
	GetByShareToken(ctx context.Context, shareToken string) (*domain.SharedOrder, error)
}

type reportRepo interface {
	Insert(ctx context.Context, in domain.CartReport) (*domain.CartReport, error)
	ListRecent(ctx context.Context, limit int) ([]domain.CartReport, error)
}

// buildRouter wires routes for the collector and lookup API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	// Reports come straight from storefront browsers.
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	v1 := router.Group("/v1")
	v1.GET("/group-orders/:token", getGroupOrderHandler(deps.OrderRepo))
	v1.POST("/telemetry/carts", postCartReportHandler(deps.ReportRepo, logger))
	v1.GET("/telemetry/carts", listCartReportsHandler(deps.ReportRepo))

	return router
}
