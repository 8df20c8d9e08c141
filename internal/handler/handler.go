package handler

import (
	"context"
	"net/http"

	"forex-signal-relay/internal/cache"
	"forex-signal-relay/internal/domain"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
)

type Evaluator interface {
	Evaluate(ctx context.Context, raw string) domain.EvaluationResult
}

type StatsReader interface {
	Snapshot(ctx context.Context) (*cache.StatsSnapshot, error)
}

type Handler struct {
	tracer    trace.Tracer
	evaluator Evaluator
	stats     StatsReader
}

func New(tracer trace.Tracer, evaluator Evaluator, stats StatsReader) *Handler {
	return &Handler{
		tracer:    tracer,
		evaluator: evaluator,
		stats:     stats,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/pairs", h.GetPairs)
	r.GET("/api/evaluate/:pair", h.EvaluatePair)
	r.GET("/api/stats", h.GetStats)
}

// NewRouter builds the gin engine with tracing, CORS, request logging and
// swagger UI in front of the API routes.
func NewRouter(h *Handler, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("forex-signal-relay"))
	r.Use(cors.Default())
	r.Use(requestLogger(log))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return r
}

// Health godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Msg("http request")
	}
}
