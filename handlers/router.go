package handlers

import (
	"context"
	"net/http"
	"slices"
	"time"

	"gamevault/config"
	"gamevault/middleware"
	"gamevault/monitoring"
	"gamevault/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const BaseURL = "/api/v2/"

// RouterConfig carries everything the HTTP layer needs.
type RouterConfig struct {
	Games *service.GameService
	Log   *logrus.Logger
	CORS  config.CORSConfig
	// Health reports whether the store is reachable; nil means always healthy.
	Health func(ctx context.Context) error
	// Metrics is served on /metrics when set.
	Metrics prometheus.Gatherer
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(cfg.Log))
	r.Use(middleware.ErrorLogger(cfg.Log))
	r.Use(monitoring.PrometheusMiddleware())
	r.Use(middleware.SecurityHeaders())
	if cfg.CORS.Enabled {
		r.Use(cors.New(corsConfig(cfg.CORS)))
	}

	h := NewGameHandler(cfg.Games)

	r.GET("/", Home)
	r.GET("/healthz", healthz(cfg.Health))
	if cfg.Metrics != nil {
		r.GET("/metrics", monitoring.PrometheusHandler(cfg.Metrics))
	}

	api := r.Group(BaseURL)
	{
		api.POST("/add_game", h.CreateGame)
		api.PATCH("/change_game/:id", h.UpdateGame)
		api.GET("/show_games", h.GetGames)
		api.GET("/show_game/:id", h.GetGameByID)
		api.DELETE("/delete_game/:id", h.DeleteGame)
	}

	return r
}

func corsConfig(c config.CORSConfig) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(c.AllowOrigins) == 0 || slices.Contains(c.AllowOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = c.AllowOrigins
		cfg.AllowCredentials = true
	}
	return cfg
}

func healthz(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
