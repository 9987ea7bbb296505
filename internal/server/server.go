package server

import (
	"ctchen222/Hex/internal/api/controller"
	"ctchen222/Hex/internal/api/response"
	"ctchen222/Hex/internal/hub"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

type Server struct {
	hub         *hub.Hub
	engine      *gin.Engine
	upgrader    websocket.Upgrader
	corsOrigins []string
}

// NewServer builds the gin engine with every API route and the watcher feed.
// An origin of "*" allows any origin.
func NewServer(h *hub.Hub, gc *controller.GameController, uc *controller.UserController, corsOrigins []string) *Server {
	s := &Server{
		hub:         h,
		engine:      gin.New(),
		corsOrigins: corsOrigins,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || s.allowOrigin(origin)
		},
	}

	s.engine.Use(gin.Recovery(), requestLogger(), s.cors())
	s.engine.NoRoute(func(c *gin.Context) {
		response.ErrorResponse(c, http.StatusNotFound, "route not found: "+c.Request.URL.Path)
	})

	api := s.engine.Group("/api")
	api.GET("/health", gc.Health)
	api.GET("/config", gc.Config)

	games := api.Group("/games")
	games.POST("", uc.OptionalAuth(), gc.CreateGame)
	games.GET("", gc.ListGames)
	games.POST("/load", gc.LoadGame)
	games.GET("/:id", gc.GetGame)
	games.DELETE("/:id", gc.DeleteGame)
	games.POST("/:id/moves", gc.MakeMove)
	games.POST("/:id/moves/computer", gc.MakeComputerMove)
	games.GET("/:id/board", gc.Board)
	games.POST("/:id/save", gc.SaveGame)
	games.GET("/:id/stats", gc.GameStats)

	api.GET("/stats", gc.GlobalStats)
	api.GET("/stats/leaderboard", gc.Leaderboard)

	users := api.Group("/users")
	users.POST("/register", uc.Register)
	users.POST("/login", uc.Login)
	users.POST("/guest", uc.GuestLogin)
	users.GET("/me", uc.RequireAuth(), uc.Me)

	s.engine.GET("/ws/games/:id", s.handleWebSocket)
	return s
}

// Engine returns the gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Handler returns the engine wrapped with OpenTelemetry HTTP instrumentation.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.engine, "hex.http")
}

// handleWebSocket upgrades the connection and hands it to the hub as a
// watcher of the game. It returns when the watcher disconnects.
func (s *Server) handleWebSocket(c *gin.Context) {
	gameID := c.Param("id")
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
		attribute.String("game.id", gameID),
	))
	defer span.End()

	if _, err := s.hub.Room(ctx, gameID); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, hub.ErrGameNotFound) {
			code = http.StatusNotFound
		}
		response.ErrorResponse(c, code, err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "Failed to upgrade connection", "game.id", gameID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}
	defer conn.Close()

	if err := s.hub.Watch(ctx, gameID, conn); err != nil {
		slog.WarnContext(ctx, "Watcher ended with error", "game.id", gameID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Watch failed")
	}
}

func (s *Server) allowOrigin(origin string) bool {
	return slices.Contains(s.corsOrigins, "*") || slices.Contains(s.corsOrigins, origin)
}

// cors answers preflight requests and sets the CORS headers for allowed
// origins.
func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && s.allowOrigin(origin) {
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.InfoContext(c.Request.Context(), "HTTP request",
			"http.method", c.Request.Method,
			"http.path", c.Request.URL.Path,
			"http.status", c.Writer.Status(),
			"http.duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
