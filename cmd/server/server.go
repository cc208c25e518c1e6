package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/ollama/ollama/api"
	"github.com/teamkrews/krews-chat/internal/config"
	"github.com/teamkrews/krews-chat/internal/database"
	"github.com/teamkrews/krews-chat/internal/handlers"
	"github.com/teamkrews/krews-chat/internal/services"
	"github.com/teamkrews/krews-chat/internal/telemetry"
	ws "github.com/teamkrews/krews-chat/internal/websocket"
	"github.com/teamkrews/krews-chat/pkg/auth"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Hub        *ws.Hub

	cfg      *config.Config
	shutdown telemetry.Shutdown
}

func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	shutdown := telemetry.Shutdown(telemetry.Noop)
	if cfg.OTelEnabled {
		var err error
		if shutdown, err = telemetry.Init(ctx, cfg.OTelServiceName); err != nil {
			return nil, fmt.Errorf("init telemetry: %w", err)
		}
	}

	dbConn := &database.Database{}
	if err := dbConn.Connect(cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}

	ollamaURL, err := url.Parse(cfg.OllamaHost)
	if err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_HOST: %w", err)
	}
	ollama := api.NewClient(ollamaURL, http.DefaultClient)

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	hub := ws.NewHub()

	deps := Dependencies{
		DB:         dbConn,
		Redis:      rdb,
		JWTManager: jwtMgr,
		Hub:        hub,
		Generator:  ollama,
		Model:      cfg.TeamNameModel,
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	APIEndpoints(router, NewHandlers(deps), jwtMgr, rdb)

	return &Server{
		Router:     router,
		DB:         dbConn,
		Redis:      rdb,
		JWTManager: jwtMgr,
		Hub:        hub,
		cfg:        cfg,
		shutdown:   shutdown,
	}, nil
}

// Dependencies are the collaborators every handler is built from.
type Dependencies struct {
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Hub        *ws.Hub
	Generator  services.TextGenerator
	Model      string
}

type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Workspace *handlers.WorkspaceHandler
	ChatRoom  *handlers.ChatRoomHandler
	Message   *handlers.HTTPMessageHandler
	TeamName  *handlers.TeamNameHandler
	WebSocket *handlers.WebSocketHandler
}

func NewHandlers(d Dependencies) *Handlers {
	users := services.NewUserService(d.DB, d.JWTManager)
	workspaces := services.NewWorkspaceService(d.DB)
	memberships := services.NewMembershipService(d.DB)
	rooms := services.NewChatRoomService(d.DB, users, workspaces, memberships, services.MessageConverter{})
	messages := services.NewMessageService(d.DB, rooms, d.Hub)
	teamNames := services.NewTeamNameService(d.Generator, workspaces, d.Model)

	return &Handlers{
		Auth:      handlers.NewAuthHandler(users, d.JWTManager, d.Redis),
		User:      handlers.NewUserHandler(users),
		Workspace: handlers.NewWorkspaceHandler(workspaces),
		ChatRoom:  handlers.NewChatRoomHandler(rooms),
		Message:   handlers.NewHTTPMessageHandler(messages),
		TeamName:  handlers.NewTeamNameHandler(teamNames),
		WebSocket: handlers.NewWebSocketHandler(d.Hub, handlers.NewMessageHandler(messages)),
	}
}

// Run serves until ctx is cancelled and then drains connections.
func (s *Server) Run(ctx context.Context) error {
	go s.Hub.Run()

	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", s.cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	s.Hub.Stop()
	if cerr := s.Redis.Close(); cerr != nil {
		slog.Warn("redis close failed", "error", cerr)
	}
	if terr := s.shutdown(shutdownCtx); terr != nil {
		slog.Warn("telemetry shutdown failed", "error", terr)
	}
	return err
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.InfoContext(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
