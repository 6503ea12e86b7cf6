// Package mockapi is an in-memory stand-in for the studio backend. It serves
// every endpoint the client uses, issues real HS256 tokens and mirrors the
// backend's status codes.
package mockapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/octabyte/yoga-studio/enums"
	"github.com/octabyte/yoga-studio/interfaces/http/echo/middleware"
	otelecho "github.com/octabyte/yoga-studio/otel/echo"
	otellogger "github.com/octabyte/yoga-studio/otel/logger"
	"go.uber.org/zap"
)

type Server struct {
	cfg    Config
	echo   *echo.Echo
	db     *database
	tokens *tokenManager
}

func New(cfg Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.setDefaults()

	s := &Server{
		cfg:    cfg,
		echo:   echo.New(),
		db:     newDatabase(cfg.PasswordCost),
		tokens: newTokenManager(cfg.Secret, cfg.TokenTTL),
	}
	if !cfg.Empty {
		if err := s.db.seed(); err != nil {
			return nil, fmt.Errorf("failed to seed data: %w", err)
		}
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.JSONSerializer = jsonSerializer{}
	s.echo.Logger.SetLevel(log.WARN)
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	e := s.echo
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	if s.cfg.ServiceName != "" {
		e.Use(otelecho.Middleware(s.cfg.ServiceName, nil))
	}
	e.Use(middleware.SetTokenInContext())
	e.Use(middleware.SetSessionFromJWTToken(s.tokens.verify))
	e.Use(s.accessLog)

	api := e.Group(s.cfg.APIPrefix)

	auth := api.Group("/" + enums.AuthResource)
	auth.POST("/login", s.login)
	auth.POST("/register", s.register)
	auth.POST("/logout", s.logout)

	protected := api.Group("", middleware.RequireSession())

	sessions := protected.Group("/" + enums.SessionResource)
	sessions.GET("", s.listSessions)
	sessions.POST("", s.createSession)
	sessions.GET("/:id", s.sessionDetail)
	sessions.PUT("/:id", s.updateSession)
	sessions.DELETE("/:id", s.deleteSession)
	sessions.POST("/:id/"+enums.ParticipateResource+"/:userId", s.participate)
	sessions.DELETE("/:id/"+enums.ParticipateResource+"/:userId", s.unParticipate)

	teachers := protected.Group("/" + enums.TeacherResource)
	teachers.GET("", s.listTeachers)
	teachers.GET("/:id", s.teacherDetail)

	users := protected.Group("/" + enums.UserResource)
	users.GET("/:id", s.userDetail)
	users.DELETE("/:id", s.deleteUser)
}

func (s *Server) accessLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		otellogger.DebugCtx(c.Request().Context(), "mockapi request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", c.Response().Status),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		)
		return nil
	}
}

// Handler exposes the routes, e.g. for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
