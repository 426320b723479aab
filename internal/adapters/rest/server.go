package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"waybackhome/internal/ports/input"
	"waybackhome/internal/ports/output"
)

// Translator renders reason codes and negotiates the response locale.
type Translator interface {
	output.T
	Locale(acceptLanguage string) string
}

// Options are the transport settings of the API server.
type Options struct {
	Addr           string
	Version        string
	APIBaseURL     string
	MapBaseURL     string
	RequestTimeout time.Duration
	MaxUploadBytes int64
	// AssetsDir is served read-only under AssetsPath when set.
	AssetsDir  string
	AssetsPath string
}

// Services are the use cases the API exposes.
type Services struct {
	Events       input.EventUseCase
	Admin        input.AdminUseCase
	Auth         input.AuthUseCase
	Participants input.ParticipantUseCase
}

// Server is the HTTP server for the API.
type Server struct {
	opts       Options
	svc        Services
	tr         Translator
	router     *gin.Engine
	httpServer *http.Server
}

func NewServer(opts Options, svc Services, tr Translator) *Server {
	registerValidators()

	s := &Server{
		opts:   opts,
		svc:    svc,
		tr:     tr,
		router: gin.New(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupMiddleware() {
	s.router.Use(RequestIDMiddleware())
	s.router.Use(CORSMiddleware())
	s.router.Use(LoggingMiddleware())
	s.router.Use(gin.Recovery())
	if s.opts.RequestTimeout > 0 {
		s.router.Use(TimeoutMiddleware(s.opts.RequestTimeout))
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.health)
	s.router.GET("/health", s.health)
	s.router.GET("/config", s.clientConfig)

	if s.opts.AssetsDir != "" && s.opts.AssetsPath != "" {
		s.router.Static(s.opts.AssetsPath, s.opts.AssetsDir)
	}

	events := s.router.Group("/events")
	{
		events.GET("/:code", s.getEvent)
		events.GET("/:code/check-username/:username", s.checkUsername)
		events.GET("/:code/participants", s.listParticipants)
	}

	participants := s.router.Group("/participants")
	{
		participants.POST("", s.createParticipant)
		participants.POST("/register", s.completeRegistration)
		participants.GET("/:id", s.getParticipant)
		participants.POST("/:id/avatar", s.uploadAvatar)
		participants.PATCH("/:id/location", s.confirmLocation)
	}

	admin := s.router.Group("/admin", s.requireAdmin())
	{
		admin.POST("/events", s.createEvent)
		admin.GET("/events", s.listEvents)
		admin.DELETE("/events/:code", s.deactivateEvent)
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	log.Info().Msgf("HTTP server starting on %s", s.opts.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
