// Package mockapi is an in-memory stand-in for the grade-management API.
// It exists for development and tests only: it speaks the same wire
// contract as the real service (paths, JSON field names, error envelope)
// but keeps everything in process memory.
package mockapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		Debug          bool
		SigningKey     []byte

		// Seeded administrator account.
		AdminEmail    string
		AdminName     string
		AdminPassword string
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
		DB() *DB
	}

	server struct {
		opts *Options
		app  *echo.Echo
		db   *DB
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	if len(opts.SigningKey) == 0 {
		opts.SigningKey = []byte("mockapi-secret")
	}
	if opts.AdminEmail == "" {
		opts.AdminEmail = "admin@uia.edu"
	}
	if opts.AdminName == "" {
		opts.AdminName = "Administrador"
	}
	if opts.AdminPassword == "" {
		opts.AdminPassword = "admin123"
	}

	s := &server{
		opts: opts,
		app:  echo.New(),
		db:   NewDB(),
	}
	s.db.SeedAdmin(opts.AdminEmail, opts.AdminName, opts.AdminPassword)
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	if !s.opts.Debug {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = httpErrorHandler
	s.app.Debug = s.opts.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	api := s.app.Group("/api")
	auth := s.requireAuth()

	registerAuthAPI(api, s)
	registerStudentAPI(api, auth, s)
	registerTeacherAPI(api, auth, s)
	registerRubricAPI(api, auth, s)
	registerGradeAPI(api, auth, s)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

// DB exposes the backing store so tests can seed and inspect data.
func (s *server) DB() *DB { return s.db }

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Notas mock API")
}
