// Package server wires every component of the recipes service together
// and runs its web server.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rafacorp/recipes"
	"github.com/rafacorp/recipes/auth"
	"github.com/rafacorp/recipes/catalog"
	"github.com/rafacorp/recipes/http/keyring"
	"github.com/rafacorp/recipes/http/middleware"
	"github.com/rafacorp/recipes/http/req"
	"github.com/rafacorp/recipes/http/resp"
	"github.com/rafacorp/recipes/http/router"
	"github.com/rafacorp/recipes/logger"
	"github.com/rafacorp/recipes/postgres"
	"github.com/rafacorp/recipes/user"
)

// A Server manages and exposes all components of the recipes service
// to one another.
type Server struct {
	cfg    *Config
	db     *postgres.DB
	kr     keyring.Keyringable
	l      logger.Logger
	parser *req.Parser
	d      *resp.Responder
	router *router.Router
	srv    *http.Server
	tokens *auth.Service
	users  *user.Service
}

// New constructs a Server from cfg: it connects to the database, runs
// migrations, and registers every route behind its middleware stack.
func New(cfg *Config) (*Server, error) {
	l := logger.New(logger.WithLevel(cfg.LogLevel), logger.WithEnv(cfg.Env.String()))

	gdb, err := postgres.Connect(cfg.DB, Migrations, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("%w: failed connecting to postgres: %s", recipes.ErrBadConfig, err)
	}

	db := postgres.NewDB(gdb)

	tokens, err := auth.NewService(cfg.JWTKey, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	kr := keyring.NewKeyring(recipes.CurrentUserKey, recipes.IpAddrKey, recipes.RequestIDKey)
	d := resp.NewResponder(resp.WithLogger(l), resp.WithUserKey(kr.CurrentUserKey()))
	p := req.NewParser()

	users := user.NewService(db)

	s := &Server{
		cfg:    cfg,
		db:     db,
		kr:     kr,
		l:      l,
		parser: p,
		d:      d,
		router: router.New(middleware.ReportPanic(l)),
		tokens: tokens,
		users:  users,
	}

	s.router.OnEveryRequest(
		middleware.RequestID(s.kr.Key(recipes.RequestIDKey.Key())),
		middleware.InjectIPAddress(),
		middleware.LogRequest(l),
		middleware.CORS(cfg.BaseURL),
		middleware.CurrentUser(tokens, s.storeUser, s.kr.CurrentUserKey()),
	)
	s.routes(
		user.NewHandler(d, p, users, tokens),
		catalog.NewHandler(d, p, catalog.NewService(db)),
	)

	s.srv = &http.Server{
		Addr:         cfg.Host + cfg.Port,
		Handler:      s.router,
		IdleTimeout:  cfg.IdleTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if cfg.Seed && cfg.Env.CanSeedFixtures() {
		if err := s.seed(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Run begins the web server, stopping gracefully upon
// os.Interrupt, os.Kill, SIGHUP, SIGINT, SIGQUIT or SIGTERM.
func (s *Server) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := make(chan os.Signal, 1)
	signal.Notify(
		ch,
		os.Interrupt,
		os.Kill,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)

	go func() {
		sig := <-ch
		s.l.Info(fmt.Sprint("received shutdown signal: ", sig), nil)
		cancel()
	}()

	go func() {
		s.l.Info(fmt.Sprintf("running web server at %s", s.srv.Addr), nil)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			s.l.Error(fmt.Errorf("could not listen: %w", err).Error(), nil)
		}
	}()

	<-ctx.Done()
	return s.Shutdown()
}

// Shutdown stops the web server, allowing in-flight requests to finish.
func (s *Server) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.l.Info("shutting down web server", nil)
	err := s.srv.Shutdown(shutdownCtx)
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	s.l.Info("web server shutdown successfully", nil)
	return nil
}

// storeUser pulls the user identified by a verified token out of the
// database, matching the signature of middleware.UserStorer.
func (s *Server) storeUser(id uint) (middleware.User, error) {
	u, err := s.users.ByID(id)
	if err != nil {
		return nil, err
	}

	return u, nil
}
