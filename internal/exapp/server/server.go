// Package server is the ExApp HTTP service AppAPI talks to.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"

	"visionatrix-exapp/internal/exapp/config"
	"visionatrix-exapp/internal/exapp/l10n"
	"visionatrix-exapp/internal/infra/nextcloud"
	"visionatrix-exapp/pkg/log"
)

// nextcloudAPI is the subset of the OCS client the handlers use.
type nextcloudAPI interface {
	SetInitStatus(ctx context.Context, progress int) error
	RegisterTopMenu(ctx context.Context, m nextcloud.TopMenu) error
	UnregisterTopMenu(ctx context.Context, name string) error
	SetScript(ctx context.Context, s nextcloud.Script) error
	DeleteScript(ctx context.Context, s nextcloud.Script) error
}

// Options carries the collaborators of a Server. Nil fields get defaults.
type Options struct {
	Nextcloud nextcloudAPI
	Bundle    *l10n.Bundle
	Clock     clockwork.Clock
	// Transport is used for backend requests.
	Transport http.RoundTripper
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	nextcloud nextcloudAPI
	bundle    *l10n.Bundle
	clock     clockwork.Clock
	backend   *backendProxy

	// tasks tracks background work started by /init.
	tasks     sync.WaitGroup
	tasksCtx  context.Context
	stopTasks context.CancelFunc
}

func NewServer(cfg *config.Config, opts Options) (*Server, error) {
	backend, err := newBackendProxy(cfg.BackendURL, opts.Transport)
	if err != nil {
		return nil, err
	}

	if opts.Nextcloud == nil {
		opts.Nextcloud = nextcloud.NewClient(nextcloud.Config{
			BaseURL:    cfg.NextcloudURL,
			AppID:      cfg.AppID,
			AppVersion: cfg.AppVersion,
			AAVersion:  cfg.AAVersion,
			Secret:     cfg.AppSecret,
		})
	}
	if opts.Bundle == nil {
		if opts.Bundle, err = l10n.Load(cfg.L10NDir); err != nil {
			return nil, err
		}
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	tasksCtx, stopTasks := context.WithCancel(context.Background())
	srv := &Server{
		echo:      e,
		config:    cfg,
		nextcloud: opts.Nextcloud,
		bundle:    opts.Bundle,
		clock:     opts.Clock,
		backend:   backend,
		tasksCtx:  tasksCtx,
		stopTasks: stopTasks,
	}

	srv.registerRoutes()

	return srv, nil
}

// ServeHTTP lets the server be mounted or tested without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start blocks serving on the configured address until Shutdown.
func (s *Server) Start() error {
	log.Info("Starting ExApp server", "address", s.config.Address(), "app_id", s.config.AppID, "version", s.config.AppVersion)
	if err := s.echo.Start(s.config.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, then cancels and waits for background
// tasks.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.echo.Shutdown(ctx)
	s.stopTasks()
	s.tasks.Wait()
	if err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
