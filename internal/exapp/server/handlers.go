package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"visionatrix-exapp/internal/infra/nextcloud"
	"visionatrix-exapp/pkg/backoff"
	"visionatrix-exapp/pkg/log"
)

// UI elements registered while the app is enabled.
const (
	uiName       = "visionatrix"
	uiScriptType = "top_menu"
	uiScriptPath = "ex_app/js/visionatrix-main"
	uiIcon       = "ex_app/img/app.svg"
)

var uiScript = nextcloud.Script{Type: uiScriptType, Name: uiName, Path: uiScriptPath}

func (s *Server) handleHeartbeat(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleInit acknowledges at once and reports progress in the background.
func (s *Server) handleInit(c echo.Context) error {
	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		s.runInit(s.tasksCtx)
	}()
	return c.JSON(http.StatusOK, map[string]any{})
}

// runInit waits for the backend to answer, then marks initialization done.
func (s *Server) runInit(ctx context.Context) {
	wait := backoff.NewWithClock(500*time.Millisecond, 10*time.Second, s.clock)
	err := wait.Until(ctx, s.config.InitAttempts, s.backend.ping)
	if errors.Is(err, context.Canceled) {
		return
	}
	if err != nil {
		log.Warn("Backend did not become ready, reporting init anyway", "backend", s.backend.target.String(), "error", err)
	}

	if err := s.nextcloud.SetInitStatus(ctx, 100); err != nil {
		log.Error("Failed to report init status", "error", err)
		return
	}
	log.Info("Initialization reported to Nextcloud")
}

type enabledResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleEnabled(c echo.Context) error {
	enabled, err := strconv.ParseBool(c.QueryParam("enabled"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "enabled must be 0 or 1")
	}
	ctx := c.Request().Context()

	if enabled {
		err = s.enable(ctx, translator(c).T(s.config.AppDisplayName))
	} else {
		err = s.disable(ctx)
	}

	resp := enabledResponse{}
	if err != nil {
		log.GetLog().ErrorContext(ctx, "Failed to switch UI integration", "enabled", enabled, "user", requestUser(c), "error", err)
		resp.Error = err.Error()
	} else {
		log.GetLog().InfoContext(ctx, "UI integration switched", "enabled", enabled)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) enable(ctx context.Context, displayName string) error {
	if err := s.nextcloud.SetScript(ctx, uiScript); err != nil {
		return err
	}
	return s.nextcloud.RegisterTopMenu(ctx, nextcloud.TopMenu{
		Name:        uiName,
		DisplayName: displayName,
		Icon:        uiIcon,
	})
}

// disable removes both UI elements even when one removal fails.
func (s *Server) disable(ctx context.Context) error {
	return errors.Join(
		s.nextcloud.DeleteScript(ctx, uiScript),
		s.nextcloud.UnregisterTopMenu(ctx, uiName),
	)
}
