package server

import (
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"visionatrix-exapp/internal/exapp/l10n"
	"visionatrix-exapp/internal/infra/nextcloud"
	"visionatrix-exapp/pkg/log"
)

const (
	headerRequestID = "X-Request-Id"

	contextKeyUser       = "appapi_user"
	contextKeyTranslator = "translator"
)

// requestIDMiddleware keeps the caller's X-Request-Id or assigns a new one.
func requestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Response().Header().Set(headerRequestID, id)
		c.SetRequest(c.Request().WithContext(log.WithRequestID(c.Request().Context(), id)))
		return next(c)
	}
}

// authMiddleware verifies the AppAPI request signature. Requests to the
// skipped paths pass unauthenticated.
func (s *Server) authMiddleware(skip ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, p := range skip {
				if path == p {
					return next(c)
				}
			}

			user, ok := s.authenticate(c.Request().Header)
			if !ok {
				log.GetLog().WarnContext(c.Request().Context(), "Rejected unauthenticated request", "path", path, "remote", c.RealIP())
				return echo.ErrUnauthorized
			}
			c.Set(contextKeyUser, user)
			return next(c)
		}
	}
}

func (s *Server) authenticate(h http.Header) (string, bool) {
	aaVersion := h.Get(nextcloud.HeaderAAVersion)
	appID := h.Get(nextcloud.HeaderAppID)
	appVersion := h.Get(nextcloud.HeaderAppVersion)
	authorization := h.Get(nextcloud.HeaderAuthorization)
	if aaVersion == "" || appID == "" || appVersion == "" || authorization == "" {
		return "", false
	}
	if appID != s.config.AppID || appVersion != s.config.AppVersion {
		return "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(authorization)
	if err != nil {
		return "", false
	}
	user, secret, found := strings.Cut(string(decoded), ":")
	if !found {
		return "", false
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.config.AppSecret)) != 1 {
		return "", false
	}
	return user, true
}

func (s *Server) localizationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set(contextKeyTranslator, s.bundle.Match(c.Request().Header.Get("Accept-Language")))
		return next(c)
	}
}

// translator returns the request's translator, nil translates to English.
func translator(c echo.Context) *l10n.Translator {
	t, _ := c.Get(contextKeyTranslator).(*l10n.Translator)
	return t
}

// requestUser is the Nextcloud user AppAPI signed the request for.
func requestUser(c echo.Context) string {
	u, _ := c.Get(contextKeyUser).(string)
	return u
}
