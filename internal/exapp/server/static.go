package server

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	exAppPrefix = "ex_app"
	indexFile   = "index.html"
	clientCSP   = "default-src * 'unsafe-inline' 'unsafe-eval' data: blob:;"
)

// handleStatic serves ex_app/ assets from the app directory and everything
// else from the web client build.
func (s *Server) handleStatic(c echo.Context) error {
	file, ok := s.resolveStatic(c.Param("*"))
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}
	c.Response().Header().Set("Content-Security-Policy", clientCSP)
	return c.File(file)
}

// resolveStatic maps a request path to a regular file below the matching
// root. Paths with ".." segments never resolve.
func (s *Server) resolveStatic(requestPath string) (string, bool) {
	if unescaped, err := url.PathUnescape(requestPath); err == nil {
		requestPath = unescaped
	}
	requestPath = strings.TrimPrefix(requestPath, "/")
	for _, segment := range strings.Split(requestPath, "/") {
		if segment == ".." {
			return "", false
		}
	}

	var file string
	switch {
	case requestPath == "":
		file = filepath.Join(s.config.ClientDir, indexFile)
	case strings.HasPrefix(requestPath, exAppPrefix):
		file = filepath.Join(s.config.ExAppDir, filepath.FromSlash(requestPath))
	default:
		file = filepath.Join(s.config.ClientDir, filepath.FromSlash(requestPath))
	}

	info, err := os.Stat(file)
	if err == nil && info.IsDir() {
		file = filepath.Join(file, indexFile)
		info, err = os.Stat(file)
	}
	if err != nil {
		return "", false
	}
	return file, info.Mode().IsRegular()
}
