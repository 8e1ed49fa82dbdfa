// Package nextcloud is the AppAPI side of the Nextcloud OCS API as seen from
// a running ExApp.
package nextcloud

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"visionatrix-exapp/pkg/log"
	"visionatrix-exapp/pkg/metrics"
	"visionatrix-exapp/pkg/retry"
)

const (
	statusPath  = "/ocs/v1.php/apps/app_api/ex-app/status"
	topMenuPath = "/ocs/v1.php/apps/app_api/api/v1/ui/top-menu"
	scriptPath  = "/ocs/v1.php/apps/app_api/api/v1/ui/script"
)

// Signing headers AppAPI expects on every request.
const (
	HeaderAAVersion     = "AA-VERSION"
	HeaderAppID         = "EX-APP-ID"
	HeaderAppVersion    = "EX-APP-VERSION"
	HeaderAuthorization = "AUTHORIZATION-APP-API"
)

// Config identifies the ExApp towards Nextcloud.
type Config struct {
	BaseURL    string
	AppID      string
	AppVersion string
	AAVersion  string
	Secret     string
	// User is sent in the authorization header, empty for system calls.
	User    string
	Timeout time.Duration
	Retry   retry.Policy
}

// Client talks to the AppAPI OCS endpoints.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client. Zero Timeout and Retry fields get defaults.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = retry.Policy{MaxAttempts: 3, InitialBackoff: 500 * time.Millisecond, MaxBackoff: 5 * time.Second}
	}
	return &Client{
		cfg:     cfg,
		baseURL: NormalizeURL(cfg.BaseURL),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// NormalizeURL strips the trailing slash and /index.php from a Nextcloud URL.
func NormalizeURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	u = strings.TrimSuffix(u, "/index.php")
	return strings.TrimRight(u, "/")
}

// OCSError is a rejected OCS call.
type OCSError struct {
	Method     string
	Path       string
	StatusCode int // HTTP status
	OCSStatus  int // ocs.meta.statuscode, 0 when the body was not an envelope
	Message    string
}

func (e *OCSError) Error() string {
	msg := fmt.Sprintf("ocs %s %s: http %d", e.Method, e.Path, e.StatusCode)
	if e.OCSStatus != 0 {
		msg += fmt.Sprintf(", ocs %d", e.OCSStatus)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Temporary reports whether the call may succeed when repeated.
func (e *OCSError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

type envelope struct {
	OCS struct {
		Meta struct {
			Status     string `json:"status"`
			StatusCode int    `json:"statuscode"`
			Message    string `json:"message"`
		} `json:"meta"`
		Data json.RawMessage `json:"data"`
	} `json:"ocs"`
}

// TopMenu is an entry in the Nextcloud top navigation.
type TopMenu struct {
	Name          string `json:"name"`
	DisplayName   string `json:"displayName"`
	Icon          string `json:"icon"`
	AdminRequired int    `json:"adminRequired"`
}

// Script is a JavaScript file AppAPI injects into a UI element.
type Script struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	Path       string `json:"path"`
	AfterAppID string `json:"afterAppId,omitempty"`
}

// SetInitStatus reports initialization progress (0..100).
func (c *Client) SetInitStatus(ctx context.Context, progress int) error {
	if progress < 0 || progress > 100 {
		return fmt.Errorf("progress %d out of range", progress)
	}
	return c.call(ctx, http.MethodPut, statusPath, map[string]int{"progress": progress})
}

func (c *Client) RegisterTopMenu(ctx context.Context, m TopMenu) error {
	return c.call(ctx, http.MethodPost, topMenuPath, m)
}

func (c *Client) UnregisterTopMenu(ctx context.Context, name string) error {
	return c.call(ctx, http.MethodDelete, topMenuPath, map[string]string{"name": name})
}

func (c *Client) SetScript(ctx context.Context, s Script) error {
	return c.call(ctx, http.MethodPost, scriptPath, s)
}

func (c *Client) DeleteScript(ctx context.Context, s Script) error {
	s.AfterAppID = ""
	return c.call(ctx, http.MethodDelete, scriptPath, s)
}

// Sign sets the AppAPI headers on req.
func (c *Client) Sign(req *http.Request) {
	req.Header.Set(HeaderAAVersion, c.cfg.AAVersion)
	req.Header.Set(HeaderAppID, c.cfg.AppID)
	req.Header.Set(HeaderAppVersion, c.cfg.AppVersion)
	req.Header.Set(HeaderAuthorization, AuthorizationValue(c.cfg.User, c.cfg.Secret))
	req.Header.Set("OCS-APIRequest", "true")
}

// AuthorizationValue encodes user and secret for AUTHORIZATION-APP-API.
func AuthorizationValue(user, secret string) string {
	return base64.StdEncoding.EncodeToString([]byte(user + ":" + secret))
}

func (c *Client) call(ctx context.Context, method, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	policy := c.cfg.Retry
	policy.OnRetry = func(attempt int, err error, backoff time.Duration) {
		log.Warn("[OCS] request failed, retrying", "path", path, "attempt", attempt, "backoff", backoff, "error", err)
	}

	err = retry.DoVoid(ctx, policy, classify, func(ctx context.Context) error {
		return c.do(ctx, method, path, payload)
	})
	metrics.OCSRequestsTotal.WithLabelValues(path, metrics.Status(err)).Inc()
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) error {
	url := c.baseURL + path + "?format=json"
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	c.Sign(req)

	log.Debug("[OCS] request", "method", method, "url", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	log.Debug("[OCS] response", "status_code", resp.StatusCode, "body", string(body))

	ocsErr := &OCSError{Method: method, Path: path, StatusCode: resp.StatusCode}
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		ocsErr.OCSStatus = env.OCS.Meta.StatusCode
		ocsErr.Message = env.OCS.Meta.Message
	} else if resp.StatusCode < http.StatusBadRequest {
		ocsErr.Message = "response is not an OCS envelope"
		return ocsErr
	}

	if resp.StatusCode >= http.StatusBadRequest {
		if ocsErr.Message == "" {
			ocsErr.Message = http.StatusText(resp.StatusCode)
		}
		return ocsErr
	}
	if s := ocsErr.OCSStatus; s != 100 && s != 200 {
		return ocsErr
	}
	return nil
}

// classify retries transport failures and 5xx responses.
func classify(err error) retry.Action {
	var ocsErr *OCSError
	if errors.As(err, &ocsErr) {
		if ocsErr.Temporary() {
			return retry.Retry
		}
		return retry.Stop
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return retry.Stop
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return retry.Retry
	}
	return retry.Stop
}
