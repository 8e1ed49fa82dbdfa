package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visionatrix-exapp/internal/exapp/config"
	"visionatrix-exapp/internal/exapp/l10n"
	"visionatrix-exapp/internal/infra/nextcloud"
)

type fakeNextcloud struct {
	mu       sync.Mutex
	calls    []string
	topMenus []nextcloud.TopMenu
	failing  map[string]error
	initDone chan int
}

func newFakeNextcloud() *fakeNextcloud {
	return &fakeNextcloud{failing: map[string]error{}, initDone: make(chan int, 1)}
}

func (f *fakeNextcloud) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.failing[call]
}

func (f *fakeNextcloud) SetInitStatus(_ context.Context, progress int) error {
	err := f.record("init")
	f.initDone <- progress
	return err
}

func (f *fakeNextcloud) RegisterTopMenu(_ context.Context, m nextcloud.TopMenu) error {
	f.mu.Lock()
	f.topMenus = append(f.topMenus, m)
	f.mu.Unlock()
	return f.record("register_top_menu")
}

func (f *fakeNextcloud) UnregisterTopMenu(context.Context, string) error {
	return f.record("unregister_top_menu")
}

func (f *fakeNextcloud) SetScript(context.Context, nextcloud.Script) error {
	return f.record("set_script")
}

func (f *fakeNextcloud) DeleteScript(context.Context, nextcloud.Script) error {
	return f.record("delete_script")
}

func (f *fakeNextcloud) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fixture struct {
	server    *Server
	nextcloud *fakeNextcloud
	clock     *clockwork.FakeClock
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newFixture(t *testing.T, backendURL string, opts ...func(*config.Config)) *fixture {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "client", "index.html"), "<html>index</html>")
	writeFile(t, filepath.Join(root, "client", "assets", "app.js"), "console.log('app')")
	writeFile(t, filepath.Join(root, "app", "ex_app", "js", "visionatrix-main.js"), "main")
	writeFile(t, filepath.Join(root, "app", "secret.txt"), "secret")
	writeFile(t, filepath.Join(root, "l10n", "de.json"), `{"translations":{"Visionatrix":"Visionatrix DE"}}`)

	cfg := &config.Config{
		AppID:          "visionatrix",
		AppVersion:     "1.0.0",
		AppSecret:      "12345",
		AppHost:        "127.0.0.1",
		AppPort:        9100,
		AppDisplayName: "Visionatrix",
		NextcloudURL:   "http://nextcloud.local",
		AAVersion:      "2.0.0",
		BackendURL:     backendURL,
		ClientDir:      filepath.Join(root, "client"),
		ExAppDir:       filepath.Join(root, "app"),
		MetricsEnabled: true,
		InitAttempts:   2,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	bundle, err := l10n.Load(filepath.Join(root, "l10n"))
	require.NoError(t, err)

	nc := newFakeNextcloud()
	clock := clockwork.NewFakeClock()
	srv, err := NewServer(cfg, Options{Nextcloud: nc, Bundle: bundle, Clock: clock})
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return &fixture{server: srv, nextcloud: nc, clock: clock}
}

func sign(r *http.Request, secret string) *http.Request {
	r.Header.Set(nextcloud.HeaderAAVersion, "2.0.0")
	r.Header.Set(nextcloud.HeaderAppID, "visionatrix")
	r.Header.Set(nextcloud.HeaderAppVersion, "1.0.0")
	r.Header.Set(nextcloud.HeaderAuthorization, nextcloud.AuthorizationValue("admin", secret))
	return r
}

func (f *fixture) do(r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, r)
	return rec
}

func (f *fixture) signed(method, target string) *httptest.ResponseRecorder {
	return f.do(sign(httptest.NewRequest(method, target, nil), "12345"))
}

func healthyBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func deadBackendURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()
	return u
}

func TestHeartbeatWithoutAuth(t *testing.T) {
	f := newFixture(t, healthyBackend(t).URL)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/heartbeat", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(headerRequestID))
}

func TestRequestIDPropagated(t *testing.T) {
	f := newFixture(t, healthyBackend(t).URL)

	req := httptest.NewRequest(http.MethodGet, "/heartbeat", nil)
	req.Header.Set(headerRequestID, "req-42")
	assert.Equal(t, "req-42", f.do(req).Header().Get(headerRequestID))
}

func TestAuthRejects(t *testing.T) {
	f := newFixture(t, healthyBackend(t).URL)

	tests := map[string]func(r *http.Request){
		"unsigned":      func(r *http.Request) { r.Header = http.Header{} },
		"wrong secret":  func(r *http.Request) { r.Header.Set(nextcloud.HeaderAuthorization, nextcloud.AuthorizationValue("admin", "nope")) },
		"wrong app":     func(r *http.Request) { r.Header.Set(nextcloud.HeaderAppID, "other") },
		"wrong version": func(r *http.Request) { r.Header.Set(nextcloud.HeaderAppVersion, "0.9.0") },
		"no aa version": func(r *http.Request) { r.Header.Del(nextcloud.HeaderAAVersion) },
		"not base64":    func(r *http.Request) { r.Header.Set(nextcloud.HeaderAuthorization, "%%%") },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			req := sign(httptest.NewRequest(http.MethodPost, "/init", nil), "12345")
			mutate(req)
			assert.Equal(t, http.StatusUnauthorized, f.do(req).Code)
		})
	}
	assert.Empty(t, f.nextcloud.recorded())
}

func TestMetricsWithoutAuth(t *testing.T) {
	f := newFixture(t, healthyBackend(t).URL)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "exapp_uptime_seconds")
}

func TestMetricsDisabledRequiresAuth(t *testing.T) {
	f := newFixture(t, healthyBackend(t).URL, func(cfg *config.Config) { cfg.MetricsEnabled = false })

	assert.Equal(t, http.StatusUnauthorized, f.do(httptest.NewRequest(http.MethodGet, "/metrics", nil)).Code)
	rec := f.signed(http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "exapp_uptime_seconds")
}

func waitInit(t *testing.T, nc *fakeNextcloud) int {
	t.Helper()
	select {
	case progress := <-nc.initDone:
		return progress
	case <-time.After(5 * time.Second):
		t.Fatal("init status was not reported")
		return 0
	}
}

func TestInitReportsProgress(t *testing.T) {
	f := newFixture(t, healthyBackend(t).URL)

	rec := f.signed(http.MethodPost, "/init")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())
	assert.Equal(t, 100, waitInit(t, f.nextcloud))
}

func TestInitWaitsForBackend(t *testing.T) {
	f := newFixture(t, deadBackendURL(t))

	require.Equal(t, http.StatusOK, f.signed(http.MethodPost, "/init").Code)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, f.clock.BlockUntilContext(ctx, 1))
	assert.Empty(t, f.nextcloud.recorded())

	f.clock.Advance(time.Second)
	assert.Equal(t, 100, waitInit(t, f.nextcloud))
}

func TestEnabled(t *testing.T) {
	f := newFixture(t, healthyBackend(t).URL)

	req := sign(httptest.NewRequest(http.MethodPut, "/enabled?enabled=1", nil), "12345")
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9")
	rec := f.do(req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"error":""}`, rec.Body.String())

	assert.Equal(t, []string{"set_script", "register_top_menu"}, f.nextcloud.recorded())
	require.Len(t, f.nextcloud.topMenus, 1)
	assert.Equal(t, nextcloud.TopMenu{Name: "visionatrix", DisplayName: "Visionatrix DE", Icon: "ex_app/img/app.svg"}, f.nextcloud.topMenus[0])
}

func TestDisabledReportsErrors(t *testing.T) {
	f := newFixture(t, healthyBackend(t).URL)
	f.nextcloud.failing["delete_script"] = errors.New("script not found")

	rec := f.signed(http.MethodPut, "/enabled?enabled=0")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp enabledResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "script not found")
	assert.Equal(t, []string{"delete_script", "unregister_top_menu"}, f.nextcloud.recorded())
}

func TestEnabledRejectsBadFlag(t *testing.T) {
	f := newFixture(t, healthyBackend(t).URL)
	assert.Equal(t, http.StatusBadRequest, f.signed(http.MethodPut, "/enabled?enabled=maybe").Code)
}

func TestProxyForwardsRequest(t *testing.T) {
	var got *http.Request
	var body string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.Header().Set("X-Backend", "visionatrix")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"task_id":1}`)
	}))
	defer backend.Close()
	f := newFixture(t, backend.URL)

	req := sign(httptest.NewRequest(http.MethodPost, "/api/tasks/create?name=flux&count=2", strings.NewReader(`{"prompt":"cat"}`)), "12345")
	req.AddCookie(&http.Cookie{Name: "session", Value: "abc"})
	req.AddCookie(&http.Cookie{Name: "lang", Value: "de"})
	rec := f.do(req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, `{"task_id":1}`, rec.Body.String())
	assert.Equal(t, "visionatrix", rec.Header().Get("X-Backend"))
	assert.Empty(t, rec.Header().Get("Transfer-Encoding"))

	require.NotNil(t, got)
	assert.Equal(t, "/api/tasks/create", got.URL.Path)
	assert.Equal(t, "flux", got.URL.Query().Get("name"))
	assert.Equal(t, "2", got.URL.Query().Get("count"))
	assert.Equal(t, `{"prompt":"cat"}`, body)
	assert.Equal(t, "session=abc; lang=de", got.Header.Get("Cookie"))

	u, err := url.Parse(backend.URL)
	require.NoError(t, err)
	assert.Equal(t, u.Host, got.Host)
}

func TestProxyBackendDown(t *testing.T) {
	f := newFixture(t, deadBackendURL(t))

	var last *httptest.ResponseRecorder
	for i := 0; i < 6; i++ {
		last = f.signed(http.MethodGet, "/api/settings/get")
		assert.Equal(t, http.StatusBadGateway, last.Code)
	}
	assert.JSONEq(t, `{"error":"backend unavailable"}`, last.Body.String())
	assert.Equal(t, "application/json", last.Header().Get("Content-Type"))
}

func TestProxyClientCancelKeepsBreakerClosed(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/slow" {
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
			return
		}
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer backend.Close()
	f := newFixture(t, backend.URL)

	for i := 0; i < 6; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		req := sign(httptest.NewRequest(http.MethodGet, "/api/slow", nil), "12345").WithContext(ctx)
		rec := f.do(req)
		cancel()
		assert.Equal(t, statusClientClosedRequest, rec.Code)
	}

	rec := f.signed(http.MethodGet, "/api/settings/get")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestProxyErrorBodyIsJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	proxyErrorHandler(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil), errors.New(`dial "tcp": refused`))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"error": "backend request failed"}, body)
}

func TestStatic(t *testing.T) {
	f := newFixture(t, healthyBackend(t).URL)

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{path: "/", status: http.StatusOK, body: "<html>index</html>"},
		{path: "/assets/app.js", status: http.StatusOK, body: "console.log('app')"},
		{path: "/ex_app/js/visionatrix-main.js", status: http.StatusOK, body: "main"},
		{path: "/missing.js", status: http.StatusNotFound},
		{path: "/ex_app/../secret.txt", status: http.StatusNotFound},
		{path: "/%2e%2e/app/secret.txt", status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := f.signed(http.MethodGet, tt.path)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, rec.Body.String())
				assert.Equal(t, clientCSP, rec.Header().Get("Content-Security-Policy"))
			}
		})
	}
}

func TestNewServerRejectsBackendURL(t *testing.T) {
	_, err := NewServer(&config.Config{BackendURL: "127.0.0.1:8288"}, Options{Nextcloud: newFakeNextcloud(), Bundle: &l10n.Bundle{}})
	assert.ErrorContains(t, err, "BACKEND_URL")
}
