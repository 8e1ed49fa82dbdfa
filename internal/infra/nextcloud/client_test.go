package nextcloud

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visionatrix-exapp/pkg/retry"
)

type recorded struct {
	method string
	path   string
	query  string
	header http.Header
	body   map[string]any
}

func ocsServer(t *testing.T, status, ocsStatus int, calls *[]recorded) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		rec := recorded{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, header: r.Header.Clone()}
		if len(raw) > 0 {
			assert.NoError(t, json.Unmarshal(raw, &rec.body))
		}
		*calls = append(*calls, rec)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"ocs":{"meta":{"status":"ok","statuscode":`+strconv.Itoa(ocsStatus)+`,"message":"msg"},"data":[]}}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testClient(baseURL string) *Client {
	return NewClient(Config{
		BaseURL:    baseURL + "/index.php/",
		AppID:      "visionatrix",
		AppVersion: "1.0.0",
		AAVersion:  "2.0.0",
		Secret:     "12345",
		Retry:      retry.Policy{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond},
	})
}

func TestNormalizeURL(t *testing.T) {
	tests := map[string]string{
		"http://nextcloud.local":            "http://nextcloud.local",
		"http://nextcloud.local/":           "http://nextcloud.local",
		"http://nextcloud.local/index.php":  "http://nextcloud.local",
		"http://nextcloud.local/index.php/": "http://nextcloud.local",
		" https://cloud.example.com/nc/ ":   "https://cloud.example.com/nc",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeURL(in), in)
	}
}

func TestSetInitStatus(t *testing.T) {
	var calls []recorded
	srv := ocsServer(t, http.StatusOK, 200, &calls)

	require.NoError(t, testClient(srv.URL).SetInitStatus(context.Background(), 100))
	require.Len(t, calls, 1)

	c := calls[0]
	assert.Equal(t, http.MethodPut, c.method)
	assert.Equal(t, statusPath, c.path)
	assert.Equal(t, "format=json", c.query)
	assert.Equal(t, map[string]any{"progress": float64(100)}, c.body)

	assert.Equal(t, "2.0.0", c.header.Get(HeaderAAVersion))
	assert.Equal(t, "visionatrix", c.header.Get(HeaderAppID))
	assert.Equal(t, "1.0.0", c.header.Get(HeaderAppVersion))
	assert.Equal(t, AuthorizationValue("", "12345"), c.header.Get(HeaderAuthorization))
	assert.Equal(t, "true", c.header.Get("OCS-APIRequest"))
}

func TestSetInitStatusRejectsRange(t *testing.T) {
	assert.Error(t, testClient("http://127.0.0.1:1").SetInitStatus(context.Background(), 101))
}

func TestTopMenuAndScript(t *testing.T) {
	var calls []recorded
	srv := ocsServer(t, http.StatusOK, 100, &calls)
	client := testClient(srv.URL)
	ctx := context.Background()

	script := Script{Type: "top_menu", Name: "visionatrix", Path: "ex_app/js/visionatrix-main"}
	require.NoError(t, client.SetScript(ctx, script))
	require.NoError(t, client.RegisterTopMenu(ctx, TopMenu{Name: "visionatrix", DisplayName: "Visionatrix", Icon: "ex_app/img/app.svg"}))
	require.NoError(t, client.DeleteScript(ctx, script))
	require.NoError(t, client.UnregisterTopMenu(ctx, "visionatrix"))

	require.Len(t, calls, 4)
	assert.Equal(t, http.MethodPost, calls[0].method)
	assert.Equal(t, scriptPath, calls[0].path)
	assert.Equal(t, "ex_app/js/visionatrix-main", calls[0].body["path"])

	assert.Equal(t, topMenuPath, calls[1].path)
	assert.Equal(t, "Visionatrix", calls[1].body["displayName"])
	assert.Equal(t, float64(0), calls[1].body["adminRequired"])

	assert.Equal(t, http.MethodDelete, calls[2].method)
	assert.NotContains(t, calls[2].body, "afterAppId")
	assert.Equal(t, map[string]any{"name": "visionatrix"}, calls[3].body)
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		ocsStatus int
		attempts  int
	}{
		{name: "ocs failure", status: http.StatusOK, ocsStatus: 997, attempts: 1},
		{name: "client error", status: http.StatusUnauthorized, ocsStatus: 997, attempts: 1},
		{name: "server error", status: http.StatusBadGateway, ocsStatus: 996, attempts: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []recorded
			srv := ocsServer(t, tt.status, tt.ocsStatus, &calls)

			err := testClient(srv.URL).SetInitStatus(context.Background(), 100)
			var ocsErr *OCSError
			require.ErrorAs(t, err, &ocsErr)
			assert.Equal(t, tt.status, ocsErr.StatusCode)
			assert.Equal(t, tt.ocsStatus, ocsErr.OCSStatus)
			assert.Len(t, calls, tt.attempts)
		})
	}
}

func TestClientRetriesUntilSuccess(t *testing.T) {
	var n atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if n.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"ocs":{"meta":{"statuscode":200}}}`)
	}))
	defer srv.Close()

	require.NoError(t, testClient(srv.URL).SetInitStatus(context.Background(), 100))
	assert.Equal(t, int32(2), n.Load())
}

func TestClientRejectsNonEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "<html></html>")
	}))
	defer srv.Close()

	err := testClient(srv.URL).SetInitStatus(context.Background(), 100)
	assert.True(t, retry.IsPermanent(err))
}
