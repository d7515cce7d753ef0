package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type apiCase struct {
	method string
	path   string
	build  func(base string) (string, string, io.Reader, map[string]string) // URL, method, body, headers
	expect []int
	ws     bool
}

func expectOK() []int { return []int{200, 201, 202, 204} }

func containsInt(arr []int, v int) bool {
	for _, x := range arr {
		if x == v {
			return true
		}
	}
	return false
}

func doRequest(t *testing.T, method, urlStr string, body io.Reader, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, urlStr, body)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if method == http.MethodPost && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	c := &http.Client{Timeout: 15 * time.Second}
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, urlStr, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, b
}

// discoverAlarmName fetches one alarm name from the catalog to drive
// parameterized endpoints.
func discoverAlarmName(t *testing.T, base string) string {
	t.Helper()
	resp, body := doRequest(t, http.MethodGet, base+"/api/v1/alarms", nil, nil)
	if resp.StatusCode != 200 {
		return ""
	}
	var wrap struct {
		Alarms []struct {
			Name string `json:"name"`
		} `json:"alarms"`
	}
	_ = json.Unmarshal(body, &wrap)
	if len(wrap.Alarms) > 0 {
		return wrap.Alarms[0].Name
	}
	return ""
}

func Test_AllAPIs_FromOpenAPI_AndServer(t *testing.T) {
	base := baseURL(t)

	alarmName := discoverAlarmName(t, base)
	docBody := func() io.Reader { return strings.NewReader(validDefinitionsDoc) }

	cases := []apiCase{
		// Health / OpenAPI
		{method: http.MethodGet, path: "/health", expect: []int{200}},
		{method: http.MethodGet, path: "/ready", expect: []int{200}},
		{method: http.MethodGet, path: "/catalog/status", expect: []int{200}},
		{method: http.MethodGet, path: "/metrics", expect: []int{200}},
		{method: http.MethodGet, path: "/api/openapi.yaml", expect: []int{200}},
		{method: http.MethodGet, path: "/api/openapi.json", expect: []int{200}},
		{method: http.MethodGet, path: "/swagger/index.html", expect: []int{200}},

		// Definitions document endpoints
		{method: http.MethodPost, path: "/api/v1/definitions/validate", build: func(b string) (string, string, io.Reader, map[string]string) {
			return b + "/api/v1/definitions/validate", http.MethodPost, docBody(), nil
		}, expect: []int{200}},
		{method: http.MethodPost, path: "/api/v1/definitions/render/constants", build: func(b string) (string, string, io.Reader, map[string]string) {
			return b + "/api/v1/definitions/render/constants", http.MethodPost, docBody(), nil
		}, expect: []int{200}},
		{method: http.MethodPost, path: "/api/v1/definitions/render/csv", build: func(b string) (string, string, io.Reader, map[string]string) {
			return b + "/api/v1/definitions/render/csv", http.MethodPost, docBody(), nil
		}, expect: []int{200}},
		{method: http.MethodPost, path: "/api/v1/definitions/render/{unknown}", build: func(b string) (string, string, io.Reader, map[string]string) {
			return b + "/api/v1/definitions/render/docx", http.MethodPost, docBody(), nil
		}, expect: []int{400}},

		// Catalog endpoints
		{method: http.MethodGet, path: "/api/v1/alarms", expect: []int{200}},
		{method: http.MethodGet, path: "/api/v1/alarms/{name}", build: func(b string) (string, string, io.Reader, map[string]string) {
			if alarmName == "" {
				return "", http.MethodGet, nil, nil
			}
			return b + "/api/v1/alarms/" + url.PathEscape(alarmName), http.MethodGet, nil, nil
		}, expect: []int{200}},
		{method: http.MethodGet, path: "/api/v1/alarms/search", build: func(b string) (string, string, io.Reader, map[string]string) {
			q := url.Values{"q": {"severity:critical"}, "limit": {"5"}}
			return b + "/api/v1/alarms/search?" + q.Encode(), http.MethodGet, nil, nil
		}, expect: []int{200}},

		// Export endpoints, every supported format
		{method: http.MethodGet, path: "/api/v1/export/constants", expect: []int{200}},
		{method: http.MethodGet, path: "/api/v1/export/csv", expect: []int{200}},
		{method: http.MethodGet, path: "/api/v1/export/dita", expect: []int{200}},
		{method: http.MethodGet, path: "/api/v1/export/xlsx", expect: []int{200}},
		{method: http.MethodGet, path: "/api/v1/export/pdf", expect: []int{200}},
		{method: http.MethodGet, path: "/api/v1/export/docx", expect: []int{400}},

		// WebSocket (handshake only)
		{method: http.MethodGet, path: "/api/v1/events/definitions", ws: true},
	}

	failed := []string{}
	for _, c := range cases {
		name := c.method + " " + c.path
		t.Run(name, func(t *testing.T) {
			if c.ws {
				u := strings.TrimPrefix(base, "http://")
				wsURL := "ws://" + u + c.path
				d := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
				ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
				defer cancel()
				conn, _, err := d.DialContext(ctx, wsURL, nil)
				if err != nil {
					t.Fatalf("ws dial: %v", err)
				}
				_ = conn.Close()
				return
			}
			urlStr := base + c.path
			method := c.method
			var body io.Reader
			headers := map[string]string{}
			if c.build != nil {
				u, m, b, h := c.build(base)
				if u == "" {
					t.Skip("missing parameterized resource (catalog empty)")
					return
				}
				urlStr, method, body, headers = u, m, b, h
			}
			resp, _ := doRequest(t, method, urlStr, body, headers)
			if len(c.expect) == 0 {
				c.expect = expectOK()
			}
			if !containsInt(c.expect, resp.StatusCode) {
				failed = append(failed, fmt.Sprintf("%s -> %d", name, resp.StatusCode))
				t.Fatalf("unexpected status %d for %s", resp.StatusCode, name)
			}
		})
	}

	if len(failed) > 0 {
		t.Logf("Failed endpoints: %v", failed)
	}
}
