package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// TestContext carries one scenario's HTTP state against a running server.
type TestContext struct {
	BaseURL    string
	Prefix     string
	FixtureDir string
	HTTPClient *http.Client

	lastStatus int
	lastBody   []byte
	lastJSON   map[string]any
	saved      map[string]string
}

// NewTestContext reads FACEID_E2E_BASE_URL and FACEID_E2E_FIXTURES.
func NewTestContext() *TestContext {
	base := os.Getenv("FACEID_E2E_BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	fixtures := os.Getenv("FACEID_E2E_FIXTURES")
	if fixtures == "" {
		fixtures = "fixtures"
	}
	return &TestContext{
		BaseURL:    strings.TrimRight(base, "/"),
		Prefix:     "/integrations/face-extractor-svc",
		FixtureDir: fixtures,
		HTTPClient: &http.Client{Timeout: 2 * time.Minute},
		saved:      map[string]string{},
	}
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.lastStatus = 0
	tc.lastBody = nil
	tc.lastJSON = nil
	tc.saved = map[string]string{}
}

func (tc *TestContext) url(path string) string {
	if strings.HasPrefix(path, "/health") || strings.HasPrefix(path, "/metrics") {
		return tc.BaseURL + path
	}
	return tc.BaseURL + tc.Prefix + path
}

func (tc *TestContext) POST(path string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return tc.do(http.MethodPost, path, bytes.NewReader(raw))
}

func (tc *TestContext) POSTRaw(path, body string) error {
	return tc.do(http.MethodPost, path, strings.NewReader(body))
}

func (tc *TestContext) GET(path string) error {
	return tc.do(http.MethodGet, path, nil)
}

func (tc *TestContext) Request(method, path string) error {
	return tc.do(method, path, nil)
}

func (tc *TestContext) do(method, path string, body io.Reader) error {
	req, err := http.NewRequest(method, tc.url(path), body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	tc.lastJSON = nil
	if len(tc.lastBody) > 0 {
		var decoded map[string]any
		if json.Unmarshal(tc.lastBody, &decoded) == nil {
			tc.lastJSON = decoded
		}
	}
	return nil
}

func (tc *TestContext) GetLastResponseStatus() int {
	return tc.lastStatus
}

func (tc *TestContext) GetLastResponseBody() []byte {
	return tc.lastBody
}

// GetResponseField resolves a dotted path such as "data.attributes.hash".
func (tc *TestContext) GetResponseField(field string) (any, error) {
	if tc.lastJSON == nil {
		return nil, fmt.Errorf("last response is not a JSON object: %s", tc.lastBody)
	}
	var cur any = tc.lastJSON
	for _, part := range strings.Split(field, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %q: %q is not an object", field, part)
		}
		cur, ok = obj[part]
		if !ok {
			return nil, fmt.Errorf("field %q not found in %s", field, tc.lastBody)
		}
	}
	return cur, nil
}

func (tc *TestContext) Save(key, value string) {
	tc.saved[key] = value
}

func (tc *TestContext) Saved(key string) string {
	return tc.saved[key]
}

// Fixture reads a file from the fixture directory.
func (tc *TestContext) Fixture(name string) ([]byte, error) {
	return os.ReadFile(tc.FixtureDir + "/" + name)
}
