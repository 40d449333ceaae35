package testkit

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

// Run executes a single scenario file against handler.
func Run(t *testing.T, handler http.Handler, scenarioPath string, vars Vars) {
	t.Helper()

	s, err := LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("testkit: load scenario %q: %v", scenarioPath, err)
	}

	t.Run(s.Name, func(t *testing.T) {
		RunScenario(t, handler, s, vars)
	})
}

// RunDir runs every scenario in dir as a subtest, in file-name order, so
// later scenarios may depend on state earlier ones created.
func RunDir(t *testing.T, handler http.Handler, dir string, vars Vars) {
	t.Helper()

	scenarios, errs := LoadAllFromDir(dir)
	for _, err := range errs {
		t.Errorf("%v", err)
	}
	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			RunScenario(t, handler, s, vars)
		})
	}
}

// RunScenario fires s against handler and asserts status and body. It
// returns the recorder for further checks.
func RunScenario(t *testing.T, handler http.Handler, s *Scenario, vars Vars) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody io.Reader
	if p := s.RequestBodyPath(); p != "" {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("[%s] read request file %q: %v", s.Name, p, err)
		}
		reqBody = bytes.NewReader([]byte(vars.expand(string(data))))
	}

	req := httptest.NewRequest(strings.ToUpper(s.RequestMethod), vars.expand(s.RequestURL), reqBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, vars.expand(v))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code)

	if p := s.ResponseBodyPath(); p != "" {
		expected, err := os.ReadFile(p)
		if err != nil {
			t.Errorf("[%s] read response file %q: %v", s.Name, p, err)
		} else {
			AssertJSONSubset(t, s, []byte(vars.expand(string(expected))), rec.Body.Bytes())
		}
	}
	return rec
}
