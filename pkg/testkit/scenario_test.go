package testkit_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/arstoys/app/models"
	"github.com/shashiranjanraj/arstoys/pkg/testkit"
)

// echoHandler reflects the request so scenarios can assert on it.
var echoHandler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path != "/echo" {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"message":"Route not found"}`)) //nolint:errcheck
		return
	}
	var body map[string]interface{}
	_ = json.NewDecoder(r.Body).Decode(&body)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"auth":    r.Header.Get("Authorization"),
		"body":    body,
		"extra":   "ignored by subset matching",
	})
})

func TestRunDir(t *testing.T) {
	testkit.RunDir(t, echoHandler, "testdata", testkit.Vars{"TOKEN": "t0k3n"})
}

func TestLoadScenario_Validation(t *testing.T) {
	_, err := testkit.LoadScenario("testdata/does_not_exist.json")
	assert.Error(t, err)

	s, err := testkit.LoadScenario("testdata/02_missing.json")
	require.NoError(t, err)
	assert.Equal(t, "GET", s.RequestMethod)
	assert.Empty(t, s.RequestBodyPath())
}

func TestLoadAllFromDir_SkipsBodies(t *testing.T) {
	scenarios, errs := testkit.LoadAllFromDir("testdata")
	require.Empty(t, errs)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "echo returns the posted order number", scenarios[0].Name)
}

func TestDiffJSON(t *testing.T) {
	exp := map[string]interface{}{"a": 1.0, "b": []interface{}{"x"}}
	act := map[string]interface{}{"a": 2.0, "b": []interface{}{"x", "y"}, "c": true}

	diffs := testkit.DiffJSON("", exp, act)
	assert.Len(t, diffs, 2)
	assert.Empty(t, testkit.DiffJSON("", map[string]interface{}{"c": true}, act))
}

func TestDB_IsMigrated(t *testing.T) {
	db := testkit.DB(t)
	for _, m := range []interface{}{&models.Admin{}, &models.Product{}, &models.Order{}, &models.OrderItem{}, &models.Sequence{}} {
		assert.True(t, db.Migrator().HasTable(m))
	}
}
