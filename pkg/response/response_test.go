package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/arstoys/pkg/apperr"
	"github.com/shashiranjanraj/arstoys/pkg/response"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreatedMergesPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Created(rec, response.Payload{"order": map[string]string{"orderNo": "ARS1001"}})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "ARS1001", body["order"].(map[string]interface{})["orderNo"])
}

func TestPayloadCannotOverrideSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Success(rec, response.Payload{"success": false, "total": 3})

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 3, body["total"])
}

func TestFailUsesTaxonomy(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/orders/x", nil)

	rec := httptest.NewRecorder()
	response.Fail(rec, req, apperr.NotFound("Order not found"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]interface{}{"success": false, "message": "Order not found"}, decode(t, rec))

	rec = httptest.NewRecorder()
	response.Fail(rec, req, errors.New("sql: connection is already closed"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decode(t, rec)["message"])
}
