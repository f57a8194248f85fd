package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, "created", map[string]int{"n": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "created", body["message"])
	assert.NotContains(t, body, "error")
	assert.NotContains(t, body, "pagination")
}

func TestErrorAndInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusNotFound, "User not found")
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, body, "data")

	rec = httptest.NewRecorder()
	Internal(rec, "Error fetching user", errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "boom", decode(t, rec)["error"])
}

func TestPage(t *testing.T) {
	rec := httptest.NewRecorder()
	Page(rec, http.StatusOK, "ok", []string{}, map[string]int{"total": 0})
	body := decode(t, rec)
	assert.Equal(t, map[string]any{"total": float64(0)}, body["pagination"])
}
