package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ladybert/web-api-client/internal/repository"
	"github.com/Ladybert/web-api-client/internal/validation"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestNewPagination(t *testing.T) {
	const path = "http://example.com/api/unit-type"

	t.Run("middle page", func(t *testing.T) {
		p := NewPagination([]int{6, 7, 8, 9, 10}, 2, 5, 12, path)
		assert.Equal(t, 3, p.LastPage)
		require.NotNil(t, p.From)
		require.NotNil(t, p.To)
		assert.Equal(t, 6, *p.From)
		assert.Equal(t, 10, *p.To)
		assert.Equal(t, path+"?page=3", *p.NextPageURL)
		assert.Equal(t, path+"?page=1", *p.PrevPageURL)
		assert.Equal(t, path+"?page=1", p.FirstPageURL)
		assert.Equal(t, path+"?page=3", p.LastPageURL)
	})

	t.Run("last partial page", func(t *testing.T) {
		p := NewPagination([]int{11, 12}, 3, 5, 12, path)
		assert.Equal(t, 11, *p.From)
		assert.Equal(t, 12, *p.To)
		assert.Nil(t, p.NextPageURL)
	})

	t.Run("empty collection", func(t *testing.T) {
		p := NewPagination[int](nil, 1, 5, 0, path)
		assert.Equal(t, 1, p.LastPage)
		assert.Nil(t, p.From)
		assert.Nil(t, p.To)
		assert.Nil(t, p.NextPageURL)
		assert.Nil(t, p.PrevPageURL)

		raw, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"current_page": 1,
			"data": [],
			"first_page_url": "http://example.com/api/unit-type?page=1",
			"from": null,
			"last_page": 1,
			"last_page_url": "http://example.com/api/unit-type?page=1",
			"next_page_url": null,
			"path": "http://example.com/api/unit-type",
			"per_page": 5,
			"prev_page_url": null,
			"to": null,
			"total": 0
		}`, string(raw))
	})
}

func TestRequestPath(t *testing.T) {
	c, _ := newContext(http.MethodGet, "http://example.com/api/unit?page=2")
	assert.Equal(t, "http://example.com/api/unit", RequestPath(c))
}

func TestJSON(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/")
	require.NoError(t, JSON(c, http.StatusCreated, "created", map[string]int{"id": 1}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"created","data":{"id":1},"status":201}`, rec.Body.String())
}

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", fmt.Errorf("show: %w", repository.ErrNotFound), http.StatusNotFound, "Record not found"},
		{"echo error", echo.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/")
			HTTPErrorHandler(tt.err, c)

			assert.Equal(t, tt.status, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["message"])
			assert.Nil(t, body["data"])
			assert.EqualValues(t, tt.status, body["status"])
			assert.NotContains(t, body, "errors")
		})
	}
}

func TestHTTPErrorHandler_Validation(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/")
	HTTPErrorHandler(&validation.ValidationError{Errors: map[string][]string{
		"name": {"The name has already been taken."},
	}}, c)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{
		"success": false,
		"message": "Validation Errors",
		"data": null,
		"errors": {"name": ["The name has already been taken."]},
		"status": 422
	}`, rec.Body.String())
}

func TestHTTPErrorHandler_Committed(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/")
	require.NoError(t, c.String(http.StatusOK, "done"))

	HTTPErrorHandler(errors.New("late"), c)
	assert.Equal(t, "done", rec.Body.String())
}
