package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitsocial/backend/internal/service"
	"fitsocial/backend/internal/testutil"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{logger: testutil.Logger()}

	cases := map[string]struct {
		err     error
		status  int
		message string
	}{
		"invalid":   {&service.Error{Kind: service.KindInvalidRequest, Message: "bad"}, http.StatusBadRequest, "bad"},
		"not found": {&service.Error{Kind: service.KindNotFound, Message: "gone"}, http.StatusNotFound, "gone"},
		"forbidden": {&service.Error{Kind: service.KindForbidden, Message: "no"}, http.StatusForbidden, "no"},
		"conflict":  {&service.Error{Kind: service.KindConflict, Message: "dup"}, http.StatusConflict, "dup"},
		"wrapped":   {errors.Wrap(&service.Error{Kind: service.KindConflict, Message: "dup"}, "ctx"), http.StatusConflict, "dup"},
		"internal":  {errors.New("db down"), http.StatusInternalServerError, "Internal server error"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h.respondError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.message, body.Error)
		})
	}
}

func TestRespondBindError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	RegisterValidators()

	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var input RoutineInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	post := func(body string) (int, string) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		var resp ErrorResponse
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		return w.Code, resp.Error
	}

	code, msg := post(`{"name": "Legs", "day": "XYZ"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, msg, "day must be one of")

	code, msg = post(`{"day": "MON"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "name is required", msg)

	code, _ = post(`not json`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = post(`{"name": "Legs", "day": "SUN"}`)
	assert.Equal(t, http.StatusOK, code)
}
