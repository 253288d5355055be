package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitsocial/backend/internal/service"
	"fitsocial/backend/internal/testutil"
)

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	tokens := newTokens(testutil.NewBlacklist())
	users := service.NewUsers(db, testutil.Logger())

	r := gin.New()
	r.GET("/me", RequireAuth(tokens), RequireActiveUser(users), func(c *gin.Context) {
		id, _ := CallerID(c)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	pair, err := tokens.Issue(alice.ID)
	require.NoError(t, err)
	ghost, err := tokens.Issue(alice.ID + 100)
	require.NoError(t, err)

	cases := map[string]struct {
		header string
		status int
	}{
		"valid access":  {"Bearer " + pair.Access, http.StatusOK},
		"no header":     {"", http.StatusUnauthorized},
		"wrong scheme":  {"Token " + pair.Access, http.StatusUnauthorized},
		"refresh token": {"Bearer " + pair.Refresh, http.StatusUnauthorized},
		"unknown user":  {"Bearer " + ghost.Access, http.StatusUnauthorized},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}
