package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"fitsocial/backend/internal/auth"
	"fitsocial/backend/internal/config"
	"fitsocial/backend/internal/handler"
	"fitsocial/backend/internal/service"
	"fitsocial/backend/internal/testutil"
)

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type apiError struct {
	Error string `json:"error"`
}

func testConfig() *config.Config {
	return &config.Config{
		GinMode:           "test",
		JWTSecret:         "test-secret",
		AccessTokenTTL:    5 * time.Minute,
		RefreshTokenTTL:   time.Hour,
		AuthRatePerMinute: 600,
		AuthRateBurst:     100,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *resty.Client {
	t.Helper()

	db := testutil.NewDB(t)
	l := testutil.Logger()
	friendships := service.NewFriendships(db, l)
	users := service.NewUsers(db, l).WithBcryptCost(bcrypt.MinCost)
	tokens := auth.NewTokens(cfg, testutil.NewBlacklist(), l)

	h := handler.New(handler.Services{
		Users:         users,
		Friendships:   friendships,
		Routines:      service.NewRoutines(db, l),
		ExerciseTypes: service.NewExerciseTypes(db, l),
		Entries:       service.NewEntries(db, l),
		Posts:         service.NewPosts(db, friendships, l),
	}, tokens, l)

	ts := httptest.NewServer(NewRouter(cfg, h, tokens, users, l))
	t.Cleanup(ts.Close)

	return resty.New().
		SetBaseURL(ts.URL+"/api/v1").
		SetHeader("Content-Type", "application/json")
}

func signUp(t *testing.T, client *resty.Client, name string) string {
	t.Helper()

	password := "Kettlebell-Swing-77"
	resp, err := client.R().
		SetBody(map[string]string{
			"email":     name + "@x.com",
			"username":  name,
			"password":  password,
			"password2": password,
		}).
		Post("/auth/register")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode(), resp.String())

	pair := &tokenPair{}
	resp, err = client.R().
		SetBody(map[string]string{"email": name + "@x.com", "password": password}).
		SetResult(pair).
		Post("/auth/login")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())
	return pair.Access
}

func TestPing(t *testing.T) {
	client := newTestServer(t, testConfig())

	resp, err := client.R().Get(strings.TrimSuffix(client.BaseURL, "/api/v1") + "/ping")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.NotEmpty(t, resp.Header().Get(requestIDHeader))
}

func TestAuthFlow(t *testing.T) {
	client := newTestServer(t, testConfig())

	t.Run("mismatched passwords", func(t *testing.T) {
		resp, err := client.R().
			SetBody(`{"email": "x@x.com", "username": "x", "password": "Kettlebell-Swing-77", "password2": "other"}`).
			SetError(&apiError{}).
			Post("/auth/register")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
		assert.Contains(t, resp.Error().(*apiError).Error, "passwords do not match")
	})

	t.Run("bad body", func(t *testing.T) {
		resp, err := client.R().SetBody(`{"something": "???"}`).Post("/auth/register")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	})

	access := signUp(t, client, "alice")

	t.Run("wrong password", func(t *testing.T) {
		resp, err := client.R().
			SetBody(`{"email": "alice@x.com", "password": "nope"}`).
			Post("/auth/login")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
	})

	t.Run("me", func(t *testing.T) {
		var me handler.PrivateUserResponse
		resp, err := client.R().SetAuthToken(access).SetResult(&me).Get("/users/me")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.Equal(t, "alice", me.Username)

		resp, err = client.R().Get("/users/me")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
	})

	t.Run("refresh and logout", func(t *testing.T) {
		pair := &tokenPair{}
		resp, err := client.R().
			SetBody(`{"email": "alice@x.com", "password": "Kettlebell-Swing-77"}`).
			SetResult(pair).
			Post("/auth/login")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode())

		refreshed := &tokenPair{}
		resp, err = client.R().
			SetBody(map[string]string{"refresh": pair.Refresh}).
			SetResult(refreshed).
			Post("/auth/refresh")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.NotEmpty(t, refreshed.Access)

		resp, err = client.R().
			SetAuthToken(pair.Access).
			SetBody(map[string]string{"refresh": pair.Refresh}).
			Post("/auth/logout")
		require.NoError(t, err)
		assert.Equal(t, http.StatusResetContent, resp.StatusCode())

		resp, err = client.R().
			SetBody(map[string]string{"refresh": pair.Refresh}).
			Post("/auth/refresh")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())

		resp, err = client.R().
			SetAuthToken(pair.Access).
			SetBody(map[string]string{"refresh": pair.Refresh}).
			Post("/auth/logout")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	})
}

func TestRoutineReorder(t *testing.T) {
	client := newTestServer(t, testConfig())
	alice := signUp(t, client, "alice")
	bob := signUp(t, client, "bob")

	var squat handler.ExerciseTypeResponse
	resp, err := client.R().
		SetAuthToken(alice).
		SetBody(`{"name": "Squat", "muscle_group": "legs"}`).
		SetResult(&squat).
		Post("/exercise-types")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode(), resp.String())

	resp, err = client.R().Get("/exercise-types")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())

	var routine handler.RoutineResponse
	resp, err = client.R().
		SetAuthToken(alice).
		SetBody(`{"name": "Legs", "day": "MON"}`).
		SetResult(&routine).
		Post("/routines")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode(), resp.String())

	resp, err = client.R().
		SetAuthToken(alice).
		SetBody(`{"name": "Legs", "day": "monday"}`).
		Post("/routines")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())

	entryIDs := make([]uint, 0, 2)
	for order := 0; order < 2; order++ {
		var entry handler.ExerciseEntryResponse
		resp, err := client.R().
			SetAuthToken(alice).
			SetBody(map[string]interface{}{
				"routine":       routine.ID,
				"exercise_type": squat.ID,
				"sets":          3,
				"reps":          10,
				"order":         order,
			}).
			SetResult(&entry).
			Post("/exercise-entries")
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode(), resp.String())
		assert.Equal(t, "Squat", entry.ExerciseName)
		entryIDs = append(entryIDs, entry.ID)
	}

	resp, err = client.R().
		SetAuthToken(bob).
		SetBody(map[string]interface{}{"routine": routine.ID, "exercise_type": squat.ID}).
		Post("/exercise-entries")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode())

	reorderURL := fmt.Sprintf("/routines/%d/reorder-exercises", routine.ID)
	resp, err = client.R().
		SetAuthToken(alice).
		SetBody(fmt.Sprintf(`{"exercises": [{"id": %d, "order": 5}, {"id": 99, "order": 9}]}`, entryIDs[0])).
		Put(reorderURL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())

	for name, body := range map[string]string{
		"not an array":  `{"exercises": "nope"}`,
		"missing order": `{"exercises": [{"id": 1}]}`,
		"missing key":   `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			resp, err := client.R().SetAuthToken(alice).SetBody(body).Put(reorderURL)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
		})
	}

	resp, err = client.R().
		SetAuthToken(bob).
		SetBody(`{"exercises": []}`).
		Put(reorderURL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())

	var detail handler.RoutineDetailResponse
	resp, err = client.R().
		SetAuthToken(alice).
		SetResult(&detail).
		Get(fmt.Sprintf("/routines/%d", routine.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Len(t, detail.Exercises, 2)
	assert.Equal(t, entryIDs[1], detail.Exercises[0].ID)
	assert.Equal(t, 1, detail.Exercises[0].Order)
	assert.Equal(t, entryIDs[0], detail.Exercises[1].ID)
	assert.Equal(t, 5, detail.Exercises[1].Order)

	resp, err = client.R().
		SetAuthToken(alice).
		Delete(fmt.Sprintf("/exercise-types/%d", squat.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode())
}

func TestFriendshipsAndFeed(t *testing.T) {
	client := newTestServer(t, testConfig())
	alice := signUp(t, client, "alice")
	bob := signUp(t, client, "bob")

	var edge handler.FriendshipResponse
	resp, err := client.R().
		SetAuthToken(alice).
		SetBody(`{"friend": "bob"}`).
		SetResult(&edge).
		Post("/friendships")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode(), resp.String())
	assert.EqualValues(t, "sent", edge.Tipo)
	assert.Equal(t, "bob", edge.TargetUsername)
	assert.Equal(t, "alice@x.com", edge.InitiatorEmail)

	resp, err = client.R().SetAuthToken(alice).SetBody(`{"friend": "bob"}`).Post("/friendships")
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode())

	resp, err = client.R().SetAuthToken(alice).SetBody(`{"friend": "alice@x.com"}`).Post("/friendships")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())

	edgeURL := fmt.Sprintf("/friendships/%d", edge.ID)
	resp, err = client.R().SetAuthToken(alice).SetBody(`{"status": "accepted"}`).Patch(edgeURL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode())

	var answered handler.FriendshipResponse
	resp, err = client.R().SetAuthToken(bob).SetBody(`{"status": "accepted"}`).SetResult(&answered).Patch(edgeURL)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())
	assert.EqualValues(t, "received", answered.Tipo)
	assert.EqualValues(t, "accepted", answered.Status)

	resp, err = client.R().SetAuthToken(bob).SetBody(`{"status": "rejected"}`).Patch(edgeURL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode())

	var post handler.PostResponse
	resp, err = client.R().
		SetAuthToken(bob).
		SetBody(`{"content": "5x5 done", "category": "strength"}`).
		SetResult(&post).
		Post("/posts")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode(), resp.String())

	likeURL := fmt.Sprintf("/posts/%d/like", post.ID)
	resp, err = client.R().SetAuthToken(alice).Post(likeURL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode())

	resp, err = client.R().SetAuthToken(alice).Post(likeURL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())

	var feed []handler.PostResponse
	resp, err = client.R().SetAuthToken(alice).SetResult(&feed).Get("/posts")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Len(t, feed, 1)
	assert.Equal(t, "bob", feed[0].User)
	assert.EqualValues(t, 1, feed[0].LikesCount)
	assert.True(t, feed[0].LikedByUser)

	resp, err = client.R().SetAuthToken(alice).Get(fmt.Sprintf("/posts/%d", post.ID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())

	resp, err = client.R().SetAuthToken(alice).Delete(likeURL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode())

	resp, err = client.R().SetAuthToken(alice).Delete(likeURL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())

	resp, err = client.R().SetAuthToken(bob).Delete(edgeURL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode())
}

func TestDeletedUserTokenRejected(t *testing.T) {
	client := newTestServer(t, testConfig())
	alice := signUp(t, client, "alice")

	resp, err := client.R().SetAuthToken(alice).Delete("/users/me")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode())

	resp, err = client.R().SetAuthToken(alice).Get("/users/me")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
}

func TestAuthRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.AuthRatePerMinute = 1
	cfg.AuthRateBurst = 2
	client := newTestServer(t, cfg)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := client.R().SetBody(`{"email": "a@x.com", "password": "x"}`).Post("/auth/login")
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode())
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}
