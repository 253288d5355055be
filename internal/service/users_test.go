package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"fitsocial/backend/internal/models"
	"fitsocial/backend/internal/testutil"
)

func newUsers(t *testing.T) (*Users, func() int64) {
	db := testutil.NewDB(t)
	s := NewUsers(db, testutil.Logger()).WithBcryptCost(bcrypt.MinCost)
	count := func() int64 {
		var n int64
		require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
		return n
	}
	return s, count
}

func validRegistration() RegisterParams {
	return RegisterParams{
		Email:     "alice@Example.COM",
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Liddell",
		Password:  "Rabbit-Hole-42",
		Password2: "Rabbit-Hole-42",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account", func(t *testing.T) {
		s, count := newUsers(t)

		u, err := s.Register(ctx, validRegistration())
		require.NoError(t, err)

		assert.NotZero(t, u.ID)
		assert.Equal(t, "alice@example.com", u.Email)
		assert.True(t, u.IsActive)
		assert.NotEqual(t, "Rabbit-Hole-42", u.PasswordHash)
		assert.EqualValues(t, 1, count())
	})

	t.Run("password mismatch", func(t *testing.T) {
		s, count := newUsers(t)
		p := validRegistration()
		p.Password2 = "something-else-42"

		_, err := s.Register(ctx, p)
		assert.True(t, IsKind(err, KindInvalidRequest), "got %v", err)
		assert.Zero(t, count())
	})

	t.Run("weak passwords", func(t *testing.T) {
		for name, pw := range map[string]string{
			"short":   "Ab1!",
			"numeric": "9081726354",
			"common":  "password123",
			"similar": "alice2024!",
		} {
			t.Run(name, func(t *testing.T) {
				s, _ := newUsers(t)
				p := validRegistration()
				p.Password, p.Password2 = pw, pw

				_, err := s.Register(ctx, p)
				assert.True(t, IsKind(err, KindInvalidRequest), "got %v", err)
			})
		}
	})

	t.Run("duplicate email or username", func(t *testing.T) {
		s, count := newUsers(t)
		_, err := s.Register(ctx, validRegistration())
		require.NoError(t, err)

		p := validRegistration()
		p.Username = "alice2"
		_, err = s.Register(ctx, p)
		assert.True(t, IsKind(err, KindConflict), "got %v", err)

		p = validRegistration()
		p.Email = "other@example.com"
		_, err = s.Register(ctx, p)
		assert.True(t, IsKind(err, KindConflict), "got %v", err)

		assert.EqualValues(t, 1, count())
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	s, _ := newUsers(t)
	registered, err := s.Register(ctx, validRegistration())
	require.NoError(t, err)

	u, err := s.Authenticate(ctx, "alice@example.com", "Rabbit-Hole-42")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	_, err = s.Authenticate(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Authenticate(ctx, "nobody@example.com", "Rabbit-Hole-42")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, s.db.Model(&models.User{}).Where("id = ?", u.ID).Update("is_active", false).Error)
	_, err = s.Authenticate(ctx, "alice@example.com", "Rabbit-Hole-42")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserList(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	s := NewUsers(db, testutil.Logger())
	for _, name := range []string{"alice", "bob", "alfred", "carol"} {
		testutil.CreateUser(t, db, name)
	}
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "carol").Update("is_active", false).Error)

	users, total, err := s.List(ctx, "", 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)

	users, total, err = s.List(ctx, "AL", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 2)

	users, _, err = s.List(ctx, "", 3, 1)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alfred", users[0].Username)
}

func TestUpdateProfileAndDelete(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	s := NewUsers(db, testutil.Logger())
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	testutil.CreatePost(t, db, alice, "leg day")
	require.NoError(t, db.Create(&models.Friendship{InitiatorID: alice.ID, TargetID: bob.ID, Status: models.StatusPending}).Error)

	first := "Alicia"
	u, err := s.UpdateProfile(ctx, alice.ID, ProfileUpdate{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", u.FirstName)
	assert.Equal(t, "Tester", u.LastName)
	assert.Equal(t, "alice", u.Username)

	require.NoError(t, s.Delete(ctx, alice.ID))

	_, err = s.Get(ctx, alice.ID)
	assert.True(t, IsKind(err, KindNotFound), "got %v", err)

	var posts, edges int64
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.Friendship{}).Count(&edges).Error)
	assert.Zero(t, posts)
	assert.Zero(t, edges)

	err = s.Delete(ctx, alice.ID)
	assert.True(t, IsKind(err, KindNotFound), "got %v", err)
}
