package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travenion/internal/domain"
	"travenion/internal/repo"
	"travenion/testutil"
)

// beginTestTx opens a transaction against the test database and rolls it back
// when the test finishes, giving free per-test isolation. Every repo helper in
// this package builds on it.
func beginTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test.
		_ = tx.Rollback(context.Background())
	})
	return tx
}

// userFixture returns a domain.User ready for insertion. Usernames carry a
// random suffix so leftovers from aborted runs never collide with new inserts.
func userFixture() domain.User {
	suffix := uuid.NewString()[:8]
	return domain.User{
		Username:     "traveler-" + suffix,
		Email:        "traveler-" + suffix + "@example.com",
		PasswordHash: "$2a$10$fakehashfakehashfakehash",
		Nickname:     "Traveler",
		IsActive:     true,
	}
}

// mustCreateUser inserts a user and fails the test on any error.
func mustCreateUser(t *testing.T, r repo.UserRepo) domain.User {
	t.Helper()
	user, err := r.Create(context.Background(), userFixture())
	require.NoError(t, err, "create user")
	return user
}

func TestUserRepo_Create(t *testing.T) {
	r := repo.NewUserRepo(beginTestTx(t))
	ctx := context.Background()

	input := userFixture()
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.UUID{}, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, input.Username, got.Username)
	assert.Equal(t, input.Email, got.Email)
	assert.Equal(t, input.PasswordHash, got.PasswordHash)
	assert.True(t, got.IsActive)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

func TestUserRepo_Create_DuplicateUsername(t *testing.T) {
	r := repo.NewUserRepo(beginTestTx(t))
	ctx := context.Background()

	input := userFixture()
	_, err := r.Create(ctx, input)
	require.NoError(t, err)

	dup := userFixture()
	dup.Username = input.Username
	_, err = r.Create(ctx, dup)

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserRepo_GetByUsername(t *testing.T) {
	r := repo.NewUserRepo(beginTestTx(t))
	ctx := context.Background()

	created := mustCreateUser(t, r)

	got, err := r.GetByUsername(ctx, created.Username)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestUserRepo_GetByUsername_NotFound(t *testing.T) {
	r := repo.NewUserRepo(beginTestTx(t))

	_, err := r.GetByUsername(context.Background(), "nobody-here")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_EmailTaken(t *testing.T) {
	r := repo.NewUserRepo(beginTestTx(t))
	ctx := context.Background()

	created := mustCreateUser(t, r)
	other := mustCreateUser(t, r)

	taken, err := r.EmailTaken(ctx, created.Email, other.ID)
	require.NoError(t, err)
	assert.True(t, taken, "email belongs to another user")

	taken, err = r.EmailTaken(ctx, created.Email, created.ID)
	require.NoError(t, err)
	assert.False(t, taken, "a user's own email is not a collision")
}

func TestUserRepo_UpdateProfile(t *testing.T) {
	r := repo.NewUserRepo(beginTestTx(t))
	ctx := context.Background()

	created := mustCreateUser(t, r)
	created.Nickname = "Wanderer"
	created.Avatar = "https://example.com/a.png"

	got, err := r.UpdateProfile(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, "Wanderer", got.Nickname)
	assert.Equal(t, "https://example.com/a.png", got.Avatar)
}

func TestUserRepo_UpdatePassword(t *testing.T) {
	r := repo.NewUserRepo(beginTestTx(t))
	ctx := context.Background()

	created := mustCreateUser(t, r)

	err := r.UpdatePassword(ctx, created.ID, "$2a$10$anotherfakehash")
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$anotherfakehash", got.PasswordHash)
}

func TestUserRepo_UpdatePassword_NotFound(t *testing.T) {
	r := repo.NewUserRepo(beginTestTx(t))

	err := r.UpdatePassword(context.Background(), uuid.New(), "hash")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_ListOthers(t *testing.T) {
	r := repo.NewUserRepo(beginTestTx(t))
	ctx := context.Background()

	me := mustCreateUser(t, r)
	other := mustCreateUser(t, r)

	users, err := r.ListOthers(ctx, me.ID)

	require.NoError(t, err)
	var ids []uuid.UUID
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	assert.Contains(t, ids, other.ID)
	assert.NotContains(t, ids, me.ID, "caller is excluded from the directory")
}
