package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/devfolio/internal/domain/model"
	"github.com/ericfisherdev/devfolio/internal/domain/port/driven"
)

func TestContactRepo_SaveAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepo(db)
	ctx := context.Background()

	createdAt := time.Date(2026, 3, 14, 12, 30, 0, 123, time.UTC)
	saved, err := repo.Save(ctx, model.ContactMessage{
		Email:     "dev@example.com",
		Message:   "Hello there",
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.False(t, saved.Delivered)

	got, err := repo.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", got.Email)
	assert.Equal(t, "Hello there", got.Message)
	assert.True(t, createdAt.Equal(got.CreatedAt))
	assert.False(t, got.Delivered)
	assert.True(t, got.DeliveredAt.IsZero())
}

func TestContactRepo_SaveDefaultsCreatedAt(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepo(db)

	before := time.Now().UTC().Add(-time.Second)
	saved, err := repo.Save(context.Background(), model.ContactMessage{Email: "a@b.c", Message: "m"})
	require.NoError(t, err)

	assert.True(t, saved.CreatedAt.After(before))
}

func TestContactRepo_MarkDelivered(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepo(db)
	ctx := context.Background()

	saved, err := repo.Save(ctx, model.ContactMessage{Email: "a@b.c", Message: "m"})
	require.NoError(t, err)

	at := time.Date(2026, 3, 14, 13, 0, 0, 0, time.UTC)
	require.NoError(t, repo.MarkDelivered(ctx, saved.ID, at))

	got, err := repo.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, got.Delivered)
	assert.True(t, at.Equal(got.DeliveredAt))
}

func TestContactRepo_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepo(db)
	ctx := context.Background()

	_, err := repo.Get(ctx, 999)
	assert.ErrorIs(t, err, driven.ErrContactNotFound)

	err = repo.MarkDelivered(ctx, 999, time.Now())
	assert.ErrorIs(t, err, driven.ErrContactNotFound)
}

func TestContactRepo_ListRecent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContactRepo(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, body := range []string{"first", "second", "third"} {
		_, err := repo.Save(ctx, model.ContactMessage{
			Email:     "a@b.c",
			Message:   body,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	recent, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "third", recent[0].Message)
	assert.Equal(t, "second", recent[1].Message)

	all, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestContactRepo_ListRecentEmpty(t *testing.T) {
	db := setupTestDB(t)

	recent, err := NewContactRepo(db).ListRecent(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, recent)
	assert.Empty(t, recent)
}

func TestNewDB_FileBacked(t *testing.T) {
	path := t.TempDir() + "/devfolio.db"

	db, err := NewDB(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Equal(t, path, db.Path())

	_, err = NewContactRepo(db).Save(context.Background(), model.ContactMessage{Email: "a@b.c", Message: "m"})
	require.NoError(t, err)
}
