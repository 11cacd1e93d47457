package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worksync/internal/model"
	"worksync/internal/repository"
	"worksync/internal/testutil"
	"worksync/pkg/responses"
)

func TestNotificationRepository_ScopedToRecipient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fx.CreateUser(ctx, "Alice", "alice@example.com")
	bob := fx.CreateUser(ctx, "Bob", "bob@example.com")
	first := fx.CreateNotification(ctx, alice, bob, "first")
	second := fx.CreateNotification(ctx, alice, bob, "second")
	foreign := fx.CreateNotification(ctx, bob, alice, "for bob")

	repo := repository.NewNotificationRepository(db)

	list, err := repo.ListForRecipient(ctx, alice.ID, 50)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	require.NotNil(t, list[0].TriggeredBy)
	assert.Equal(t, "Bob", list[0].TriggeredBy.Name)

	limited, err := repo.ListForRecipient(ctx, alice.ID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	// 不能操作他人的通知
	_, err = repo.MarkRead(ctx, foreign.ID, alice.ID)
	assert.ErrorIs(t, err, responses.ErrNotificationNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, foreign.ID, alice.ID), responses.ErrNotificationNotFound)

	read, err := repo.MarkRead(ctx, first.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	unread, err := repo.CountUnread(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)

	require.NoError(t, repo.MarkAllRead(ctx, alice.ID))
	unread, err = repo.CountUnread(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)

	unread, err = repo.CountUnread(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)

	require.NoError(t, repo.DeleteAll(ctx, alice.ID))
	list, err = repo.ListForRecipient(ctx, alice.ID, 50)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = repo.ListForRecipient(ctx, bob.ID, 50)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestNotificationRepository_PruneRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fx.CreateUser(ctx, "Alice", "alice@example.com")
	bob := fx.CreateUser(ctx, "Bob", "bob@example.com")
	oldRead := fx.CreateNotification(ctx, alice, bob, "old read")
	oldUnread := fx.CreateNotification(ctx, alice, bob, "old unread")
	freshRead := fx.CreateNotification(ctx, alice, bob, "fresh read")

	old := time.Now().AddDate(0, 0, -60)
	require.NoError(t, db.Model(&model.Notification{}).
		Where("id IN ?", []int64{oldRead.ID, oldUnread.ID}).
		UpdateColumn("created_at", old).Error)
	require.NoError(t, db.Model(&model.Notification{}).
		Where("id IN ?", []int64{oldRead.ID, freshRead.ID}).
		UpdateColumn("is_read", true).Error)

	repo := repository.NewNotificationRepository(db)
	pruned, err := repo.PruneRead(ctx, time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.EqualValues(t, 1, pruned)

	var remaining []int64
	require.NoError(t, db.Model(&model.Notification{}).Order("id").Pluck("id", &remaining).Error)
	assert.Equal(t, []int64{oldUnread.ID, freshRead.ID}, remaining)
}
