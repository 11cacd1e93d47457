package notification_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"worksync/internal/adapter/notification"
	"worksync/internal/model"
	"worksync/internal/repository"
	"worksync/internal/testutil"
	"worksync/pkg/constants"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Send(ctx context.Context, n *model.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func actor(id int64, name string) *model.User {
	u := &model.User{Name: name}
	u.ID = id
	return u
}

func TestDispatcher_ContinuesAfterFailure(t *testing.T) {
	notifier := &mockNotifier{}
	first := &model.Notification{RecipientID: 1, Type: constants.NotifyNoteAdded}
	second := &model.Notification{RecipientID: 2, Type: constants.NotifyNoteAdded}
	notifier.On("Send", mock.Anything, first).Return(errors.New("boom")).Once()
	notifier.On("Send", mock.Anything, second).Return(nil).Once()

	d := notification.NewDispatcher(notifier, zap.NewNop())
	d.Dispatch(context.Background(), first, nil, second)

	notifier.AssertExpectations(t)
}

func TestMultiNotifier(t *testing.T) {
	ok := &mockNotifier{}
	failing := &mockNotifier{}
	n := &model.Notification{RecipientID: 1, Type: constants.NotifyTeamAdded}
	ok.On("Send", mock.Anything, n).Return(nil).Once()
	failing.On("Send", mock.Anything, n).Return(errors.New("down")).Once()

	multi := notification.NewMultiNotifier(zap.NewNop(), failing, ok, notification.NewLogNotifier(zap.NewNop()))
	err := multi.Send(context.Background(), n)
	assert.EqualError(t, err, "down")

	ok.AssertExpectations(t)
	failing.AssertExpectations(t)
}

func TestStoreNotifier(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateUser(ctx, "Admin", "admin@example.com")
	member := fx.CreateUser(ctx, "Member", "member@example.com")
	team := fx.CreateTeam(ctx, admin, "Core")

	store := notification.NewStoreNotifier(repository.NewNotificationRepository(db))
	require.NoError(t, store.Send(ctx, notification.TeamAdded(admin, team, member.ID)))

	var saved model.Notification
	require.NoError(t, db.Where("recipient_id = ?", member.ID).First(&saved).Error)
	assert.Equal(t, constants.NotifyTeamAdded, saved.Type)
	assert.False(t, saved.IsRead)
	require.NotNil(t, saved.RelatedTeamID)
	assert.Equal(t, team.ID, *saved.RelatedTeamID)
}

func TestBuilders(t *testing.T) {
	alice := actor(1, "Alice")
	task := &model.Task{Title: "Ship", Status: constants.TaskStatusCompleted}
	task.ID = 7

	assigned := notification.TaskAssigned(alice, task, 2)
	assert.Equal(t, `Alice assigned "Ship" to you`, assigned.Message)
	assert.Equal(t, int64(7), *assigned.RelatedTaskID)
	assert.Equal(t, int64(1), assigned.TriggeredByID)

	changed := notification.TaskStatusChanged(alice, task, 3)
	assert.Equal(t, `Alice changed "Ship" status to Completed`, changed.Message)
	assert.Equal(t, int64(3), changed.RecipientID)

	notes := notification.NoteAdded(alice, task, []int64{1, 2, 3})
	require.Len(t, notes, 2)
	assert.Equal(t, int64(2), notes[0].RecipientID)
	assert.Equal(t, int64(3), notes[1].RecipientID)
	assert.Equal(t, `Alice added a note to "Ship"`, notes[0].Message)
}
