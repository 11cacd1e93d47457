package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worksync/internal/dto"
	"worksync/internal/model"
	"worksync/pkg/responses"
)

func TestMessageService_Send(t *testing.T) {
	e := newEnv(t)
	admin := e.fx.CreateUser(e.ctx, "Admin", "admin@example.com")
	member := e.fx.CreateUser(e.ctx, "Member", "member@example.com")
	outsider := e.fx.CreateUser(e.ctx, "Outsider", "outsider@example.com")
	team := e.fx.CreateTeam(e.ctx, admin, "Core", member)

	_, err := e.messages.Send(e.ctx, member, team.ID, "   ")
	assert.EqualError(t, err, "[400] Message content cannot be empty")

	_, err = e.messages.Send(e.ctx, outsider, team.ID, "let me in")
	assert.ErrorIs(t, err, responses.ErrChatAccessDenied)

	msg, err := e.messages.Send(e.ctx, member, team.ID, " hello team ")
	require.NoError(t, err)
	assert.Equal(t, "hello team", msg.Content)
	assert.Equal(t, team.ID, msg.TeamID)
	require.NotNil(t, msg.Sender)
	assert.Equal(t, "Member", msg.Sender.Name)
	assert.Equal(t, []int64{member.ID}, msg.ReadBy)

	list, err := e.messages.List(e.ctx, admin, team.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = e.messages.List(e.ctx, outsider, team.ID)
	assert.ErrorIs(t, err, responses.ErrChatAccessDenied)
}

func TestMessageService_UpdateAndDeleteOwnOnly(t *testing.T) {
	e := newEnv(t)
	admin := e.fx.CreateUser(e.ctx, "Admin", "admin@example.com")
	member := e.fx.CreateUser(e.ctx, "Member", "member@example.com")
	team := e.fx.CreateTeam(e.ctx, admin, "Core", member)
	other := e.fx.CreateTeam(e.ctx, member, "Other")
	msg := e.fx.CreateMessage(e.ctx, team, member, "typo")

	_, err := e.messages.Update(e.ctx, admin, team.ID, msg.ID, &dto.UpdateMessageRequest{Content: "hijack"})
	assert.ErrorIs(t, err, responses.ErrMessageEditDenied)

	// 消息必须属于路径中的团队
	_, err = e.messages.Update(e.ctx, member, other.ID, msg.ID, &dto.UpdateMessageRequest{Content: "x"})
	assert.ErrorIs(t, err, responses.ErrMessageNotFound)

	_, err = e.messages.Update(e.ctx, member, team.ID, msg.ID, &dto.UpdateMessageRequest{Content: "   "})
	assert.ErrorIs(t, err, responses.ErrEmptyMessage)
	var stored model.Message
	require.NoError(t, e.db.First(&stored, msg.ID).Error)
	assert.Equal(t, "typo", stored.Content)
	assert.False(t, stored.IsEdited)

	updated, err := e.messages.Update(e.ctx, member, team.ID, msg.ID, &dto.UpdateMessageRequest{Content: "  fixed "})
	require.NoError(t, err)
	assert.Equal(t, "fixed", updated.Content)
	assert.True(t, updated.IsEdited)

	assert.ErrorIs(t, e.messages.Delete(e.ctx, admin, team.ID, msg.ID), responses.ErrMessageDeleteDenied)
	require.NoError(t, e.messages.Delete(e.ctx, member, team.ID, msg.ID))
	assert.ErrorIs(t, e.messages.Delete(e.ctx, member, team.ID, msg.ID), responses.ErrMessageNotFound)
}

func TestMessageService_MarkRead(t *testing.T) {
	e := newEnv(t)
	admin := e.fx.CreateUser(e.ctx, "Admin", "admin@example.com")
	member := e.fx.CreateUser(e.ctx, "Member", "member@example.com")
	outsider := e.fx.CreateUser(e.ctx, "Outsider", "outsider@example.com")
	team := e.fx.CreateTeam(e.ctx, admin, "Core", member)
	e.fx.CreateMessage(e.ctx, team, admin, "one")
	e.fx.CreateMessage(e.ctx, team, admin, "two")

	_, err := e.messages.MarkRead(e.ctx, outsider, team.ID)
	assert.ErrorIs(t, err, responses.ErrTeamAccessDenied)

	modified, err := e.messages.MarkRead(e.ctx, member, team.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, modified)

	modified, err = e.messages.MarkRead(e.ctx, member, team.ID)
	require.NoError(t, err)
	assert.Zero(t, modified)

	list, err := e.messages.List(e.ctx, member, team.ID)
	require.NoError(t, err)
	for _, m := range list {
		assert.ElementsMatch(t, []int64{admin.ID, member.ID}, m.ReadBy)
	}
}

func TestNotificationService(t *testing.T) {
	e := newEnv(t)
	alice := e.fx.CreateUser(e.ctx, "Alice", "alice@example.com")
	bob := e.fx.CreateUser(e.ctx, "Bob", "bob@example.com")
	first := e.fx.CreateNotification(e.ctx, alice, bob, "first")
	e.fx.CreateNotification(e.ctx, alice, bob, "second")
	foreign := e.fx.CreateNotification(e.ctx, bob, alice, "not yours")

	list, err := e.notification.List(e.ctx, alice)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.EqualValues(t, 2, list.UnreadCount)
	assert.Equal(t, "Bob", list.Items[0].TriggeredBy.Name)

	read, err := e.notification.MarkRead(e.ctx, alice, first.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	_, err = e.notification.MarkRead(e.ctx, alice, foreign.ID)
	assert.ErrorIs(t, err, responses.ErrNotificationNotFound)
	assert.ErrorIs(t, e.notification.Delete(e.ctx, alice, foreign.ID), responses.ErrNotificationNotFound)

	require.NoError(t, e.notification.MarkAllRead(e.ctx, alice))
	list, err = e.notification.List(e.ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, list.UnreadCount)

	require.NoError(t, e.notification.Delete(e.ctx, alice, first.ID))
	require.NoError(t, e.notification.DeleteAll(e.ctx, alice))
	list, err = e.notification.List(e.ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	list, err = e.notification.List(e.ctx, bob)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestUserService(t *testing.T) {
	e := newEnv(t)
	ada := e.fx.CreateUser(e.ctx, "Ada", "ada@example.com")
	e.fx.CreateUser(e.ctx, "Grace", "grace@example.com")

	_, err := e.users.UpdateMe(e.ctx, ada, &dto.UpdateMeRequest{Password: strPtr("sneaky123")})
	assert.ErrorIs(t, err, responses.ErrPasswordRouteMisuse)

	updated, err := e.users.UpdateMe(e.ctx, ada, &dto.UpdateMeRequest{Name: strPtr("Ada L."), Bio: strPtr("math")})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", updated.Name)
	assert.Equal(t, "math", updated.Bio)
	assert.Equal(t, "ada@example.com", updated.Email)

	_, err = e.users.UpdateMe(e.ctx, ada, &dto.UpdateMeRequest{Email: strPtr("grace@example.com")})
	assert.ErrorIs(t, err, responses.ErrEmailTaken)

	got, err := e.users.GetByID(e.ctx, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", got.Name)

	_, err = e.users.GetByID(e.ctx, 9999)
	assert.EqualError(t, err, "[404] User with ID 9999 not found")

	list, err := e.users.List(e.ctx, &dto.UserListQuery{Keyword: "grace"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Grace", list[0].Name)
}
