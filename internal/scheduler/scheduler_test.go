package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"worksync/internal/model"
	"worksync/internal/pkg/config"
	"worksync/internal/repository"
	"worksync/internal/scheduler"
	"worksync/internal/testutil"
)

func newScheduler(t *testing.T, cfg *config.SchedulerConfig) (*scheduler.Scheduler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	s := scheduler.NewScheduler(cfg,
		repository.NewUserRepository(db),
		repository.NewNotificationRepository(db),
		zap.NewNop())
	return s, testutil.NewFixtures(t, db)
}

func TestScheduler_StartRegistersConfiguredJobs(t *testing.T) {
	s, _ := newScheduler(t, &config.SchedulerConfig{
		ResetTokenSweepCron: "0 */10 * * * *",
	})

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Equal(t, []string{scheduler.JobResetTokenSweep}, s.Registered())
}

func TestScheduler_StartRejectsBadSpec(t *testing.T) {
	s, _ := newScheduler(t, &config.SchedulerConfig{
		ResetTokenSweepCron: "every ten minutes",
	})
	assert.Error(t, s.Start())
}

func TestScheduler_SweepResetTokens(t *testing.T) {
	s, fx := newScheduler(t, &config.SchedulerConfig{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fx.CreateUser(ctx, "Ada", "ada@example.com")
	digest := "digest"
	expired := time.Now().Add(-time.Minute)
	user.PasswordResetToken = &digest
	user.PasswordResetExpires = &expired
	require.NoError(t, fx.DB().Save(user).Error)

	swept, err := s.SweepResetTokens(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, swept)

	swept, err = s.SweepResetTokens(ctx)
	require.NoError(t, err)
	assert.Zero(t, swept)
}

func TestScheduler_PruneNotifications(t *testing.T) {
	s, fx := newScheduler(t, &config.SchedulerConfig{NotificationRetentionDays: 7})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fx.CreateUser(ctx, "Alice", "alice@example.com")
	bob := fx.CreateUser(ctx, "Bob", "bob@example.com")
	old := fx.CreateNotification(ctx, alice, bob, "old")
	fx.CreateNotification(ctx, alice, bob, "new")
	require.NoError(t, fx.DB().Model(&model.Notification{}).Where("recipient_id = ?", alice.ID).
		UpdateColumn("is_read", true).Error)
	require.NoError(t, fx.DB().Model(old).UpdateColumn("created_at", time.Now().AddDate(0, 0, -8)).Error)

	pruned, err := s.PruneNotifications(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pruned)
}

func TestScheduler_PruneDisabled(t *testing.T) {
	s, _ := newScheduler(t, &config.SchedulerConfig{NotificationRetentionDays: 0})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	pruned, err := s.PruneNotifications(ctx)
	require.NoError(t, err)
	assert.Zero(t, pruned)
}
