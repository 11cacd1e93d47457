package service_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"worksync/internal/dto"
	"worksync/internal/model"
	"worksync/internal/pkg/jwt"
	"worksync/internal/pkg/mailer"
	"worksync/internal/testutil"
	"worksync/pkg/responses"
)

func TestAuthService_SignUpAndLogin(t *testing.T) {
	e := newEnv(t)

	result, err := e.auth.SignUp(e.ctx, &dto.SignUpRequest{
		Name:            " Ada ",
		Email:           "Ada@Example.com",
		Password:        "password123",
		PasswordConfirm: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "Ada", result.User.Name)
	assert.Equal(t, "ada@example.com", result.User.Email)
	assert.Equal(t, "default.jpg", result.User.Photo)

	user, err := e.auth.Authenticate(e.ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, user.ID)

	_, err = e.auth.SignUp(e.ctx, &dto.SignUpRequest{
		Name: "Ada 2", Email: "ada@example.com", Password: "password123", PasswordConfirm: "password123",
	})
	assert.ErrorIs(t, err, responses.ErrEmailTaken)

	login, err := e.auth.Login(e.ctx, &dto.LoginRequest{Email: "ADA@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, login.User.ID)
}

func TestAuthService_SignUpPasswordMismatch(t *testing.T) {
	e := newEnv(t)

	_, err := e.auth.SignUp(e.ctx, &dto.SignUpRequest{
		Name: "Ada", Email: "ada@example.com", Password: "password123", PasswordConfirm: "password321",
	})
	assert.ErrorIs(t, err, responses.ErrPasswordMismatch)
}

func TestAuthService_LoginFailures(t *testing.T) {
	e := newEnv(t)
	e.fx.CreateUser(e.ctx, "Ada", "ada@example.com")

	_, err := e.auth.Login(e.ctx, &dto.LoginRequest{Email: "ada@example.com"})
	assert.ErrorIs(t, err, responses.ErrMissingCredentials)

	// 不区分用户不存在与密码错误
	_, err = e.auth.Login(e.ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, responses.ErrInvalidCredentials)
	_, err = e.auth.Login(e.ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, responses.ErrInvalidCredentials)
}

func TestAuthService_Authenticate(t *testing.T) {
	e := newEnv(t)
	ada := e.fx.CreateUser(e.ctx, "Ada", "ada@example.com")

	_, err := e.auth.Authenticate(e.ctx, "")
	assert.ErrorIs(t, err, responses.ErrNotLoggedIn)

	_, err = e.auth.Authenticate(e.ctx, "garbage")
	assert.ErrorIs(t, err, responses.ErrInvalidToken)

	ghost, err := e.tokens.Generate(ada.ID + 100)
	require.NoError(t, err)
	_, err = e.auth.Authenticate(e.ctx, ghost)
	assert.ErrorIs(t, err, responses.ErrUserGone)

	// 签发后修改过密码的 token 失效
	issued := time.Now().Add(-30 * time.Minute)
	cfg := testutil.TestConfig()
	stale, err := jwt.NewManager(&cfg.Auth.JWT).WithClock(func() time.Time { return issued }).Generate(ada.ID)
	require.NoError(t, err)
	changed := time.Now().Add(-time.Minute)
	require.NoError(t, e.db.Model(&model.User{}).Where("id = ?", ada.ID).Update("password_changed_at", changed).Error)

	_, err = e.auth.Authenticate(e.ctx, stale)
	assert.ErrorIs(t, err, responses.ErrStaleToken)

	fresh, err := e.tokens.Generate(ada.ID)
	require.NoError(t, err)
	_, err = e.auth.Authenticate(e.ctx, fresh)
	assert.NoError(t, err)
}

func TestAuthService_UpdatePassword(t *testing.T) {
	e := newEnv(t)
	ada := e.fx.CreateUser(e.ctx, "Ada", "ada@example.com")

	_, err := e.auth.UpdatePassword(e.ctx, ada, &dto.UpdatePasswordRequest{
		PasswordCurrent: "nope", Password: "newpassword1", PasswordConfirm: "newpassword1",
	})
	assert.ErrorIs(t, err, responses.ErrWrongPassword)

	_, err = e.auth.UpdatePassword(e.ctx, ada, &dto.UpdatePasswordRequest{
		PasswordCurrent: testutil.DefaultPassword, Password: "newpassword1", PasswordConfirm: "different1",
	})
	assert.ErrorIs(t, err, responses.ErrPasswordMismatch)

	result, err := e.auth.UpdatePassword(e.ctx, ada, &dto.UpdatePasswordRequest{
		PasswordCurrent: testutil.DefaultPassword, Password: "newpassword1", PasswordConfirm: "newpassword1",
	})
	require.NoError(t, err)

	// 新签发的 token 立即可用
	_, err = e.auth.Authenticate(e.ctx, result.Token)
	require.NoError(t, err)

	_, err = e.auth.Login(e.ctx, &dto.LoginRequest{Email: "ada@example.com", Password: testutil.DefaultPassword})
	assert.ErrorIs(t, err, responses.ErrInvalidCredentials)
	_, err = e.auth.Login(e.ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "newpassword1"})
	assert.NoError(t, err)
}

func TestAuthService_ForgotAndResetPassword(t *testing.T) {
	e := newEnv(t)
	e.fx.CreateUser(e.ctx, "Ada", "ada@example.com")

	var sent *mailer.Message
	e.mailer.On("Send", mock.Anything, mock.AnythingOfType("*mailer.Message")).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*mailer.Message) }).
		Return(nil).Once()

	require.NoError(t, e.auth.ForgotPassword(e.ctx, &dto.ForgotPasswordRequest{Email: "ada@example.com"}))
	e.mailer.AssertExpectations(t)
	require.NotNil(t, sent)
	assert.Equal(t, "ada@example.com", sent.To)
	assert.Equal(t, mailer.TemplatePasswordReset, sent.Template)

	data := sent.Data.(mailer.PasswordResetData)
	assert.Equal(t, 10, data.ValidMinutes)
	prefix := "http://localhost:5173/reset-password/"
	require.True(t, strings.HasPrefix(data.ResetURL, prefix))
	raw := strings.TrimPrefix(data.ResetURL, prefix)

	// 库里只存摘要
	var stored model.User
	require.NoError(t, e.db.Where("email = ?", "ada@example.com").First(&stored).Error)
	require.NotNil(t, stored.PasswordResetToken)
	assert.NotEqual(t, raw, *stored.PasswordResetToken)

	_, err := e.auth.ResetPassword(e.ctx, raw, &dto.ResetPasswordRequest{Password: "resetpass1", PasswordConfirm: "other"})
	assert.ErrorIs(t, err, responses.ErrPasswordMismatch)

	result, err := e.auth.ResetPassword(e.ctx, raw, &dto.ResetPasswordRequest{Password: "resetpass1", PasswordConfirm: "resetpass1"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	// token 只能使用一次
	_, err = e.auth.ResetPassword(e.ctx, raw, &dto.ResetPasswordRequest{Password: "resetpass2", PasswordConfirm: "resetpass2"})
	assert.ErrorIs(t, err, responses.ErrResetTokenInvalid)

	_, err = e.auth.Login(e.ctx, &dto.LoginRequest{Email: "ada@example.com", Password: "resetpass1"})
	assert.NoError(t, err)
}

func TestAuthService_ForgotPasswordFailures(t *testing.T) {
	e := newEnv(t)
	ada := e.fx.CreateUser(e.ctx, "Ada", "ada@example.com")

	err := e.auth.ForgotPassword(e.ctx, &dto.ForgotPasswordRequest{Email: "nobody@example.com"})
	assert.ErrorIs(t, err, responses.ErrNoUserWithEmail)

	e.mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()
	err = e.auth.ForgotPassword(e.ctx, &dto.ForgotPasswordRequest{Email: "ada@example.com"})
	assert.ErrorIs(t, err, responses.ErrEmailDelivery)

	// 发送失败时回滚 token
	var stored model.User
	require.NoError(t, e.db.First(&stored, ada.ID).Error)
	assert.Nil(t, stored.PasswordResetToken)
	assert.Nil(t, stored.PasswordResetExpires)
}
