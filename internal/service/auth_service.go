package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"worksync/internal/dto"
	"worksync/internal/model"
	"worksync/internal/pkg/crypto"
	"worksync/internal/pkg/jwt"
	"worksync/internal/pkg/mailer"
	"worksync/internal/repository"
	"worksync/pkg/constants"
	"worksync/pkg/responses"
)

// ResetTokenTTL 密码重置 token 有效期
const ResetTokenTTL = 10 * time.Minute

type AuthService interface {
	SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.AuthResult, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResult, error)
	// Authenticate 校验 token 并返回当前用户
	Authenticate(ctx context.Context, token string) (*model.User, error)
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, rawToken string, req *dto.ResetPasswordRequest) (*dto.AuthResult, error)
	UpdatePassword(ctx context.Context, actor *model.User, req *dto.UpdatePasswordRequest) (*dto.AuthResult, error)
}

type authService struct {
	userRepo    repository.UserRepository
	tokens      *jwt.Manager
	mailer      mailer.Mailer
	frontendURL string
	logger      *zap.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokens *jwt.Manager,
	m mailer.Mailer,
	frontendURL string,
	logger *zap.Logger,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		tokens:      tokens,
		mailer:      m,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.AuthResult, error) {
	if req.Password != req.PasswordConfirm {
		return nil, responses.ErrPasswordMismatch
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, responses.Internal("密码加密失败", err)
	}

	user := &model.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    normalizeEmail(req.Email),
		Photo:    constants.DefaultUserPhoto,
		Password: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("用户注册", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResult, error) {
	if req.Email == "" || req.Password == "" {
		return nil, responses.ErrMissingCredentials
	}

	// 用户不存在与密码错误返回同一个错误
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, responses.ErrRecordNotFound) {
			return nil, responses.ErrInvalidCredentials
		}
		return nil, err
	}
	if !crypto.CheckPassword(req.Password, user.Password) {
		return nil, responses.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, responses.ErrNotLoggedIn
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, responses.ErrRecordNotFound) {
			return nil, responses.ErrUserGone
		}
		return nil, err
	}

	if user.ChangedPasswordAfter(claims.IssuedAt.Time) {
		return nil, responses.ErrStaleToken
	}
	return user, nil
}

func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, responses.ErrRecordNotFound) {
			return responses.ErrNoUserWithEmail
		}
		return err
	}

	raw, digest, err := crypto.NewResetToken()
	if err != nil {
		return responses.Internal("生成重置令牌失败", err)
	}
	expires := time.Now().Add(ResetTokenTTL)
	user.PasswordResetToken = &digest
	user.PasswordResetExpires = &expires
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	msg := &mailer.Message{
		To:       user.Email,
		Subject:  "Your password reset token (valid for 10 min)",
		Template: mailer.TemplatePasswordReset,
		Data: mailer.PasswordResetData{
			Name:         user.Name,
			ResetURL:     fmt.Sprintf("%s/reset-password/%s", s.frontendURL, raw),
			ValidMinutes: int(ResetTokenTTL / time.Minute),
		},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("发送重置密码邮件失败", zap.Int64("user_id", user.ID), zap.Error(err))

		// 回滚 token
		user.PasswordResetToken = nil
		user.PasswordResetExpires = nil
		if rbErr := s.userRepo.Update(ctx, user); rbErr != nil {
			s.logger.Error("回滚重置令牌失败", zap.Int64("user_id", user.ID), zap.Error(rbErr))
		}
		return responses.ErrEmailDelivery
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, rawToken string, req *dto.ResetPasswordRequest) (*dto.AuthResult, error) {
	user, err := s.userRepo.FindByResetToken(ctx, crypto.DigestToken(rawToken), time.Now())
	if err != nil {
		return nil, err
	}
	if req.Password != req.PasswordConfirm {
		return nil, responses.ErrPasswordMismatch
	}

	if err := s.setPassword(user, req.Password); err != nil {
		return nil, err
	}
	user.PasswordResetToken = nil
	user.PasswordResetExpires = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

func (s *authService) UpdatePassword(ctx context.Context, actor *model.User, req *dto.UpdatePasswordRequest) (*dto.AuthResult, error) {
	user, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if !crypto.CheckPassword(req.PasswordCurrent, user.Password) {
		return nil, responses.ErrWrongPassword
	}
	if req.Password != req.PasswordConfirm {
		return nil, responses.ErrPasswordMismatch
	}

	if err := s.setPassword(user, req.Password); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// setPassword 修改时间往前拨一秒，保证随后签发的 token 不会被判定为过期
func (s *authService) setPassword(user *model.User, password string) error {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return responses.Internal("密码加密失败", err)
	}
	changedAt := time.Now().Add(-time.Second)
	user.Password = hash
	user.PasswordChangedAt = &changedAt
	return nil
}

func (s *authService) issue(user *model.User) (*dto.AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, responses.Internal("生成Token失败", err)
	}
	return &dto.AuthResult{
		Token: token,
		User:  toUserResponse(user),
	}, nil
}
