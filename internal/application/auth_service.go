package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"chirper/internal/domain/entity"
	repo "chirper/internal/domain/repository"
	"chirper/pkg/helpers"
	"chirper/pkg/mailer"
	"chirper/pkg/validation"
)

const tokenBodyBytes = 32

// EmailEnqueuer publishes email jobs; satisfied by helpers.RabbitPublisher.
type EmailEnqueuer interface {
	PublishJSON(ctx context.Context, body any) error
}

// UserIndexer mirrors users into the search index; satisfied by UserService.
type UserIndexer interface {
	IndexUser(ctx context.Context, u *entity.User) error
}

// AuthService owns sign-up, sign-in, token refresh and the purpose-token
// flows (confirm email, reset password).
type AuthService struct {
	Users       repo.UserRepository
	Tokens      repo.TokenRepository
	JWT         *helpers.JWTManager
	Mail        EmailEnqueuer
	Indexer     UserIndexer
	Logger      *logrus.Logger
	FrontendURL string
	MailEnabled bool
}

func NewAuthService(users repo.UserRepository, tokens repo.TokenRepository, jwt *helpers.JWTManager, mail EmailEnqueuer, indexer UserIndexer, logger *logrus.Logger, frontendURL string, mailEnabled bool) *AuthService {
	return &AuthService{
		Users:       users,
		Tokens:      tokens,
		JWT:         jwt,
		Mail:        mail,
		Indexer:     indexer,
		Logger:      logger,
		FrontendURL: frontendURL,
		MailEnabled: mailEnabled,
	}
}

type SignupInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// Signup validates input, then checks username uniqueness before email
// uniqueness, persists the user inactive and dispatches a confirmation email.
// The multi-step write sequence is not atomic: a failure after user creation
// leaves the user without a token (re-requestable via ResendConfirmation).
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	if !validation.ValidEmail(in.Email) {
		return nil, ErrInvalidEmail
	}
	if !validation.ValidPassword(in.Password) {
		return nil, ErrWeakPassword
	}

	if _, err := s.Users.GetByUsername(ctx, in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if _, err := s.Users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := entity.NewUser(in.FirstName, in.LastName, in.Username, in.Email, hash)
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	if s.Indexer != nil {
		if err := s.Indexer.IndexUser(ctx, u); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID.Hex()).Warn("user index failed")
		}
	}

	if err := s.issueConfirmation(ctx, u); err != nil {
		// The user record stays; no compensating delete.
		s.Logger.WithError(err).WithField("user_id", u.ID.Hex()).Error("confirmation dispatch failed")
		return nil, err
	}
	return u, nil
}

// ResendConfirmation issues a fresh confirm-email token for an inactive account.
func (s *AuthService) ResendConfirmation(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if u.Active {
		return nil
	}
	return s.issueConfirmation(ctx, u)
}

func (s *AuthService) issueConfirmation(ctx context.Context, u *entity.User) error {
	body, err := helpers.RandomToken(tokenBodyBytes)
	if err != nil {
		return err
	}
	tok := entity.NewToken(body, u.ID, entity.TokenConfirmEmail)
	if err := s.Tokens.Create(ctx, tok); err != nil {
		return err
	}
	s.enqueueMail(ctx, u, mailer.TemplateConfirmEmail, s.FrontendURL+"/confirm-email?token="+body)
	return nil
}

// Signin resolves the account by email or username, verifies the password and
// rejects accounts that have not redeemed their confirmation token.
func (s *AuthService) Signin(ctx context.Context, login, password string) (*entity.User, TokenPair, error) {
	u, err := s.Users.GetByEmail(ctx, login)
	if errors.Is(err, repo.ErrNotFound) {
		u, err = s.Users.GetByUsername(ctx, login)
	}
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, TokenPair{}, ErrInvalidCredentials
		}
		return nil, TokenPair{}, err
	}
	if !helpers.CheckPassword(u.Password, password) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if !u.Active {
		return nil, TokenPair{}, ErrAccountInactive
	}
	pair, err := s.issueTokens(u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

func (s *AuthService) issueTokens(u *entity.User) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID.Hex())
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID.Hex())
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Confirm redeems a confirm-email token: absent → ErrNotFound, older than its
// lifetime → ErrTokenExpired, otherwise the account is activated and the
// token deleted, so a second redemption fails as not found.
func (s *AuthService) Confirm(ctx context.Context, body string) (*entity.User, error) {
	tok, err := s.Tokens.GetByBodyAndType(ctx, body, entity.TokenConfirmEmail)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if tok.Expired(time.Now().UTC()) {
		return nil, ErrTokenExpired
	}
	if err := s.Users.SetActive(ctx, tok.User); err != nil {
		return nil, err
	}
	if err := s.Tokens.Delete(ctx, tok.ID); err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, tok.User)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Refresh exchanges a refresh token for a new access/refresh pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	return s.issueTokens(u)
}

// ResetPasswordInit always succeeds from the caller's perspective to avoid
// account enumeration; a token is only created when the email is known.
func (s *AuthService) ResetPasswordInit(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		return err
	}
	body, err := helpers.RandomToken(tokenBodyBytes)
	if err != nil {
		return err
	}
	tok := entity.NewToken(body, u.ID, entity.TokenResetPassword)
	if err := s.Tokens.Create(ctx, tok); err != nil {
		return err
	}
	s.enqueueMail(ctx, u, mailer.TemplateResetPassword, s.FrontendURL+"/reset-password?token="+body)
	return nil
}

// ResetPasswordConfirm redeems a reset-password token and stores the new hash.
func (s *AuthService) ResetPasswordConfirm(ctx context.Context, body, newPassword string) error {
	if !validation.ValidPassword(newPassword) {
		return ErrWeakPassword
	}
	tok, err := s.Tokens.GetByBodyAndType(ctx, body, entity.TokenResetPassword)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if tok.Expired(time.Now().UTC()) {
		return ErrTokenExpired
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Users.SetPassword(ctx, tok.User, hash); err != nil {
		return err
	}
	return s.Tokens.Delete(ctx, tok.ID)
}

func (s *AuthService) enqueueMail(ctx context.Context, u *entity.User, template, link string) {
	if s.Mail == nil || !s.MailEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: template,
		Data: map[string]any{
			"Name":      u.FullName(),
			"Link":      link,
			"ExpiresIn": entity.TokenLifetime.String(),
		},
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		// A failed dispatch does not roll back the write sequence.
		s.Logger.WithError(err).WithField("to", u.Email).Error("email enqueue failed")
	}
}
