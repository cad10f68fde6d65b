package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/coursestore/internal/app/models"
	"github.com/yigit/coursestore/internal/app/models/dto"
	"github.com/yigit/coursestore/internal/pkg/apperrors"
	"github.com/yigit/coursestore/internal/pkg/auth"
	"github.com/yigit/coursestore/internal/pkg/email"
)

// AuthService handles authentication operations
type AuthService struct {
	users      UserStore
	profiles   ProfileStore
	tokens     TokenStore
	tx         Transactor
	jwtService *auth.JWTService
	mailer     email.EmailService
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users UserStore,
	profiles ProfileStore,
	tokens TokenStore,
	tx Transactor,
	jwtService *auth.JWTService,
	mailer email.EmailService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		profiles:   profiles,
		tokens:     tokens,
		tx:         tx,
		jwtService: jwtService,
		mailer:     mailer,
		logger:     logger,
		now:        time.Now,
	}
}

// Register creates the user and its profile in one transaction and signs
// the new user in.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		return nil, apperrors.NewValidationError("password", err.Error())
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
	}
	profile := &models.Profile{
		Email:       user.Email,
		FullName:    strings.TrimSpace(req.FullName),
		Mobile:      strings.TrimSpace(req.Mobile),
		CollegeName: strings.TrimSpace(req.CollegeName),
		Year:        strings.TrimSpace(req.Year),
	}

	var resp *dto.AuthResponse
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		profile.ID = user.ID
		if err := s.profiles.Create(ctx, profile); err != nil {
			return fmt.Errorf("profile creation error: %w", err)
		}
		resp, err = s.issueTokens(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("userID", user.ID.String()).Msg("User registered")

	if err := s.mailer.SendWelcomeEmail(user.Email, profile.FullName); err != nil {
		s.logger.Warn().Err(err).Str("userID", user.ID.String()).Msg("Failed to send welcome email")
	}
	return resp, nil
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Refresh exchanges a usable refresh token for a new pair. The old token is
// revoked so it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	var resp *dto.AuthResponse
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		stored, err := s.tokens.GetByToken(ctx, refreshToken)
		if err != nil {
			return err
		}
		if stored.Revoked {
			return apperrors.ErrTokenRevoked
		}
		if !stored.Usable(s.now()) {
			return apperrors.ErrTokenExpired
		}

		user, err := s.users.GetByID(ctx, stored.UserID)
		if err != nil {
			return err
		}
		if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
			return fmt.Errorf("failed to revoke old token: %w", err)
		}
		resp, err = s.issueTokens(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Logout revokes a refresh token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	err := s.tokens.Revoke(ctx, refreshToken)
	if err != nil && !errors.Is(err, apperrors.ErrTokenNotFound) {
		return err
	}
	return nil
}

// PurgeExpiredTokens deletes refresh tokens that can no longer be used
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	n, err := s.tokens.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info().Int64("count", n).Msg("Purged expired refresh tokens")
	}
	return n, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	if err := s.tokens.Create(ctx, &models.RefreshToken{
		UserID:    user.ID,
		Token:     pair.RefreshToken,
		ExpiresAt: pair.RefreshExpiresAt,
	}); err != nil {
		return nil, fmt.Errorf("token saving error: %w", err)
	}

	return &dto.AuthResponse{
		UserID: user.ID,
		Email:  user.Email,
		Token: dto.TokenResponse{
			AccessToken:           pair.AccessToken,
			TokenType:             "Bearer",
			ExpiresIn:             int64(pair.ExpiresIn),
			RefreshToken:          pair.RefreshToken,
			RefreshTokenExpiresIn: int64(pair.RefreshExpiresIn),
		},
	}, nil
}
