package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dkurilov/postboard/internal/models"
	"github.com/dkurilov/postboard/internal/storage"
	"github.com/dkurilov/postboard/internal/token"
	"github.com/dkurilov/postboard/internal/validation"
)

// TokenPair содержит выпущенную пару токенов
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // время жизни access token в секундах
}

// Service управляет жизненным циклом сессии: регистрация, вход,
// обновление и завершение. У пользователя не больше одного живого
// refresh token: новый вход и каждое обновление перезаписывают
// сохраненное значение, logout очищает его
type Service struct {
	logger *slog.Logger
	users  storage.UserStorage
	codec  *token.Codec
}

// NewService создает новый auth service
func NewService(logger *slog.Logger, users storage.UserStorage, codec *token.Codec) *Service {
	return &Service{
		logger: logger,
		users:  users,
		codec:  codec,
	}
}

// Register регистрирует нового пользователя и сразу открывает сессию.
// Запись двухфазная: токены содержат ID пользователя, который
// появляется только после первой вставки
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, *TokenPair, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        validation.NormalizeEmail(email),
		PasswordHash: string(hash),
		RefreshToken: nil,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("username", username))

	return user, pair, nil
}

// Login аутентифицирует пользователя по email и паролю.
// Успешный вход перезаписывает сохраненный refresh token: ранее
// выданный refresh token этого пользователя перестает действовать
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.users.GetUserByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))

	return pair, nil
}

// Refresh обменивает действующий refresh token на новую пару токенов.
// Политика: ротация — старый refresh token инвалидируется сразу,
// сохраненное значение заменяется новым.
// Токен принимается только если он криптографически валиден И равен
// значению, сохраненному на пользователе: это делает logout и ротацию
// действенными даже для неистекших токенов
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Сравнение с хранимым значением: токен, не совпавший с текущим,
	// уже отозван (logout или более поздний login/refresh)
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		s.logger.WarnContext(ctx, "refresh token does not match stored value",
			slog.String("user_id", userID))
		return nil, ErrInvalidToken
	}

	pair, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tokens refreshed", slog.String("user_id", user.ID))

	return pair, nil
}

// Logout завершает сессию: очищает сохраненный refresh token.
// Повторный logout с тем же токеном вернет ErrInvalidToken —
// подтверждение того, что сессия действительно завершена
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	userID, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// Пользователь удален — его токен больше не действует
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return ErrInvalidToken
	}

	if err := s.users.UpdateRefreshToken(ctx, user.ID, nil); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged out", slog.String("user_id", user.ID))

	return nil
}

// openSession выпускает пару токенов и сохраняет refresh token на
// пользователе, заменяя предыдущий (одна активная сессия)
func (s *Service) openSession(ctx context.Context, userID string) (*TokenPair, error) {
	accessToken, err := s.codec.IssueAccess(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken, err := s.codec.IssueRefresh(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	if err := s.users.UpdateRefreshToken(ctx, userID, &refreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.codec.AccessTTL().Seconds()),
	}, nil
}
