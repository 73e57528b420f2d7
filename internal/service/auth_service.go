package service

import (
	"context"
	"errors"
	"fmt"

	"taskKeeper/internal/auth"
	"taskKeeper/internal/logger"
	"taskKeeper/internal/models/user"
	rep "taskKeeper/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь живёт вся логика сессий: выпуск, проверка, ротация и отзыв токенов.
// версия сессии (token_version) хранится на пользователе и сверяется
// при каждой проверке - инкремент инвалидирует всё, что выпущено раньше

type AuthService struct {
	users  UserRepository
	tokens *auth.Manager
}

func NewAuthService(users UserRepository, tokens *auth.Manager) AuthService {
	return AuthService{
		users:  users,
		tokens: tokens,
	}
}

// Session - результат register/login/refresh: пара токенов и публичный профиль
type Session struct {
	User   user.Public
	Tokens *auth.TokenPair
}

// Identity - кто прошёл проверку access-токена
type Identity struct {
	UserID uuid.UUID
	Email  string
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	if name == "" {
		return nil, NewValidationError("name", "обязательное поле")
	}
	if email == "" {
		return nil, NewValidationError("email", "обязательное поле")
	}
	if password == "" {
		return nil, NewValidationError("password", "обязательное поле")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("хэширование пароля: %w", err)
	}

	newUser := &user.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		TokenVersion: 0,
	}

	if err := s.users.Create(ctx, newUser); err != nil {
		if errors.Is(err, rep.ErrDuplicateEmail) {
			logger.Info("Service: Повторная регистрация", zap.String("email", email))
			return nil, NewEmailConflict(email)
		}
		return nil, fmt.Errorf("создание пользователя: %w", err)
	}

	pair, err := s.tokens.IssuePair(newUser.ID, newUser.Email, newUser.TokenVersion)
	if err != nil {
		return nil, fmt.Errorf("выпуск токенов: %w", err)
	}

	if err := s.users.UpdateSession(ctx, newUser.ID, newUser.TokenVersion, &pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("сохранение refresh-токена: %w", err)
	}

	logger.Info("Service: Пользователь зарегистрирован", zap.String("user_id", newUser.ID.String()))

	return &Session{
		User:   newUser.ToPublic(),
		Tokens: pair,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, NewValidationError("email/password", "обязательные поля")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Пользователь не найден", zap.String("email", email))
			return nil, NewNotFound("пользователь", email)
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	if !auth.VerifyPassword(password, u.PasswordHash) {
		logger.Warn("Service: Неверный пароль", zap.String("user_id", u.ID.String()))
		return nil, NewUnauthorized("неверный пароль")
	}

	// инкремент версии отзывает все ранее выпущенные токены:
	// активная линия сессии у пользователя ровно одна
	newVersion := u.TokenVersion + 1

	pair, err := s.tokens.IssuePair(u.ID, u.Email, newVersion)
	if err != nil {
		return nil, fmt.Errorf("выпуск токенов: %w", err)
	}

	if err := s.users.UpdateSession(ctx, u.ID, newVersion, &pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("сохранение сессии: %w", err)
	}

	u.TokenVersion = newVersion

	logger.Info("Service: Вход выполнен",
		zap.String("user_id", u.ID.String()),
		zap.Int("token_version", newVersion))

	return &Session{
		User:   u.ToPublic(),
		Tokens: pair,
	}, nil
}

// Verify - ворота перед каждой защищённой операцией. Версия токена
// сверяется с БД при каждом вызове, никакого кэша версий
func (s *AuthService) Verify(ctx context.Context, accessToken string) (*Identity, error) {
	claims, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			return nil, NewTokenExpired()
		case errors.Is(err, auth.ErrWrongTokenType):
			return nil, NewUnauthorized("refresh-токен нельзя использовать для доступа к ресурсам")
		default:
			return nil, NewUnauthorized("токен невалиден или подделан")
		}
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, NewUnauthorized("некорректный идентификатор в токене")
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewUnauthorized("пользователь не найден")
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	if claims.TokenVersion != u.TokenVersion {
		logger.Info("Service: Токен устаревшей версии",
			zap.String("user_id", u.ID.String()),
			zap.Int("token_version", claims.TokenVersion),
			zap.Int("current_version", u.TokenVersion))
		return nil, NewUnauthorized("токен инвалидирован, выполните вход заново")
	}

	return &Identity{UserID: u.ID, Email: u.Email}, nil
}

// Refresh ротирует refresh-токен без смены версии сессии: гасится ровно
// тот токен, что был предъявлен, остальные access-токены доживают своё
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, NewValidationError("refresh_token", "обязательное поле")
	}

	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			return nil, NewTokenExpired()
		case errors.Is(err, auth.ErrWrongTokenType):
			return nil, NewUnauthorized("access-токен нельзя использовать для обновления")
		default:
			return nil, NewUnauthorized("refresh-токен невалиден или подделан")
		}
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, NewUnauthorized("некорректный идентификатор в токене")
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound("пользователь", claims.UserID)
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	// строгое сравнение с сохранённой строкой: ротация делает
	// предыдущий refresh-токен бесполезным, даже если он ещё не истёк
	if u.RefreshToken == nil || *u.RefreshToken != refreshToken {
		logger.Warn("Service: Предъявлен не текущий refresh-токен", zap.String("user_id", u.ID.String()))
		return nil, NewForbidden("refresh-токен недействителен")
	}

	if claims.TokenVersion != u.TokenVersion {
		logger.Warn("Service: Refresh-токен устаревшей версии", zap.String("user_id", u.ID.String()))
		return nil, NewForbidden("refresh-токен инвалидирован")
	}

	pair, err := s.tokens.IssuePair(u.ID, u.Email, u.TokenVersion)
	if err != nil {
		return nil, fmt.Errorf("выпуск токенов: %w", err)
	}

	if err := s.users.UpdateSession(ctx, u.ID, u.TokenVersion, &pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("сохранение refresh-токена: %w", err)
	}

	logger.Info("Service: Токены обновлены", zap.String("user_id", u.ID.String()))

	return &Session{
		User:   u.ToPublic(),
		Tokens: pair,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	newVersion, err := s.users.BumpTokenVersion(ctx, userID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return NewNotFound("пользователь", userID.String())
		}
		return fmt.Errorf("инвалидация сессии: %w", err)
	}

	logger.Info("Service: Выход выполнен",
		zap.String("user_id", userID.String()),
		zap.Int("token_version", newVersion))
	return nil
}
