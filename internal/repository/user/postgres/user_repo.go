package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskKeeper/internal/logger"
	"taskKeeper/internal/models/user"
	repo "taskKeeper/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Storage struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

func (s *Storage) Create(ctx context.Context, userToCreate *user.User) error {
	start := time.Now()

	query := `INSERT INTO users
				(id, name, email, password_hash, token_version, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING created_at`

	err := s.pool.QueryRow(ctx, query,
		userToCreate.ID,
		userToCreate.Name,
		userToCreate.Email,
		userToCreate.PasswordHash,
		userToCreate.TokenVersion,
		time.Now(),
	).Scan(&userToCreate.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 - нарушение уникального индекса по email
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			logger.Warn("Repository: Повторная регистрация email",
				zap.String("email", userToCreate.Email))
			return repo.ErrDuplicateEmail
		}
		logger.Error("Repository: Не удалось добавить пользователя", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление пользователя: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	start := time.Now()

	query := `SELECT
				id,
				name,
				email,
				password_hash,
				token_version,
				refresh_token,
				created_at,
				updated_at
				FROM users
				WHERE id = $1`

	u := &user.User{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.TokenVersion,
		&u.RefreshToken,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить пользователя", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return u, nil
}

func (s *Storage) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	start := time.Now()

	query := `SELECT
				id,
				name,
				email,
				password_hash,
				token_version,
				refresh_token,
				created_at,
				updated_at
				FROM users
				WHERE email = $1`

	u := &user.User{}
	err := s.pool.QueryRow(ctx, query, email).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.TokenVersion,
		&u.RefreshToken,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить пользователя по email", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение пользователя по email: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return u, nil
}

// UpdateSession записывает версию сессии и refresh-токен одним запросом.
// login передаёт новую версию, refresh - текущую (ротация без смены версии)
func (s *Storage) UpdateSession(ctx context.Context, id uuid.UUID, tokenVersion int, refreshToken *string) error {
	start := time.Now()

	query := `UPDATE users
				SET token_version = $1,
				refresh_token = $2,
				updated_at = NOW()
			WHERE id = $3
			RETURNING updated_at`

	var updatedAt time.Time
	err := s.pool.QueryRow(ctx, query, tokenVersion, refreshToken, id).Scan(&updatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить сессию", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("обновление сессии: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// BumpTokenVersion - выход из аккаунта: инкремент версии и сброс refresh-токена
// атомарно на стороне БД
func (s *Storage) BumpTokenVersion(ctx context.Context, id uuid.UUID) (int, error) {
	start := time.Now()

	query := `UPDATE users
				SET token_version = token_version + 1,
				refresh_token = NULL,
				updated_at = NOW()
			WHERE id = $1
			RETURNING token_version`

	var newVersion int
	err := s.pool.QueryRow(ctx, query, id).Scan(&newVersion)

	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось инвалидировать сессию", err, zap.Duration("ms", time.Since(start)))
		return 0, fmt.Errorf("инвалидация сессии: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return newVersion, nil
}
