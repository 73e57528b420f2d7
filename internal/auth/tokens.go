package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const TypeAccess TokenType = "access"
const TypeRefresh TokenType = "refresh"

var (
	ErrTokenInvalid   = errors.New("токен недействителен")
	ErrTokenExpired   = errors.New("срок действия токена истёк")
	ErrWrongTokenType = errors.New("неверный тип токена")
)

// Claims - утверждения обоих видов токенов: кто, какая версия сессии, какой тип
type Claims struct {
	UserID       string    `json:"uid"`
	Email        string    `json:"email,omitempty"`
	TokenVersion int       `json:"token_version"`
	Type         TokenType `json:"type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*Manager, error) {
	if accessSecret == "" {
		return nil, errors.New("секрет подписи не задан")
	}
	if refreshSecret == "" {
		// как в проде: отдельный refresh-секрет опционален
		refreshSecret = accessSecret
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("неверная длительность жизни токена")
	}

	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

func (m *Manager) IssueAccess(userID uuid.UUID, email string, tokenVersion int) (string, time.Time, error) {
	expiresAt := time.Now().Add(m.accessTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:       userID.String(),
		Email:        email,
		TokenVersion: tokenVersion,
		Type:         TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			// jti: метки времени секундные, без него два токена
			// одной секунды были бы неотличимы
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})

	signed, err := token.SignedString(m.accessSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("подпись access-токена: %w", err)
	}
	return signed, expiresAt, nil
}

func (m *Manager) IssueRefresh(userID uuid.UUID, tokenVersion int) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:       userID.String(),
		TokenVersion: tokenVersion,
		Type:         TypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			// ротация хранит строку токена, поэтому каждый выпуск
			// обязан быть уникальным даже в пределах одной секунды
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.refreshTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})

	signed, err := token.SignedString(m.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("подпись refresh-токена: %w", err)
	}
	return signed, nil
}

// IssuePair выпускает оба токена одной версии сессии
func (m *Manager) IssuePair(userID uuid.UUID, email string, tokenVersion int) (*TokenPair, error) {
	access, expiresAt, err := m.IssueAccess(userID, email, tokenVersion)
	if err != nil {
		return nil, err
	}

	refresh, err := m.IssueRefresh(userID, tokenVersion)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}

func (m *Manager) ParseAccess(tokenString string) (*Claims, error) {
	return m.parse(tokenString, m.accessSecret, TypeAccess)
}

func (m *Manager) ParseRefresh(tokenString string) (*Claims, error) {
	return m.parse(tokenString, m.refreshSecret, TypeRefresh)
}

func (m *Manager) parse(tokenString string, secret []byte, wantType TokenType) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Type != wantType {
		return nil, ErrWrongTokenType
	}

	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
