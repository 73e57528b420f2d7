package service

import "fmt"

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewNotFound(resource string, id string) *BusinessError {
	return &BusinessError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s %s не найден(а)", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

func NewEmailConflict(email string) *BusinessError {
	return &BusinessError{
		Code:    "EMAIL_CONFLICT",
		Message: "Email уже зарегистрирован",
		Details: map[string]any{
			"email": email,
		},
	}
}

func NewVersionConflict(resource string, id string) *BusinessError {
	return &BusinessError{
		Code:    "VERSION_CONFLICT",
		Message: fmt.Sprintf("Параллельное изменение %s %s, повторите с актуальной версией", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func NewForbidden(reason string) *BusinessError {
	return &BusinessError{
		Code:    "FORBIDDEN",
		Message: "Операция запрещена: " + reason,
		Details: map[string]any{
			"reason": reason,
		},
	}
}

func NewUnauthorized(reason string) *BusinessError {
	return &BusinessError{
		Code:    "UNAUTHORIZED",
		Message: "Проблема аутентификации: " + reason,
		Details: map[string]any{
			"reason": reason,
		},
	}
}

// NewTokenExpired - отдельный код, чтобы клиент мог различить
// "токен протух" (можно обновить) и "токен невалиден" (нужен новый login)
func NewTokenExpired() *BusinessError {
	return &BusinessError{
		Code:    "TOKEN_EXPIRED",
		Message: "Срок действия токена истёк",
		Details: map[string]any{},
	}
}

func NewInvalidState(current, allowed string) *BusinessError {
	return &BusinessError{
		Code:    "INVALID_STATE",
		Message: fmt.Sprintf("Переход статуса разрешён только из '%s', текущий '%s'", allowed, current),
		Details: map[string]any{
			"current": current,
			"allowed": allowed,
		},
	}
}
