package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden           ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest          ErrorCode = "BAD_REQUEST"
	ErrCodeConflict            ErrorCode = "CONFLICT"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation          ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError       ErrorCode = "DATABASE_ERROR"
	ErrCodeInsufficientBalance ErrorCode = "INSUFFICIENT_BALANCE"
	ErrCodeDuplicateUsername   ErrorCode = "DUPLICATE_USERNAME"
	ErrCodeUnavailable         ErrorCode = "UNAVAILABLE"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду, чтобы errors.Is работал для обёрнутых sentinel значений.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Validation создаёт ошибку валидации с произвольным сообщением.
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict, ErrCodeDuplicateUsername:
		return http.StatusConflict
	case ErrCodeInsufficientBalance:
		return http.StatusPaymentRequired
	case ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// As извлекает AppError из цепочки ошибок.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == ErrCodeForbidden
}

func IsValidation(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == ErrCodeValidation
}

var (
	ErrProfileNotFound     = New(ErrCodeNotFound, "профиль не найден")
	ErrUserNotFound        = New(ErrCodeNotFound, "пользователь не найден")
	ErrOrderNotFound       = New(ErrCodeNotFound, "заказ не найден")
	ErrListingNotFound     = New(ErrCodeNotFound, "объявление не найдено")
	ErrIPBanNotFound       = New(ErrCodeNotFound, "блокировка не найдена")
	ErrAnnouncementMissing = New(ErrCodeNotFound, "объявление администрации не найдено")
	ErrUnauthorized        = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden           = New(ErrCodeForbidden, "недостаточно прав")
	ErrInvalidCredentials  = New(ErrCodeUnauthorized, "неверные учетные данные")
	ErrEmailTaken          = New(ErrCodeConflict, "email уже зарегистрирован")

	ErrInsufficientBalance = New(ErrCodeInsufficientBalance, "недостаточно средств на балансе")
	ErrDuplicateUsername   = New(ErrCodeDuplicateUsername, "имя пользователя уже занято")
	ErrSameUsername        = New(ErrCodeValidation, "новое имя совпадает с текущим")

	ErrInvalidTransition = New(ErrCodeConflict, "недопустимый переход статуса заказа")
	ErrOwnListing        = New(ErrCodeValidation, "нельзя купить собственное объявление")
	ErrListingInactive   = New(ErrCodeConflict, "объявление недоступно для покупки")
	ErrReviewExists      = New(ErrCodeConflict, "отзыв по этому заказу уже оставлен")
	ErrOrderNotCompleted = New(ErrCodeConflict, "отзыв можно оставить только по завершённому заказу")
	ErrAlreadyFollowing  = New(ErrCodeConflict, "вы уже подписаны на продавца")
	ErrSelfFollow        = New(ErrCodeValidation, "нельзя подписаться на себя")

	ErrIPBanned        = New(ErrCodeForbidden, "регистрация с этого адреса запрещена")
	ErrGateUnavailable = New(ErrCodeUnavailable, "проверка адреса временно недоступна")
)
