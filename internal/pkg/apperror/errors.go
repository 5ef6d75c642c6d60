package apperror

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/lib/pq"
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
	ErrCodeConstraintViolation ErrorCode = "CONSTRAINT_VIOLATION"
	ErrCodeTokenUnusable       ErrorCode = "TOKEN_UNUSABLE"
	ErrCodeTransport           ErrorCode = "TRANSPORT_ERROR"
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
	case ErrCodeConflict, ErrCodeConstraintViolation:
		return http.StatusConflict
	case ErrCodeTokenUnusable:
		return http.StatusGone
	case ErrCodeTransport:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Коды классов ошибок PostgreSQL, которые считаются нарушением ограничений.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
	pqNotNullViolation    = "23502"
	pqRaiseException      = "P0001"
)

// FromDB переводит ошибку драйвера в AppError.
// Ошибки уровня соединения становятся TRANSPORT_ERROR, нарушения
// ограничений CONSTRAINT_VIOLATION, остальное DATABASE_ERROR.
func FromDB(err error, message string) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, sql.ErrNoRows) {
		return Wrap(err, ErrCodeNotFound, message)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation, pqForeignKeyViolation, pqCheckViolation, pqNotNullViolation, pqRaiseException:
			return Wrap(err, ErrCodeConstraintViolation, constraintMessage(pqErr, message))
		}
		// Класс 08 - проблемы соединения, 57P01..57P03 - сервер недоступен.
		if pqErr.Code.Class() == "08" || pqErr.Code == "57P01" || pqErr.Code == "57P02" || pqErr.Code == "57P03" {
			return Wrap(err, ErrCodeTransport, "хранилище временно недоступно")
		}
		return Wrap(err, ErrCodeDatabaseError, message)
	}

	if isTransport(err) {
		return Wrap(err, ErrCodeTransport, "хранилище временно недоступно")
	}

	return Wrap(err, ErrCodeDatabaseError, message)
}

func constraintMessage(pqErr *pq.Error, fallback string) string {
	switch pqErr.Code {
	case pqUniqueViolation:
		return "нарушено ограничение уникальности"
	case pqForeignKeyViolation:
		return "связанная запись не существует"
	case pqCheckViolation:
		return "значение не прошло проверку ограничения"
	case pqNotNullViolation:
		return "обязательное поле не заполнено"
	case pqRaiseException:
		if pqErr.Message != "" {
			return pqErr.Message
		}
	}
	return fallback
}

func isTransport(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeForbidden
}

func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && (appErr.Code == ErrCodeValidation || appErr.Code == ErrCodeBadRequest)
}

func IsConstraint(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeConstraintViolation
}

// IsRetryable сообщает, что операцию можно безопасно повторить.
func IsRetryable(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeTransport
}

var (
	ErrOrganizationNotFound = New(ErrCodeNotFound, "организация не найдена")
	ErrClientNotFound       = New(ErrCodeNotFound, "клиент не найден")
	ErrProjectNotFound      = New(ErrCodeNotFound, "проект не найден")
	ErrTemplateNotFound     = New(ErrCodeNotFound, "шаблон не найден")
	ErrProposalNotFound     = New(ErrCodeNotFound, "предложение не найдено")
	ErrVersionNotFound      = New(ErrCodeNotFound, "версия предложения не найдена")
	ErrTokenUnusable        = New(ErrCodeTokenUnusable, "ссылка для подписи недействительна или уже использована")
	ErrUnauthorized         = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden            = New(ErrCodeForbidden, "недостаточно прав")
	ErrNotMember            = New(ErrCodeForbidden, "вы не состоите в этой организации")
)
