package apperror

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestFromDB_Nil(t *testing.T) {
	assert.NoError(t, FromDB(nil, "ничего"))
}

func TestFromDB_ConstraintCodes(t *testing.T) {
	codes := []pq.ErrorCode{"23505", "23503", "23514", "23502"}
	for _, code := range codes {
		err := FromDB(&pq.Error{Code: code}, "не удалось сохранить")
		assert.True(t, IsConstraint(err), "код %s", code)

		var appErr *AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)
	}
}

func TestFromDB_RaiseExceptionKeepsMessage(t *testing.T) {
	err := FromDB(&pq.Error{Code: "P0001", Message: "версии предложения неизменяемы"}, "не удалось")

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrCodeConstraintViolation, appErr.Code)
	assert.Equal(t, "версии предложения неизменяемы", appErr.Message)
}

func TestFromDB_Transport(t *testing.T) {
	cases := []error{
		context.DeadlineExceeded,
		fmt.Errorf("query: %w", driver.ErrBadConn),
		&pq.Error{Code: "08006"},
		&pq.Error{Code: "57P01"},
	}
	for _, in := range cases {
		err := FromDB(in, "не удалось")
		assert.True(t, IsRetryable(err), "ошибка %v", in)

		var appErr *AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, http.StatusServiceUnavailable, appErr.HTTPStatus)
	}
}

func TestFromDB_NoRowsIsNotFound(t *testing.T) {
	err := FromDB(sql.ErrNoRows, "запись не найдена")
	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestFromDB_PassesAppErrorThrough(t *testing.T) {
	err := FromDB(fmt.Errorf("tx: %w", ErrProposalNotFound), "не удалось")
	assert.Same(t, ErrProposalNotFound, err)
}

func TestFromDB_OtherErrorsAreDatabaseErrors(t *testing.T) {
	err := FromDB(errors.New("syntax error"), "не удалось получить шаблоны")

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrCodeDatabaseError, appErr.Code)
	assert.Equal(t, "не удалось получить шаблоны", appErr.Message)
	assert.False(t, IsRetryable(err))
}

func TestCodeToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusGone, New(ErrCodeTokenUnusable, "x").HTTPStatus)
	assert.Equal(t, http.StatusBadRequest, New(ErrCodeValidation, "x").HTTPStatus)
	assert.Equal(t, http.StatusForbidden, ErrNotMember.HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, New(ErrCodeInternal, "x").HTTPStatus)
}
