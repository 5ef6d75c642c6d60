package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/projexnest-backend/internal/http/middleware"
	"github.com/ignatzorin/projexnest-backend/internal/interface/http/response"
)

// requireUser возвращает пользователя из токена или отвечает 401.
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "требуется авторизация")
		return uuid.Nil, false
	}
	return userID, true
}

// pathUUID читает UUID из параметра пути или отвечает 400.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "некорректный "+name)
		return uuid.Nil, false
	}
	return id, true
}

// orgQuery читает обязательный org_id из query.
func orgQuery(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Query("org_id")
	if raw == "" {
		response.BadRequest(c, "параметр org_id обязателен")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(c, "параметр org_id должен быть валидным UUID")
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.BadRequest(c, "некорректные данные запроса")
		return false
	}
	return true
}
