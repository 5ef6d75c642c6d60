package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/projexnest-backend/internal/http/middleware"
	"github.com/ignatzorin/projexnest-backend/internal/interface/http/response"
	"github.com/ignatzorin/projexnest-backend/internal/seed"
)

// SeedHandler создаёт демо данные. Доступен только в development.
type SeedHandler struct {
	seeder *seed.Seeder
}

// NewSeedHandler создаёт новый seed handler.
func NewSeedHandler(seeder *seed.Seeder) *SeedHandler {
	return &SeedHandler{seeder: seeder}
}

// Seed POST /api/workflow/seed
// Вызывающий пользователь становится владельцем демо организации.
func (h *SeedHandler) Seed(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "требуется авторизация")
		return
	}

	result, err := h.seeder.Run(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
