package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ignatzorin/projexnest-backend/internal/http/middleware"
	"github.com/ignatzorin/projexnest-backend/internal/interface/http/response"
	"github.com/ignatzorin/projexnest-backend/internal/logger"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/access"
	"github.com/ignatzorin/projexnest-backend/internal/ws"
)

// WSHandler отвечает за установку WebSocket соединений.
type WSHandler struct {
	hub      *ws.Hub
	tokens   middleware.AccessTokenParser
	guard    *access.Guard
	upgrader websocket.Upgrader
}

// NewWSHandler создаёт новый хэндлер. Пустой allowedOrigins разрешает любой origin.
func NewWSHandler(hub *ws.Hub, tokens middleware.AccessTokenParser, guard *access.Guard, allowedOrigins []string) *WSHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	return &WSHandler{
		hub:    hub,
		tokens: tokens,
		guard:  guard,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// Handle обслуживает GET /api/ws?token=...&org_id=...
func (h *WSHandler) Handle(c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		response.Unauthorized(c, "access токен обязателен")
		return
	}

	userID, _, err := h.tokens.ParseAccess(rawToken)
	if err != nil || userID == uuid.Nil {
		response.Unauthorized(c, "невалидный access токен")
		return
	}

	orgID, err := uuid.Parse(c.Query("org_id"))
	if err != nil {
		response.BadRequest(c, "параметр org_id должен быть валидным UUID")
		return
	}
	if err := h.guard.RequireMember(c.Request.Context(), orgID, userID); err != nil {
		response.Error(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже записал ответ клиенту.
		logger.Component("ws").WithError(err).Warn("не удалось установить соединение")
		return
	}

	client := ws.NewClient(conn, h.hub, orgID, userID)
	h.hub.Register(client)
	client.Run(c.Request.Context())
}
