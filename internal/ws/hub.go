package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/projexnest-backend/internal/goroutine"
	"github.com/ignatzorin/projexnest-backend/internal/logger"
)

// Hub рассылает события участникам организации по WebSocket.
type Hub struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	ctx        context.Context
}

type message struct {
	orgID   uuid.UUID
	payload []byte
}

// Envelope формат сообщения: type содержит имя события, data полезную нагрузку.
type Envelope struct {
	Type  string    `json:"type"`
	OrgID uuid.UUID `json:"org_id"`
	Data  any       `json:"data"`
}

// NewHub создаёт новый хаб. Хаб работает, пока жив ctx.
func NewHub(ctx context.Context) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 64),
		ctx:        ctx,
	}
}

// Run запускает главный цикл хаба.
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.orgID, msg.payload)
		}
	}
}

// Register добавляет клиента.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Unregister удаляет клиента.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

// BroadcastToOrg отправляет событие всем подключённым участникам организации.
func (h *Hub) BroadcastToOrg(orgID uuid.UUID, event string, data any) error {
	raw, err := json.Marshal(Envelope{Type: event, OrgID: orgID, Data: data})
	if err != nil {
		return fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
	}

	select {
	case h.broadcast <- message{orgID: orgID, payload: raw}:
		return nil
	case <-h.ctx.Done():
		return fmt.Errorf("ws: хаб остановлен: %w", h.ctx.Err())
	}
}

// ConnectedCount количество подключений организации.
func (h *Hub) ConnectedCount(orgID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[orgID])
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.orgID]; !ok {
		h.clients[client.orgID] = make(map[*Client]struct{})
	}
	h.clients[client.orgID][client] = struct{}{}
	logger.Component("ws").WithFields(logrus.Fields{
		"org_id":  client.orgID,
		"user_id": client.userID,
	}).Debug("клиент подключён")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.orgID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, client.orgID)
		}
	}
}

func (h *Hub) send(orgID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[orgID] {
		select {
		case client.send <- payload:
		default:
			// Медленный клиент отключается.
			c := client
			goroutine.SafeGo(c.Close)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for orgID, clients := range h.clients {
		for client := range clients {
			client.closeConn()
		}
		delete(h.clients, orgID)
	}
}
