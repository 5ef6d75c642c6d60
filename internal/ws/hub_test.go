package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(ctx)
	go hub.Run()
	t.Cleanup(cancel)
	return hub, cancel
}

// dial поднимает сервер, регистрирующий каждое подключение в организации orgID.
func dial(t *testing.T, hub *Hub, orgID uuid.UUID) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(conn, hub, orgID, uuid.New())
		hub.Register(client)
		client.Run(context.Background())
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_BroadcastReachesOnlyOrgMembers(t *testing.T) {
	hub, _ := startHub(t)
	orgA, orgB := uuid.New(), uuid.New()

	connA := dial(t, hub, orgA)
	connB := dial(t, hub, orgB)
	require.Eventually(t, func() bool {
		return hub.ConnectedCount(orgA) == 1 && hub.ConnectedCount(orgB) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.BroadcastToOrg(orgA, "proposal.signed", map[string]string{"proposal_id": "p1"}))

	_ = connA.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := connA.ReadMessage()
	require.NoError(t, err)

	var env struct {
		Type  string            `json:"type"`
		OrgID uuid.UUID         `json:"org_id"`
		Data  map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, "proposal.signed", env.Type)
	assert.Equal(t, orgA, env.OrgID)
	assert.Equal(t, "p1", env.Data["proposal_id"])

	_ = connB.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = connB.ReadMessage()
	assert.Error(t, err)
}

func TestHub_ClientDisconnectUnregisters(t *testing.T) {
	hub, _ := startHub(t)
	orgID := uuid.New()

	conn := dial(t, hub, orgID)
	require.Eventually(t, func() bool { return hub.ConnectedCount(orgID) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ConnectedCount(orgID) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(ctx)
	cancel()

	// Буфер свободен, поэтому первая отправка может пройти; заполняем его до отказа.
	var err error
	for i := 0; i < cap(hub.broadcast)+1 && err == nil; i++ {
		err = hub.BroadcastToOrg(uuid.New(), "proposal.created", nil)
	}
	assert.Error(t, err)
}
