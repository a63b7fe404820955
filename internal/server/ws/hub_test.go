package ws

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Durza1052/Unworking-Automated-Kalshi-Trading-Bot/internal/domain"
)

type stateEnvelope struct {
	Type    string                `json:"type"`
	Payload domain.DashboardState `json:"payload"`
}

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()

	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) stateEnvelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var env stateEnvelope
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func TestHubBroadcastsSnapshots(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)

	hub.PublishState(domain.DashboardState{Symbol: "ethereum", CumulativePnL: 7})

	env := readEnvelope(t, conn)
	assert.Equal(t, "dashboard_state", env.Type)
	assert.Equal(t, "ethereum", env.Payload.Symbol)
	assert.Equal(t, 7.0, env.Payload.CumulativePnL)
}

func TestHubReplaysLastSnapshotOnConnect(t *testing.T) {
	hub, url := startHub(t)

	hub.PublishState(domain.DashboardState{Symbol: "bitcoin"})
	time.Sleep(50 * time.Millisecond) // let the broadcast drain with no clients

	conn := dial(t, url)
	env := readEnvelope(t, conn)
	assert.Equal(t, "bitcoin", env.Payload.Symbol)
}
