package controller

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/benbeisheim/checkers-backend/internal/middleware"
	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/service"
	"github.com/benbeisheim/checkers-backend/internal/ws"
	fastws "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/stretchr/testify/require"
)

// startWebSocketServer serves the websocket route on a loopback port and
// returns its address.
func startWebSocketServer(t *testing.T, gs *service.GameService) string {
	t.Helper()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	wsc := NewWebSocketController(gs)
	app.Use("/ws/*", middleware.EnsurePlayerID())
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(gs.Exists), websocket.New(wsc.HandleConnection))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go app.Listener(ln)
	t.Cleanup(func() { app.Shutdown() })
	return ln.Addr().String()
}

// readState returns the next gameState message.
func readState(t *testing.T, conn *fastws.Conn) model.GameSnapshot {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg ws.Message
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Type != ws.MessageTypeGameState {
			continue
		}
		var s model.GameSnapshot
		require.NoError(t, json.Unmarshal(msg.Payload, &s))
		return s
	}
}

// drainStates collects gameState messages until the connection stays quiet.
// The timed out read leaves the connection unusable, so this is the last read.
func drainStates(t *testing.T, conn *fastws.Conn, quiet time.Duration) []model.GameSnapshot {
	t.Helper()
	var states []model.GameSnapshot
	for {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(quiet)))
		var msg ws.Message
		if err := conn.ReadJSON(&msg); err != nil {
			return states
		}
		if msg.Type != ws.MessageTypeGameState {
			continue
		}
		var s model.GameSnapshot
		require.NoError(t, json.Unmarshal(msg.Payload, &s))
		states = append(states, s)
	}
}

func TestBroadcastEndsOnCurrentState(t *testing.T) {
	for run := 0; run < 20; run++ {
		gs := service.NewGameService(service.NewGameManager(model.GameOptions{AutoOpponent: true, Seed: int64(run + 1)}))
		addr := startWebSocketServer(t, gs)
		gameID, _, err := gs.CreateGame("alice")
		require.NoError(t, err)

		conn, _, err := fastws.DefaultDialer.Dial("ws://"+addr+"/ws/game/"+gameID+"?playerId=alice", nil)
		require.NoError(t, err)

		require.Equal(t, 0, readState(t, conn).PlyCount)

		msg, err := ws.NewMessage(ws.MessageTypeMove, model.WSMove{From: model.Square{X: 1, Y: 2}, To: model.Square{X: 0, Y: 3}})
		require.NoError(t, err)
		require.NoError(t, conn.WriteJSON(msg))

		require.Eventually(t, func() bool {
			state, err := gs.GetGameState(gameID)
			return err == nil && state.PlyCount == 2
		}, time.Second, 5*time.Millisecond)

		states := drainStates(t, conn, 300*time.Millisecond)
		require.NotEmpty(t, states, "run %d", run)
		for i := 1; i < len(states); i++ {
			require.Greater(t, states[i].Seq, states[i-1].Seq, "run %d: states out of order", run)
		}

		current, err := gs.GetGameState(gameID)
		require.NoError(t, err)
		last := states[len(states)-1]
		require.Equal(t, current.PlyCount, last.PlyCount, "run %d", run)
		require.Equal(t, current.ActiveColor, last.ActiveColor, "run %d", run)
		require.Equal(t, current.Board, last.Board, "run %d", run)
		require.False(t, last.OpponentThinking, "run %d", run)

		conn.Close()
	}
}
