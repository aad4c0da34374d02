package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benbeisheim/checkers-backend/internal/middleware"
	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/service"
	"github.com/benbeisheim/checkers-backend/internal/ws"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, *service.GameService) {
	t.Helper()
	gs := service.NewGameService(service.NewGameManager(model.GameOptions{Seed: 11}))

	app := fiber.New()
	api := app.Group("/api", middleware.EnsurePlayerID())
	NewGameController(gs).Register(api.Group("/game"))
	return app, gs
}

func do(t *testing.T, app *fiber.App, method, path, player, body string) (int, map[string]interface{}) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if player != "" {
		req.Header.Set("X-Player-ID", player)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &out), string(data))
	}
	return resp.StatusCode, out
}

func createGame(t *testing.T, app *fiber.App, player string) string {
	t.Helper()
	status, body := do(t, app, http.MethodPost, "/api/game/create", player, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "black", body["color"])
	id, _ := body["game_id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestMissingPlayerID(t *testing.T) {
	app, _ := newTestApp(t)
	status, body := do(t, app, http.MethodPost, "/api/game/create", "", "")
	require.Equal(t, http.StatusUnauthorized, status)
	require.Contains(t, body, "error")
}

func TestGameRoutes(t *testing.T) {
	app, _ := newTestApp(t)
	id := createGame(t, app, "alice")

	status, body := do(t, app, http.MethodGet, "/api/game/"+id, "alice", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, id, body["gameId"])
	require.Equal(t, "black", body["activeColor"])

	status, body = do(t, app, http.MethodGet, "/api/game/"+id+"/moves", "alice", "")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["moves"], 7)

	status, body = do(t, app, http.MethodPost, "/api/game/"+id+"/select", "alice", `{"x":1,"y":2}`)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["destinations"], 2)

	status, body = do(t, app, http.MethodPost, "/api/game/"+id+"/move", "alice",
		`{"from":{"x":1,"y":2},"to":{"x":0,"y":3}}`)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["turnEnded"])
	require.Equal(t, "white", body["activeColor"])

	status, body = do(t, app, http.MethodPost, "/api/game/"+id+"/opponent", "alice", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "white", body["color"])
}

func TestGameRouteErrors(t *testing.T) {
	app, _ := newTestApp(t)
	id := createGame(t, app, "alice")

	tests := []struct {
		name   string
		method string
		path   string
		player string
		body   string
		want   int
	}{
		{"unknown game", http.MethodGet, "/api/game/nope", "alice", "", http.StatusNotFound},
		{"bad body", http.MethodPost, "/api/game/" + id + "/move", "alice", `{"from":`, http.StatusBadRequest},
		{"illegal destination", http.MethodPost, "/api/game/" + id + "/move", "alice",
			`{"from":{"x":1,"y":2},"to":{"x":1,"y":3}}`, http.StatusUnprocessableEntity},
		{"off the board", http.MethodPost, "/api/game/" + id + "/select", "alice", `{"x":9,"y":9}`, http.StatusUnprocessableEntity},
		{"opponent out of turn", http.MethodPost, "/api/game/" + id + "/opponent", "alice", "", http.StatusUnprocessableEntity},
		{"stranger moves", http.MethodPost, "/api/game/" + id + "/move", "mallory",
			`{"from":{"x":1,"y":2},"to":{"x":0,"y":3}}`, http.StatusForbidden},
		{"stranger triggers the opponent", http.MethodPost, "/api/game/" + id + "/opponent", "mallory", "", http.StatusForbidden},
		{"game full", http.MethodPost, "/api/game/join/" + id, "mallory", "", http.StatusConflict},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, tt.method, tt.path, tt.player, tt.body)
			require.Equal(t, tt.want, status, "%v", body)
			require.Contains(t, body, "error")
		})
	}
}

func TestHandleMessage(t *testing.T) {
	_, gs := newTestApp(t)
	gameID, _, err := gs.CreateGame("alice")
	require.NoError(t, err)
	wsc := NewWebSocketController(gs)

	_, err = wsc.handleMessage(gameID, "alice", ws.Message{Type: "resign"})
	require.Error(t, err)

	msg, err := ws.NewMessage(ws.MessageTypeSelect, model.Square{X: 3, Y: 2})
	require.NoError(t, err)
	reply, err := wsc.handleMessage(gameID, "alice", msg)
	require.NoError(t, err)
	require.NotNil(t, reply)
	require.Equal(t, ws.MessageTypeSelection, reply.Type)

	var sel model.SelectionResult
	require.NoError(t, json.Unmarshal(reply.Payload, &sel))
	require.ElementsMatch(t, []model.Square{{X: 2, Y: 3}, {X: 4, Y: 3}}, sel.Destinations)

	msg, err = ws.NewMessage(ws.MessageTypeMove, model.WSMove{From: model.Square{X: 3, Y: 2}, To: model.Square{X: 2, Y: 3}})
	require.NoError(t, err)
	reply, err = wsc.handleMessage(gameID, "alice", msg)
	require.NoError(t, err)
	require.Equal(t, ws.MessageTypeMoveResult, reply.Type)

	_, err = wsc.handleMessage(gameID, "mallory", ws.Message{Type: ws.MessageTypeOpponent})
	require.ErrorIs(t, err, model.ErrNotAPlayer)

	reply, err = wsc.handleMessage(gameID, "alice", ws.Message{Type: ws.MessageTypeOpponent})
	require.NoError(t, err)
	require.Nil(t, reply)

	msg, err = ws.NewMessage(ws.MessageTypeSelect, model.Square{X: 0, Y: 5})
	require.NoError(t, err)
	_, err = wsc.handleMessage(gameID, "alice", msg)
	require.ErrorIs(t, err, model.ErrIllegalSelection)
}
