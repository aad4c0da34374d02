package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(RequestLogger())
	app.Use(EnsurePlayerID())
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("playerID").(string))
	})
	known := func(id string) bool { return id == "g1" }
	app.Get("/ws/game/:gameId", WebSocketUpgrade(known), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("wsGameID").(string) + "/" + c.Locals("wsPlayerID").(string))
	})
	return app
}

func send(t *testing.T, app *fiber.App, req *http.Request) (int, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestEnsurePlayerID(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Player-ID", "alice")
	status, body := send(t, app, req)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "alice", body)

	status, body = send(t, app, httptest.NewRequest(http.MethodGet, "/whoami?playerId=bob", nil))
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "bob", body)

	status, _ = send(t, app, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, http.StatusUnauthorized, status)
}

func upgradeRequest(path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	return req
}

func TestWebSocketUpgrade(t *testing.T) {
	app := newTestApp()

	status, _ := send(t, app, httptest.NewRequest(http.MethodGet, "/ws/game/g1?playerId=alice", nil))
	require.Equal(t, http.StatusUpgradeRequired, status)

	status, _ = send(t, app, upgradeRequest("/ws/game/nope?playerId=alice"))
	require.Equal(t, http.StatusNotFound, status)

	status, body := send(t, app, upgradeRequest("/ws/game/g1?playerId=alice"))
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "g1/alice", body)
}
