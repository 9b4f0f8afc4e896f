package documentHandler

import (
	"bytes"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialScan(t *testing.T) *websocket.Conn {
	t.Helper()

	app := newTestApp(&stubService{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/api/v1/documents/scan", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestScanWebSocket(t *testing.T) {
	conn := dialScan(t)

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte("First Name: Jane")))
	var res struct {
		ExtractedText string            `json:"extracted_text"`
		ParsedData    map[string]string `json:"parsed_data"`
		FieldCount    int               `json:"field_count"`
	}
	require.NoError(t, conn.ReadJSON(&res))
	assert.Equal(t, "Jane", res.ParsedData["firstName"])
	assert.Equal(t, len(res.ParsedData), res.FieldCount)

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte("bad")))
	var scanErr scanError
	require.NoError(t, conn.ReadJSON(&scanErr))
	assert.Equal(t, fiber.StatusBadRequest, scanErr.Code)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello")))
	require.NoError(t, conn.ReadJSON(&scanErr))
	assert.Equal(t, "frames must be sent as binary messages", scanErr.Error)
}

func TestScanWebSocketRejectsOversizedFrame(t *testing.T) {
	conn := dialScan(t)

	// the server may drop the connection before the whole frame is written
	_ = conn.WriteMessage(websocket.BinaryMessage, bytes.Repeat([]byte{'a'}, scanMaxFrameSize+1))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)

	var netErr net.Error
	if errors.As(err, &netErr) {
		assert.False(t, netErr.Timeout(), "connection should be closed, not left idle")
	}
}

func TestScanRequiresUpgrade(t *testing.T) {
	app := newTestApp(&stubService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/documents/scan", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
