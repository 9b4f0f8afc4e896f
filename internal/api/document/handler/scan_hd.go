package documentHandler

import (
	"errors"
	"time"

	"docverify/internal/middleware"
	contextPkg "docverify/pkg/context"
	"docverify/pkg/response"

	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
)

const (
	scanReadTimeout  = 60 * time.Second
	scanWriteTimeout = 10 * time.Second
	scanFrameTimeout = 30 * time.Second

	// one byte over the upload limit so oversized frames still reach the
	// size check and get a "file too large" answer; anything larger closes
	// the connection with 1009.
	scanMaxFrameSize = 10<<20 + 1
)

type scanError struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}

// handleScanWebSocket answers every binary frame with a ScanResponse, or a
// scanError when the frame cannot be read. The connection stays open after
// frame errors.
func (h *DocumentHandler) handleScanWebSocket(c *websocket.Conn) {
	requestID, _ := c.Locals(middleware.RequestIDKey).(string)
	base := contextPkg.WithRequestID(context.Background(), requestID)

	h.log.WithField("request_id", requestID).Info("Scan WebSocket client connected")
	defer h.log.WithField("request_id", requestID).Info("Scan WebSocket client disconnected")

	c.SetReadLimit(scanMaxFrameSize)

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	for {
		if err := c.SetReadDeadline(time.Now().Add(scanReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Errorf("Scan WebSocket error: %v", err)
			}
			break
		}

		if messageType != websocket.BinaryMessage {
			h.log.Warnf("Received unexpected message type: %d", messageType)
			if err := h.writeScan(c, scanError{Error: "frames must be sent as binary messages", Code: 400}); err != nil {
				break
			}
			continue
		}

		ctx, cancel := context.WithTimeout(base, scanFrameTimeout)
		res, err := h.documentService.ScanFrame(ctx, message)
		cancel()

		var out interface{} = res
		if err != nil {
			out = toScanError(err)
		}

		if err := h.writeScan(c, out); err != nil {
			h.log.Errorf("Error writing scan response: %v", err)
			break
		}
	}
}

func (h *DocumentHandler) writeScan(c *websocket.Conn, v interface{}) error {
	if err := c.SetWriteDeadline(time.Now().Add(scanWriteTimeout)); err != nil {
		return err
	}
	if err := c.WriteJSON(v); err != nil {
		return err
	}
	return c.SetWriteDeadline(time.Time{})
}

func toScanError(err error) scanError {
	var respErr *response.Error
	if errors.As(err, &respErr) {
		return scanError{Error: respErr.Error(), Code: respErr.Code}
	}
	return scanError{Error: "failed to process frame", Code: 500}
}
