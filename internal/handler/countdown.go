// internal/handler/countdown.go

package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/archis1405/Lokal-Assessment/internal/service"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 512
)

// CountdownMessage is pushed once per tick
type CountdownMessage struct {
	Email     string `json:"email"`
	Remaining int    `json:"remaining"`
}

// Countdown streams the remaining seconds of an email's code over a
// websocket until it reaches zero or the client goes away.
func (h *OTPHandler) Countdown(c *gin.Context) {
	email, ok := h.queryEmail(c)
	if !ok {
		return
	}

	_, medium, err := h.session(c)
	if err != nil {
		h.handleError(c, err)
		return
	}
	m := h.manager(medium, nil)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Countdown upgrade failed")
		return
	}
	defer conn.Close()

	closed := h.watchClose(conn)
	h.streamCountdown(c, conn, m, email, closed)
}

// watchClose drains client frames so close and pong are processed
func (h *OTPHandler) watchClose(conn *websocket.Conn) <-chan struct{} {
	closed := make(chan struct{})
	conn.SetReadLimit(maxMessageSize)

	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return closed
}

func (h *OTPHandler) streamCountdown(c *gin.Context, conn *websocket.Conn, m *service.OTPManager, email string, closed <-chan struct{}) {
	ctx := c.Request.Context()
	ticker := time.NewTicker(h.tickInterval)
	defer ticker.Stop()

	for {
		remaining := m.RemainingSeconds(ctx, email)

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(CountdownMessage{Email: email, Remaining: remaining}); err != nil {
			h.logger.WithError(err).Debug("Countdown client gone")
			return
		}

		if remaining == 0 {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "expired"))
			return
		}

		select {
		case <-ticker.C:
		case <-closed:
			return
		case <-ctx.Done():
			return
		}
	}
}
