package ws

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message
	writeWait = 10 * time.Second

	// Time allowed to read next pong message
	pongWait = 60 * time.Second

	// Send pings with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Max message size
	maxMessageSize = 512 * 1024 // 512 KB

	// Frames queued for the server before Append blocks
	sendBuffer = 256
)

// readPump pumps frames from the server into the local replica.
func (p *Provider) readPump() {
	defer func() {
		p.shutdown()
		close(p.done)
	}()

	p.conn.SetReadLimit(maxMessageSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		p.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && !p.isClosed() {
				slog.Warn("[WS] Unexpected close", "room", p.opts.Room, "conn", p.ConnID(), "error", err)
			}
			return
		}

		p.handleServerFrame(message)
	}
}

// writePump pumps queued frames to the server and keeps the connection alive.
func (p *Provider) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case message := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))

			w, err := p.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				slog.Error("[WS] Failed to get writer", "room", p.opts.Room, "error", err)
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				slog.Error("[WS] Failed to close writer", "room", p.opts.Room, "error", err)
				return
			}

		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Error("[WS] Failed to send ping", "room", p.opts.Room, "error", err)
				return
			}

		case <-p.quit:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			p.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
