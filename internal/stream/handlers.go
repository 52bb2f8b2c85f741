package stream

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// SnapshotFunc returns the current state of a trip for newly connected
// clients. ok is false when the trip is unknown.
type SnapshotFunc func(tripID string) (payload []byte, ok bool)

func RegisterRoutes(r fiber.Router, hub *Hub, snapshot SnapshotFunc) {
	r.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})

	r.Get("/ws/:tripID", websocket.New(func(c *websocket.Conn) {
		tripID := c.Params("tripID")
		client := hub.Register(tripID)
		defer hub.Unregister(client)

		if snapshot != nil {
			if payload, ok := snapshot(tripID); ok {
				if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
					return
				}
			}
		}

		done := make(chan struct{})
		go func() {
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					break
				}
			}
			close(done)
		}()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		hub.Unregister(client)
		<-done
	}))
}
