// Package stream pushes live sky frames to WebSocket clients. A client
// subscribes with an observer location and an interval; the hub then sends a
// star+body snapshot on every tick until unsubscribe or disconnect.
package stream

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/skyviewlabs/skyview-api/internal/astro"
	"github.com/skyviewlabs/skyview-api/internal/sky"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // same open-CORS posture as the REST surface
	},
}

// Message is the envelope for every frame in both directions.
type Message struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Subscription is a client's requested feed.
type Subscription struct {
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	IntervalS float64  `json:"interval_s"`
	MaxMag    *float64 `json:"max_mag"`
}

// SkyFrame is one pushed snapshot.
type SkyFrame struct {
	At     string             `json:"at"`
	Stars  []sky.StarPosition `json:"stars"`
	Bodies []sky.BodyPosition `json:"bodies"`
}

// Event types sent by the hub
const (
	EventConnectionEstablished = "connection.established"
	EventSkyFrame              = "sky.frame"
	EventPong                  = "pong"
)

// Hub manages WebSocket clients over a sky service.
type Hub struct {
	svc *sky.Service

	mu      sync.RWMutex
	clients map[*client]bool
}

// NewHub creates a hub over a sky service.
func NewHub(svc *sky.Service) *Hub {
	return &Hub{
		svc:     svc,
		clients: make(map[*client]bool),
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu  sync.Mutex
	sub *Subscription
}

func (c *client) subscription() *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sub
}

func (c *client) setSubscription(sub *Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sub = sub
}

// HandleWebSocket upgrades the request and starts the client pumps.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 16),
	}

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	c.enqueue(EventConnectionEstablished, nil)

	go c.writePump()
	go c.readPump()
}

func (c *client) enqueue(msgType string, data any) {
	msg := Message{Type: msgType, Timestamp: time.Now().UTC()}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			log.Printf("websocket marshal failed: %v", err)
			return
		}
		msg.Data = raw
	}

	bytes, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- bytes:
	default:
		// Client buffer full, drop the frame
	}
}

func (c *client) readPump() {
	defer func() {
		c.hub.mu.Lock()
		if _, ok := c.hub.clients[c]; ok {
			delete(c.hub.clients, c)
			close(c.send)
		}
		c.hub.mu.Unlock()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(64 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("websocket bad message: %v", err)
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *client) handleMessage(msg Message) {
	switch msg.Type {
	case "ping":
		c.enqueue(EventPong, nil)

	case "subscribe":
		var sub Subscription
		if err := json.Unmarshal(msg.Data, &sub); err != nil {
			log.Printf("websocket bad subscription: %v", err)
			return
		}
		if sub.IntervalS < 1 {
			sub.IntervalS = 5
		}
		c.setSubscription(&sub)
		// First frame goes out immediately
		c.pushFrame()

	case "unsubscribe":
		c.setSubscription(nil)
	}
}

// pushFrame computes and enqueues one snapshot for the current subscription.
func (c *client) pushFrame() {
	sub := c.subscription()
	if sub == nil {
		return
	}

	obs := astro.Observer{Latitude: sub.Lat, Longitude: sub.Lon}
	now := time.Now().UTC()

	stars, err := c.hub.svc.VisibleStars(obs, now, sky.StarQuery{
		MinAltitude:  0,
		MaxMagnitude: sub.MaxMag,
		Sort:         sky.SortMagnitude,
	})
	if err != nil {
		stars = []sky.StarPosition{}
	}

	c.enqueue(EventSkyFrame, SkyFrame{
		At:     astro.FormatUTC(now),
		Stars:  stars,
		Bodies: c.hub.svc.VisibleBodies(obs, now, -90),
	})
}

func (c *client) writePump() {
	ping := time.NewTicker(30 * time.Second)
	frames := time.NewTicker(time.Second)
	defer func() {
		ping.Stop()
		frames.Stop()
		c.conn.Close()
	}()

	var sinceFrame float64

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Batch pending messages
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-frames.C:
			sub := c.subscription()
			if sub == nil {
				sinceFrame = 0
				continue
			}
			sinceFrame++
			if sinceFrame >= sub.IntervalS {
				sinceFrame = 0
				c.pushFrame()
			}

		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
