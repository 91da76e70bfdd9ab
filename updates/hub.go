// Package updates pushes live storefront events over websockets: order
// status transitions and flash-deal stock changes. Clients subscribe to a
// topic such as "order:<id>" or "deal:<id>".
package updates

import (
	"encoding/json"
	"log"
	"sync"
)

type Client struct {
	Send  chan []byte
	Topic string
}

type broadcastMsg struct {
	Topic string
	Data  []byte
}

type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg
	done       chan struct{}
	once       sync.Once
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg, 64),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			for _, topicClients := range h.clients {
				for c := range topicClients {
					close(c.Send)
				}
			}
			return
		case c := <-h.register:
			if h.clients[c.Topic] == nil {
				h.clients[c.Topic] = make(map[*Client]bool)
			}
			h.clients[c.Topic][c] = true
		case c := <-h.unregister:
			if topicClients, ok := h.clients[c.Topic]; ok {
				if topicClients[c] {
					delete(topicClients, c)
					close(c.Send)
				}
				if len(topicClients) == 0 {
					delete(h.clients, c.Topic)
				}
			}
		case msg := <-h.broadcast:
			for c := range h.clients[msg.Topic] {
				select {
				case c.Send <- msg.Data:
				default:
					// slow consumer, drop it
					delete(h.clients[msg.Topic], c)
					close(c.Send)
				}
			}
		}
	}
}

func (h *Hub) Stop() {
	h.once.Do(func() { close(h.done) })
}

func (h *Hub) Register(c *Client) {
	h.register <- c
}

func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// Publish marshals the payload and fans it out to topic subscribers. A full
// broadcast queue drops the update with a warning rather than blocking the
// caller.
func (h *Hub) Publish(topic string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("updates: marshal failed: %v", err)
		return
	}
	select {
	case h.broadcast <- broadcastMsg{Topic: topic, Data: data}:
	default:
		log.Printf("updates: queue full, dropping update for %s", topic)
	}
}
