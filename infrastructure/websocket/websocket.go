package websocket

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"project-tracker/domain/ports"
	"project-tracker/pkg/logger"
)

// Conn ส่วนที่ hub ใช้จาก *websocket.Conn
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type Client struct {
	Conn   Conn
	UserID uuid.UUID
	Rooms  []string
}

type Message struct {
	Type   string      `json:"type"`
	Data   interface{} `json:"data"`
	RoomID string      `json:"roomId,omitempty"`
}

type BroadcastMessage struct {
	Message Message
	RoomID  string
	UserID  *uuid.UUID
}

// Hub กระจาย activity ไปยัง client ที่ subscribe ห้องของโปรเจกต์
type Hub struct {
	clients    map[Conn]*Client
	rooms      map[string]map[Conn]struct{}
	register   chan *Client
	unregister chan Conn
	broadcast  chan BroadcastMessage
	done       chan struct{}
	mutex      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[Conn]*Client),
		rooms:      make(map[string]map[Conn]struct{}),
		register:   make(chan *Client),
		unregister: make(chan Conn),
		broadcast:  make(chan BroadcastMessage, 256),
		done:       make(chan struct{}),
	}
}

// ProjectRoom ชื่อห้องของโปรเจกต์
func ProjectRoom(projectID string) string {
	return "project:" + projectID
}

// Run วนรับ register/unregister/broadcast จนกว่า ctx จะถูก cancel
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client.Conn] = client
			for _, room := range client.Rooms {
				if h.rooms[room] == nil {
					h.rooms[room] = make(map[Conn]struct{})
				}
				h.rooms[room][client.Conn] = struct{}{}
			}
			h.mutex.Unlock()

			logger.Debug("WebSocket client connected", "user_id", client.UserID, "rooms", client.Rooms)

		case conn := <-h.unregister:
			h.mutex.Lock()
			h.remove(conn)
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

func (h *Hub) deliver(message BroadcastMessage) {
	var targets []Conn

	h.mutex.RLock()
	switch {
	case message.RoomID != "":
		for conn := range h.rooms[message.RoomID] {
			targets = append(targets, conn)
		}
	case message.UserID != nil:
		for conn, client := range h.clients {
			if client.UserID == *message.UserID {
				targets = append(targets, conn)
			}
		}
	default:
		for conn := range h.clients {
			targets = append(targets, conn)
		}
	}
	h.mutex.RUnlock()

	var failed []Conn
	for _, conn := range targets {
		if err := conn.WriteJSON(message.Message); err != nil {
			logger.Warn("WebSocket send failed", "error", err)
			failed = append(failed, conn)
		}
	}

	if len(failed) > 0 {
		h.mutex.Lock()
		for _, conn := range failed {
			h.remove(conn)
		}
		h.mutex.Unlock()
	}
}

// remove ต้องถือ lock อยู่แล้ว
func (h *Hub) remove(conn Conn) {
	client, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)
	for _, room := range client.Rooms {
		delete(h.rooms[room], conn)
		if len(h.rooms[room]) == 0 {
			delete(h.rooms, room)
		}
	}
	conn.Close()
	logger.Debug("WebSocket client disconnected", "user_id", client.UserID)
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for conn := range h.clients {
		h.remove(conn)
	}
}

// Register หลัง hub หยุดแล้วจะปิด connection ทันที
func (h *Hub) Register(conn Conn, userID uuid.UUID, rooms ...string) {
	select {
	case h.register <- &Client{Conn: conn, UserID: userID, Rooms: rooms}:
	case <-h.done:
		conn.Close()
	}
}

func (h *Hub) Unregister(conn Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

func (h *Hub) enqueue(message BroadcastMessage) {
	select {
	case h.broadcast <- message:
	default:
		logger.Warn("WebSocket broadcast queue full, dropping message", "type", message.Message.Type)
	}
}

func (h *Hub) BroadcastToRoom(roomID string, messageType string, data interface{}) {
	h.enqueue(BroadcastMessage{
		Message: Message{Type: messageType, Data: data, RoomID: roomID},
		RoomID:  roomID,
	})
}

func (h *Hub) BroadcastToUser(userID uuid.UUID, messageType string, data interface{}) {
	h.enqueue(BroadcastMessage{
		Message: Message{Type: messageType, Data: data},
		UserID:  &userID,
	})
}

// Publish ทำให้ Hub ใช้เป็น EventPublisherPort ได้
func (h *Hub) Publish(ctx context.Context, event *ports.ActivityEvent) error {
	if event == nil || event.ProjectID == "" {
		return nil
	}
	h.BroadcastToRoom(ProjectRoom(event.ProjectID), event.Type, event)
	return nil
}

func (h *Hub) RoomClients(roomID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[roomID])
}

func (h *Hub) TotalClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

var _ ports.EventPublisherPort = (*Hub)(nil)
