package nats

import (
	"encoding/json"
	"sync"

	"github.com/nats-io/nats.go"

	"project-tracker/domain/ports"
	"project-tracker/pkg/logger"
)

// ActivityHandler callback เมื่อได้รับ activity
type ActivityHandler func(event *ports.ActivityEvent)

// Subscriber ฟัง activity.> แบบ core pub/sub ทุก instance ของ API ได้รับ event เหมือนกัน
type Subscriber struct {
	conn       *nats.Conn
	sub        *nats.Subscription
	handlers   []ActivityHandler
	handlersMu sync.RWMutex
	running    bool
	runningMu  sync.Mutex
}

func NewSubscriber(conn *nats.Conn) *Subscriber {
	return &Subscriber{conn: conn}
}

func (s *Subscriber) OnActivity(handler ActivityHandler) {
	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()
	s.handlers = append(s.handlers, handler)
}

func (s *Subscriber) Start() error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	if s.running {
		return nil
	}

	sub, err := s.conn.Subscribe(SubjectActivity+".>", s.handleMessage)
	if err != nil {
		return err
	}
	s.sub = sub
	s.running = true

	logger.Info("NATS activity subscriber started", "subject", SubjectActivity+".>")
	return nil
}

func (s *Subscriber) handleMessage(msg *nats.Msg) {
	var event ports.ActivityEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Warn("Failed to parse activity event", "subject", msg.Subject, "error", err)
		return
	}

	s.handlersMu.RLock()
	handlers := s.handlers
	s.handlersMu.RUnlock()

	for _, handler := range handlers {
		func(h ActivityHandler) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Activity handler panicked", "error", r)
				}
			}()
			h(&event)
		}(handler)
	}
}

func (s *Subscriber) Stop() error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false

	if s.sub != nil {
		if err := s.sub.Unsubscribe(); err != nil {
			logger.Warn("Failed to unsubscribe", "error", err)
		}
	}
	logger.Info("NATS activity subscriber stopped")
	return nil
}
