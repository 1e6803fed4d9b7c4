package messaging

import (
	"context"
	"errors"

	"project-tracker/domain/ports"
)

// MultiPublisher ส่ง event ให้ publisher ทุกตัว รวม error กลับมา
type MultiPublisher struct {
	publishers []ports.EventPublisherPort
}

func NewMultiPublisher(publishers ...ports.EventPublisherPort) ports.EventPublisherPort {
	active := make([]ports.EventPublisherPort, 0, len(publishers))
	for _, p := range publishers {
		if p != nil {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return NoopPublisher{}
	}
	if len(active) == 1 {
		return active[0]
	}
	return &MultiPublisher{publishers: active}
}

func (m *MultiPublisher) Publish(ctx context.Context, event *ports.ActivityEvent) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NoopPublisher ใช้เมื่อไม่มี NATS และไม่มี websocket hub
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event *ports.ActivityEvent) error {
	return nil
}

// RecordingPublisher เก็บ event ไว้ในหน่วยความจำ ใช้ใน test
type RecordingPublisher struct {
	Events []*ports.ActivityEvent
	Err    error
}

func (r *RecordingPublisher) Publish(ctx context.Context, event *ports.ActivityEvent) error {
	r.Events = append(r.Events, event)
	return r.Err
}

// Types คืนชนิดของ event ที่บันทึกไว้ตามลำดับ
func (r *RecordingPublisher) Types() []string {
	types := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		types = append(types, e.Type)
	}
	return types
}
