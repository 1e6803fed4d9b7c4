package messaging

import (
	"context"

	"project-tracker/domain/ports"
	"project-tracker/pkg/metrics"
)

// MeteredPublisher นับ event ที่ publish ตาม type และนับ error แยก
type MeteredPublisher struct {
	next    ports.EventPublisherPort
	metrics *metrics.Metrics
}

func NewMeteredPublisher(next ports.EventPublisherPort, m *metrics.Metrics) ports.EventPublisherPort {
	if m == nil {
		return next
	}
	return &MeteredPublisher{next: next, metrics: m}
}

func (p *MeteredPublisher) Publish(ctx context.Context, event *ports.ActivityEvent) error {
	p.metrics.Activity.WithLabelValues(event.Type).Inc()
	err := p.next.Publish(ctx, event)
	if err != nil {
		p.metrics.PublishErrors.Inc()
	}
	return err
}
