package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"seacrew/internal/platform/kafka"
	domerrors "seacrew/pkg/domain-errors"
)

// KafkaProducer is the narrow producing surface the publisher needs.
type KafkaProducer interface {
	Produce(ctx context.Context, msg *kafka.Message) error
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily. An optional
// Kafka sink fans events out to downstream consumers (crewing dashboards,
// flag state reporting).
type Publisher struct {
	store    Store
	producer KafkaProducer
	topic    string
	events   chan Event
	wg       sync.WaitGroup
	logger   *slog.Logger
	async    bool
}

// PublisherOption configures the Publisher.
type PublisherOption func(*Publisher)

// WithAsyncBuffer enables async processing with the specified buffer size.
// Events are queued and persisted in a background goroutine.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan Event, size)
			p.async = true
		}
	}
}

// WithKafkaSink fans persisted events out to the given topic.
func WithKafkaSink(producer KafkaProducer, topic string) PublisherOption {
	return func(p *Publisher) {
		p.producer = producer
		p.topic = topic
	}
}

// WithPublisherLogger sets a logger for async error reporting.
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// NewPublisher creates an audit publisher over the given store.
func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	if store == nil {
		panic("audit.NewPublisher: store is required")
	}
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.async {
		p.wg.Add(1)
		go p.processEvents()
	}
	return p
}

// processEvents runs in a goroutine and persists events from the channel.
func (p *Publisher) processEvents() {
	defer p.wg.Done()
	for event := range p.events {
		p.persist(context.Background(), event)
	}
}

func (p *Publisher) persist(ctx context.Context, event Event) {
	if err := p.store.Append(ctx, event); err != nil {
		if p.logger != nil {
			p.logger.Error("failed to persist audit event",
				"error", err,
				"action", event.Action,
			)
		}
	}
	if p.producer == nil {
		return
	}
	payload, err := json.Marshal(eventWire(event))
	if err != nil {
		return
	}
	msg := &kafka.Message{
		Topic: p.topic,
		Key:   eventKey(event),
		Value: payload,
	}
	if err := p.producer.Produce(ctx, msg); err != nil {
		if p.logger != nil {
			p.logger.Error("failed to publish audit event to kafka",
				"error", err,
				"action", event.Action,
				"topic", p.topic,
			)
		}
	}
}

// Close shuts down the async publisher and waits for pending events to drain.
func (p *Publisher) Close() {
	if p.async && p.events != nil {
		close(p.events)
		p.wg.Wait()
	}
}

// Emit records an audit event. In async mode the send never blocks; a full
// buffer drops the event and reports it, trading completeness for latency.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if p.async {
		select {
		case p.events <- event:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
			if p.logger != nil {
				p.logger.Warn("audit buffer full, event dropped",
					"action", event.Action,
				)
			}
			return domerrors.New(domerrors.CodeInternal, "audit buffer full")
		}
	}
	p.persist(ctx, event)
	return nil
}

// wireEvent is the Kafka payload shape. IDs travel as strings.
type wireEvent struct {
	ID           string            `json:"id"`
	Timestamp    time.Time         `json:"timestamp"`
	Category     string            `json:"category"`
	Action       string            `json:"action"`
	Decision     string            `json:"decision,omitempty"`
	Reason       string            `json:"reason,omitempty"`
	DocumentID   string            `json:"document_id,omitempty"`
	CrewMemberID string            `json:"crew_member_id,omitempty"`
	ContractID   string            `json:"contract_id,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	RequestID    string            `json:"request_id,omitempty"`
}

func eventWire(event Event) wireEvent {
	w := wireEvent{
		ID:        event.ID.String(),
		Timestamp: event.Timestamp,
		Category:  event.Category,
		Action:    event.Action,
		Decision:  event.Decision,
		Reason:    event.Reason,
		Details:   event.Details,
		RequestID: event.RequestID,
	}
	if event.DocumentID != nil {
		w.DocumentID = event.DocumentID.String()
	}
	if event.CrewMemberID != nil {
		w.CrewMemberID = event.CrewMemberID.String()
	}
	if event.ContractID != nil {
		w.ContractID = event.ContractID.String()
	}
	return w
}

// eventKey partitions the stream per document so per-document event order is
// preserved downstream. Events without a document key fall back to the crew
// member.
func eventKey(event Event) []byte {
	if event.DocumentID != nil {
		return []byte(event.DocumentID.String())
	}
	if event.CrewMemberID != nil {
		return []byte(event.CrewMemberID.String())
	}
	return nil
}
