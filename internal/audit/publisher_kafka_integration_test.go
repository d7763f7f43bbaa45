//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"seacrew/internal/audit"
	"seacrew/internal/platform/kafka"
	"seacrew/pkg/domain"
	"seacrew/pkg/testutil/containers"
)

const testTopic = "seacrew.audit.events"

type KafkaSinkSuite struct {
	suite.Suite
	kafkaFixture *containers.KafkaContainer
	producer     *kafka.Producer
}

func TestKafkaSinkSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaSinkSuite))
}

func (s *KafkaSinkSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.kafkaFixture = mgr.GetKafka(s.T())

	err := s.kafkaFixture.CreateTopic(context.Background(), testTopic, 1, 1)
	s.Require().NoError(err)

	s.producer, err = kafka.NewProducer(
		kafka.DefaultProducerConfig(s.kafkaFixture.Brokers),
		slog.Default(),
	)
	s.Require().NoError(err)
}

func (s *KafkaSinkSuite) TearDownSuite() {
	if s.producer != nil {
		s.producer.Close()
	}
}

type observedEvent struct {
	ID         string            `json:"id"`
	Category   string            `json:"category"`
	Action     string            `json:"action"`
	Decision   string            `json:"decision"`
	DocumentID string            `json:"document_id"`
	Details    map[string]string `json:"details"`
	RequestID  string            `json:"request_id"`
}

func (s *KafkaSinkSuite) TestEventReachesTopic() {
	ctx := context.Background()

	store := audit.NewMemoryStore()
	publisher := audit.NewPublisher(store,
		audit.WithKafkaSink(s.producer, testTopic),
		audit.WithPublisherLogger(slog.Default()),
	)
	defer publisher.Close()

	docID := domain.DocumentID(uuid.New())
	event := audit.Event{
		Category:   audit.CategoryVerification,
		Action:     audit.ActionDocumentVerified,
		Decision:   "valid",
		DocumentID: &docID,
		Details:    map[string]string{"match_score": "100.0"},
		RequestID:  "req-integration-1",
	}
	s.Require().NoError(publisher.Emit(ctx, event))

	consumer, err := s.kafkaFixture.NewConsumer(ctx, "audit-sink-test", testTopic)
	s.Require().NoError(err)
	defer consumer.Close()

	record := s.kafkaFixture.WaitForMessage(ctx, consumer, 30*time.Second, func(r *kgo.Record) bool {
		return string(r.Key) == docID.String()
	})
	s.Require().NotNil(record, "expected the audit event on the topic")

	var observed observedEvent
	s.Require().NoError(json.Unmarshal(record.Value, &observed))
	s.Equal(audit.CategoryVerification, observed.Category)
	s.Equal(audit.ActionDocumentVerified, observed.Action)
	s.Equal("valid", observed.Decision)
	s.Equal(docID.String(), observed.DocumentID)
	s.Equal("100.0", observed.Details["match_score"])
	s.Equal("req-integration-1", observed.RequestID)
	s.NotEmpty(observed.ID)

	// The store sink receives the same event.
	persisted, err := store.ListByDocument(ctx, docID)
	s.Require().NoError(err)
	s.Require().Len(persisted, 1)
	s.Equal(audit.ActionDocumentVerified, persisted[0].Action)
}

func (s *KafkaSinkSuite) TestPartitionKeyFallsBackToCrewMember() {
	ctx := context.Background()

	publisher := audit.NewPublisher(audit.NewMemoryStore(),
		audit.WithKafkaSink(s.producer, testTopic),
	)
	defer publisher.Close()

	crewID := domain.CrewMemberID(uuid.New())
	s.Require().NoError(publisher.Emit(ctx, audit.Event{
		Category:     audit.CategoryCompliance,
		Action:       audit.ActionSignOnEvaluated,
		Decision:     "blocked",
		CrewMemberID: &crewID,
	}))

	consumer, err := s.kafkaFixture.NewConsumer(ctx, "audit-key-test", testTopic)
	s.Require().NoError(err)
	defer consumer.Close()

	record := s.kafkaFixture.WaitForMessage(ctx, consumer, 30*time.Second, func(r *kgo.Record) bool {
		return string(r.Key) == crewID.String()
	})
	s.Require().NotNil(record, "expected the event keyed by crew member")
}
