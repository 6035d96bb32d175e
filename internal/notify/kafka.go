package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"barberbook/backend/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaConfig struct {
	Brokers     string
	TopicPrefix string
}

// KafkaNotifier publishes one message per event to "<prefix><event type>", keyed by appointment id
// so every event for an appointment lands on the same partition.
type KafkaNotifier struct {
	w      messageWriter
	prefix string
	log    *slog.Logger
}

func NewKafkaNotifier(cfg KafkaConfig, log *slog.Logger) (*KafkaNotifier, error) {
	brokers := SplitBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers not configured")
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "notify.kafka"))

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
		Async:                  true,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				log.Warn("kafka delivery failed", slog.Any("err", err), slog.Int("messages", len(msgs)))
			}
		},
	}
	return newKafkaNotifier(w, cfg.TopicPrefix, log), nil
}

func newKafkaNotifier(w messageWriter, prefix string, log *slog.Logger) *KafkaNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &KafkaNotifier{w: w, prefix: strings.TrimSpace(prefix), log: log}
}

func (n *KafkaNotifier) Notify(ctx context.Context, ev domain.AppointmentEvent) error {
	eventID := uuid.NewString()
	body, err := json.Marshal(NewPayload(eventID, ev))
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Topic: n.Topic(ev.Type),
		Key:   []byte(ev.Appointment.ID.String()),
		Value: body,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(eventID)},
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	}
	msg.Headers = InjectTraceHeaders(ctx, msg.Headers)
	return n.w.WriteMessages(ctx, msg)
}

func (n *KafkaNotifier) Topic(t domain.EventType) string {
	return n.prefix + string(t)
}

// Close flushes buffered messages.
func (n *KafkaNotifier) Close() error {
	return n.w.Close()
}

func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func ReadyCheck(brokers string) func(context.Context) error {
	return func(ctx context.Context) error {
		list := SplitBrokers(brokers)
		if len(list) == 0 {
			return errors.New("kafka brokers not configured")
		}
		dialer := kafka.Dialer{Timeout: 2 * time.Second}
		conn, err := dialer.DialContext(ctx, "tcp", list[0])
		if err != nil {
			return err
		}
		_ = conn.Close()
		return nil
	}
}
