package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// publishTimeout ограничивает время записи одного события в Kafka
const publishTimeout = 5 * time.Second

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события переходов в Kafka.
// Публикация fire-and-forget: выполняется после коммита перехода
// и никогда не блокирует и не откатывает сам переход.
type Publisher struct {
	writer *kafka.Writer
	log    Logger
}

// NewPublisher создает Kafka-публикатор событий переходов
func NewPublisher(brokers, topic string, log Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(SplitBrokers(brokers)...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}

	return &Publisher{
		writer: writer,
		log:    log,
	}
}

// Close закрывает Kafka writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// PublishTransition публикует событие перехода записи.
// Ошибки публикации только логируются: доставка событий не является
// условием успешности перехода.
func (p *Publisher) PublishTransition(appointmentID string, from, to domain.AppointmentStatus) {
	event := NewTransitionEvent(uuid.NewString(), appointmentID, from, to, time.Now())

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		payload, err := json.Marshal(event)
		if err != nil {
			p.log.Error("events: failed to marshal transition event for appointment=%s: %v", appointmentID, err)
			return
		}

		msg := kafka.Message{
			// Ключ - ID записи: события одной записи попадают в одну партицию
			// и сохраняют порядок
			Key:   []byte(appointmentID),
			Value: payload,
			Headers: []kafka.Header{
				{Key: "event_id", Value: []byte(event.EventID)},
			},
		}

		if err := p.writer.WriteMessages(ctx, msg); err != nil {
			p.log.Error("events: failed to publish transition %s->%s for appointment=%s: %v",
				event.FromStatus, event.ToStatus, appointmentID, err)
			return
		}

		p.log.Info("events: published transition %s->%s for appointment=%s",
			event.FromStatus, event.ToStatus, appointmentID)
	}()
}

// NopPublisher заглушка публикатора, когда Kafka выключена конфигурацией
type NopPublisher struct{}

// PublishTransition ничего не делает
func (NopPublisher) PublishTransition(string, domain.AppointmentStatus, domain.AppointmentStatus) {}

// SplitBrokers разбирает comma-separated список брокеров
func SplitBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
