package nsq

import (
	"encoding/json"
	"fmt"

	"github.com/drivemate/drivemate/internal/pkg/logger"
	"github.com/nsqio/go-nsq"
)

// Producer handles publishing messages to NSQ topics
type Producer struct {
	producer *nsq.Producer
}

// NewProducer creates a new NSQ producer
func NewProducer(address string) (*Producer, error) {
	config := nsq.NewConfig()
	producer, err := nsq.NewProducer(address, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create NSQ producer: %w", err)
	}

	// Ping the NSQ daemon to ensure connectivity
	err = producer.Ping()
	if err != nil {
		return nil, fmt.Errorf("failed to ping NSQ daemon: %w", err)
	}

	return &Producer{producer: producer}, nil
}

// Publish sends a message to the specified topic
func (p *Producer) Publish(topic string, message interface{}) error {
	msgBytes, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = p.producer.Publish(topic, msgBytes)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

// PublishBestEffort dispatches a message without awaiting the outcome.
// Failures are logged and never surface to the caller; use this for
// notifications whose delivery must not gate the core operation.
func (p *Producer) PublishBestEffort(topic string, message interface{}) {
	go func() {
		if err := p.Publish(topic, message); err != nil {
			logger.Warn("best-effort publish failed",
				logger.String("topic", topic),
				logger.Err(err))
			return
		}
		logger.Debug("published message", logger.String("topic", topic))
	}()
}

// Stop gracefully stops the producer
func (p *Producer) Stop() {
	p.producer.Stop()
}
