package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"main/internal/config"
	"main/internal/domain/entity/commodity"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// TickMessage is the wire payload for one commodity price tick.
type TickMessage struct {
	CommodityID   string    `json:"commodity_id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Timestamp     time.Time `json:"timestamp"`
}

// Publisher fans commodity tick messages out to a RabbitMQ exchange after
// each refresh pass.
type Publisher struct {
	cfg    config.BrokerConfig
	logger *logrus.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher connects to RabbitMQ and declares the tick exchange.
func NewPublisher(cfg config.BrokerConfig, logger *logrus.Logger) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, errors.New("rabbitmq url is required")
	}
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.TickExchange, "fanout", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", cfg.TickExchange, err)
	}

	logger.WithField("exchange", cfg.TickExchange).Info("rabbitmq tick publisher started")
	return &Publisher{cfg: cfg, logger: logger, conn: conn, ch: ch}, nil
}

// PublishTicks sends one message per commodity to the tick exchange.
// Individual publish failures are logged and do not stop the batch.
func (p *Publisher) PublishTicks(ctx context.Context, commodities []commodity.Commodity) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return errors.New("publisher is closed")
	}

	var failed int
	for _, c := range commodities {
		msg := TickMessage{
			CommodityID:   c.ID,
			Name:          c.Name,
			Category:      string(c.Category),
			Price:         c.Price,
			Change:        c.Change,
			ChangePercent: c.ChangePercent,
			Timestamp:     c.LastUpdate,
		}
		body, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("encode tick for %s: %w", c.ID, err)
		}
		err = p.ch.PublishWithContext(ctx, p.cfg.TickExchange, "", false, false, amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		})
		if err != nil {
			failed++
			p.logger.WithError(err).WithField("commodity", c.ID).Warn("failed to publish tick")
		}
	}
	if failed > 0 {
		return fmt.Errorf("publish ticks: %d of %d failed", failed, len(commodities))
	}
	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
	return nil
}
