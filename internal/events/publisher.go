// README: AMQP publisher for bid lifecycle events.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"skyhail/internal/modules/bid"
)

const exchange = "skyhail.bids"

type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url string, log *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	log.Info("amqp publisher ready", zap.String("exchange", exchange))
	return &Publisher{conn: conn, ch: ch}, nil
}

type bidCreated struct {
	ID            int64   `json:"id"`
	VehicleID     string  `json:"vehicle_id"`
	UserID        string  `json:"user_id"`
	NeedID        string  `json:"need_id"`
	Price         float64 `json:"price"`
	PriceType     string  `json:"price_type"`
	TimeToPickup  float64 `json:"time_to_pickup"`
	TimeToDropoff float64 `json:"time_to_dropoff"`
	ExpiresAt     int64   `json:"expires_at"`
}

func (p *Publisher) BidCreated(ctx context.Context, b bid.Bid) error {
	body, err := json.Marshal(bidCreated{
		ID:            b.ID,
		VehicleID:     string(b.VehicleID),
		UserID:        string(b.UserID),
		NeedID:        string(b.NeedID),
		Price:         b.Price,
		PriceType:     b.PriceType,
		TimeToPickup:  b.TimeToPickup,
		TimeToDropoff: b.TimeToDropoff,
		ExpiresAt:     b.ExpiresAt.UnixMilli(),
	})
	if err != nil {
		return err
	}

	routingKey := fmt.Sprintf("bid.created.%s", string(b.NeedID))
	return p.ch.PublishWithContext(
		ctx,
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (p *Publisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
