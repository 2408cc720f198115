package queue

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"
)

// Publisher sends events to RabbitMQ.  It dials per publish, which keeps
// it stateless across broker restarts at the cost of a connection per
// event.
type Publisher struct {
    url string
    log *zap.Logger
}

func NewPublisher(url string, log *zap.Logger) *Publisher {
    return &Publisher{url: url, log: log}
}

// Publish declares the event's durable queue and sends ev as a persistent
// JSON message.  Errors are logged and returned; callers never fail a
// request because of them.
func (p *Publisher) Publish(ctx context.Context, ev Event) error {
    if err := p.publish(ctx, ev); err != nil {
        p.log.Warn("publish event failed", zap.String("type", ev.Type), zap.String("ref", ev.Ref), zap.Error(err))
        return err
    }
    p.log.Debug("event published", zap.String("type", ev.Type), zap.String("ref", ev.Ref))
    return nil
}

func (p *Publisher) publish(ctx context.Context, ev Event) error {
    body, err := json.Marshal(ev)
    if err != nil {
        return fmt.Errorf("marshal event: %w", err)
    }
    conn, err := amqp.Dial(p.url)
    if err != nil {
        return fmt.Errorf("dial broker: %w", err)
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("open channel: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if _, err := ch.QueueDeclare(ev.Type, true, false, false, false, nil); err != nil {
        return fmt.Errorf("declare queue %s: %w", ev.Type, err)
    }
    err = ch.PublishWithContext(ctx, "", ev.Type, false, false, amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        MessageId:    ev.Ref,
        Type:         ev.Type,
        Body:         body,
    })
    if err != nil {
        return fmt.Errorf("publish: %w", err)
    }
    return nil
}
