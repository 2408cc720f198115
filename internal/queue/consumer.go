package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "sort"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"
)

const maxBackoff = 30 * time.Second

// Consumer drains every event queue into an append-only activity log.
type Consumer struct {
    url     string
    logPath string
    log     *zap.Logger
}

// NewConsumer writes to dir/activity.log.
func NewConsumer(url, dir string, log *zap.Logger) *Consumer {
    return &Consumer{url: url, logPath: filepath.Join(dir, "activity.log"), log: log}
}

// Run connects to the broker and consumes until ctx is cancelled,
// reconnecting with exponential backoff whenever the connection drops.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.url)
        if err != nil {
            c.log.Warn("consumer dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            backoff = min(backoff*2, maxBackoff)
            continue
        }
        backoff = time.Second
        c.log.Info("consumer connected", zap.Strings("queues", Queues))

        err = c.consume(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        c.log.Warn("consume loop ended, reconnecting", zap.Error(err))
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("open channel: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        c.log.Warn("set qos failed", zap.Error(err))
    }

    deliveries := make(chan amqp.Delivery)
    closed := make(chan struct{}, len(Queues))
    stop := make(chan struct{})
    defer close(stop)
    for _, q := range Queues {
        if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
            return fmt.Errorf("declare queue %s: %w", q, err)
        }
        msgs, err := ch.Consume(q, "", false, false, false, false, nil)
        if err != nil {
            return fmt.Errorf("consume %s: %w", q, err)
        }
        go func(msgs <-chan amqp.Delivery) {
            for d := range msgs {
                select {
                case deliveries <- d:
                case <-stop:
                    return
                }
            }
            closed <- struct{}{}
        }(msgs)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case <-closed:
            return errors.New("deliveries channel closed")
        case d := <-deliveries:
            if err := c.Handle(d.Body); err != nil {
                c.log.Error("handle event failed", zap.String("queue", d.RoutingKey), zap.Error(err))
                _ = d.Nack(false, false)
                continue
            }
            _ = d.Ack(false)
        }
    }
}

// Handle decodes one message body and appends it to the activity log.
func (c *Consumer) Handle(body []byte) error {
    var ev Event
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Type == "" || ev.Ref == "" {
        return errors.New("event without type or ref")
    }
    if err := os.MkdirAll(filepath.Dir(c.logPath), 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(c.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open activity log: %w", err)
    }
    defer f.Close()
    if _, err := f.WriteString(FormatLine(ev)); err != nil {
        return fmt.Errorf("write activity log: %w", err)
    }
    c.log.Info("activity", zap.String("type", ev.Type), zap.String("ref", ev.Ref), zap.Uint64("actor", ev.ActorID))
    return nil
}

// FormatLine renders ev as a single activity-log line.  Changes are listed
// in key order.
func FormatLine(ev Event) string {
    var b strings.Builder
    fmt.Fprintf(&b, "[%s] %s | ref=%s | actor=%d", ev.OccurredAt.UTC().Format(time.RFC3339), ev.Type, ev.Ref, ev.ActorID)
    if ev.SellerID != 0 {
        fmt.Fprintf(&b, " | seller=%d", ev.SellerID)
    }
    if len(ev.Changes) > 0 {
        keys := make([]string, 0, len(ev.Changes))
        for k := range ev.Changes {
            keys = append(keys, k)
        }
        sort.Strings(keys)
        for _, k := range keys {
            fmt.Fprintf(&b, " | %s=%s", k, ev.Changes[k])
        }
    }
    fmt.Fprintf(&b, " | %q\n", ev.Summary)
    return b.String()
}
