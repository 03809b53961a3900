package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/infrastructure/metrics"
)

// ErrQueueFull is returned by Notify when the notification had to be dropped.
var ErrQueueFull = errors.New("notification queue full")

// Sender delivers a notification to its buyer.
type Sender interface {
	Send(ctx context.Context, notification domain.Notification) error
}

// Dispatcher implements usecase.Notifier with a bounded in-process queue.
// Delivery is at most once: full queues drop, sender errors are logged.
type Dispatcher struct {
	queue       chan domain.Notification
	sender      Sender
	logger      *slog.Logger
	metrics     *metrics.Metrics
	sendTimeout time.Duration
}

// Config for Dispatcher.
type Config struct {
	Sender      Sender
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	QueueSize   int           // Pending notifications before Notify drops
	SendTimeout time.Duration // Per-notification delivery bound
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Dispatcher{
		queue:       make(chan domain.Notification, cfg.QueueSize),
		sender:      cfg.Sender,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		sendTimeout: cfg.SendTimeout,
	}
}

// Notify enqueues notification without blocking.
func (d *Dispatcher) Notify(ctx context.Context, notification domain.Notification) error {
	select {
	case d.queue <- notification:
		return nil
	default:
		if d.metrics != nil {
			d.metrics.NotificationsDropped.Inc()
		}
		d.logger.Warn("notification dropped",
			slog.String("buyer_id", notification.BuyerID),
			slog.String("type", notification.Type))
		return ErrQueueFull
	}
}

// Start begins the delivery worker.
// It runs continuously until the context is cancelled, then drains what is
// already queued.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.logger.Info("notification dispatcher started",
		slog.Int("queue_size", cap(d.queue)))

	for {
		select {
		case <-ctx.Done():
			d.drain()
			d.logger.Info("notification dispatcher shutting down")
			return ctx.Err()
		case n := <-d.queue:
			d.deliver(ctx, n)
		}
	}
}

// Pending returns the number of queued notifications.
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

func (d *Dispatcher) drain() {
	ctx := context.Background()
	for {
		select {
		case n := <-d.queue:
			d.deliver(ctx, n)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n domain.Notification) {
	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	status := "sent"
	if err := d.sender.Send(sendCtx, n); err != nil {
		status = "failed"
		d.logger.Error("failed to send notification",
			slog.String("buyer_id", n.BuyerID),
			slog.String("type", n.Type),
			slog.String("error", err.Error()))
	}

	if d.metrics != nil {
		d.metrics.NotificationsSent.WithLabelValues(status).Inc()
	}
}

// LogSender is a simple sender that logs notifications.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a new LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

// Send logs the notification.
func (s *LogSender) Send(ctx context.Context, n domain.Notification) error {
	data, err := json.Marshal(n.Data)
	if err != nil {
		return err
	}

	s.logger.Info("notification",
		slog.String("buyer_id", n.BuyerID),
		slog.String("type", n.Type),
		slog.String("title", n.Title),
		slog.String("message", n.Message),
		slog.String("data", string(data)))

	return nil
}
