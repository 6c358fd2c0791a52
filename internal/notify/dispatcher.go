package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"buildquote/internal/pkg/clock"

	"github.com/google/uuid"
)

// Store is the dispatcher's view of persistence: claim queued outbox rows,
// mark them handled, and append delivery-log rows. The delivery log is
// append-only audit; operators follow up on failures from there.
type Store interface {
	ClaimPending(ctx context.Context, limit int) ([]Message, error)
	MarkDispatched(ctx context.Context, id uuid.UUID) error
	AppendDeliveryLog(ctx context.Context, attempt Attempt) error
}

type DispatcherConfig struct {
	Workers      int
	BatchSize    int
	PollInterval time.Duration
}

// Dispatcher drains the notification outbox. Delivery is fire-and-forget
// with a durable audit trail: one delivery-log row per (recipient, channel)
// attempt, and a failure on one channel never blocks the others.
type Dispatcher struct {
	store   Store
	senders []Sender
	cfg     DispatcherConfig
	clock   clock.Clock
	logger  *slog.Logger

	wake chan struct{}
	stop chan struct{}
	wg   sync.WaitGroup
}

func NewDispatcher(store Store, senders []Sender, cfg DispatcherConfig, clk clock.Clock, logger *slog.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 15 * time.Second
	}
	return &Dispatcher{
		store:   store,
		senders: senders,
		cfg:     cfg,
		clock:   clk,
		logger:  logger,
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
}

// Nudge wakes the drain loop without blocking the caller. Commands call this
// after committing outbox rows; if the signal is dropped because one is
// already pending, the periodic poll picks the rows up anyway.
func (d *Dispatcher) Nudge() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.loop()
}

func (d *Dispatcher) Stop() {
	close(d.stop)
	d.wg.Wait()
}

func (d *Dispatcher) loop() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return
		case <-d.wake:
		case <-ticker.C:
		}
		d.drain(context.Background())
	}
}

func (d *Dispatcher) drain(ctx context.Context) {
	for {
		messages, err := d.store.ClaimPending(ctx, d.cfg.BatchSize)
		if err != nil {
			d.logger.Error("failed to claim outbox batch", "error", err.Error())
			return
		}
		if len(messages) == 0 {
			return
		}

		jobs := make(chan Message)
		var workers sync.WaitGroup
		for range d.cfg.Workers {
			workers.Add(1)
			go func() {
				defer workers.Done()
				for msg := range jobs {
					d.Dispatch(ctx, msg)
				}
			}()
		}
		for _, msg := range messages {
			jobs <- msg
		}
		close(jobs)
		workers.Wait()

		if len(messages) < d.cfg.BatchSize {
			return
		}
	}
}

// Dispatch delivers one message on every configured channel and records each
// attempt. Channel errors are captured in the log row, never propagated: a
// missing phone number or provider outage must not fail the other channels,
// other recipients, or the operation that queued the message.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) {
	rendered, err := Render(msg)
	if err != nil {
		d.logger.Error("failed to render notification",
			"event", string(msg.Event), "message_id", msg.ID.String(), "error", err.Error())
		// Burn the message rather than poison the queue.
		d.markDispatched(ctx, msg)
		return
	}

	for _, sender := range d.senders {
		attempt := Attempt{
			SubjectType: msg.SubjectType,
			SubjectID:   msg.SubjectID,
			Channel:     sender.Channel(),
			Recipient:   recipientFor(sender.Channel(), msg),
			AttemptedAt: d.clock.Now(),
			Success:     true,
		}

		if sendErr := sender.Send(ctx, msg, rendered); sendErr != nil {
			attempt.Success = false
			attempt.ErrorDetail = sendErr.Error()
			d.logger.Warn("notification delivery failed",
				"channel", string(sender.Channel()),
				"event", string(msg.Event),
				"recipient", attempt.Recipient,
				"error", sendErr.Error())
		}

		if logErr := d.store.AppendDeliveryLog(ctx, attempt); logErr != nil {
			d.logger.Error("failed to append delivery log", "error", logErr.Error())
		}
	}

	d.markDispatched(ctx, msg)
}

func (d *Dispatcher) markDispatched(ctx context.Context, msg Message) {
	if err := d.store.MarkDispatched(ctx, msg.ID); err != nil {
		d.logger.Error("failed to mark outbox message dispatched",
			"message_id", msg.ID.String(), "error", err.Error())
	}
}

func recipientFor(ch Channel, msg Message) string {
	switch ch {
	case ChannelEmail:
		if msg.RecipientEmail != "" {
			return msg.RecipientEmail
		}
	case ChannelWhatsApp, ChannelPush:
		if msg.RecipientPhone != "" {
			return msg.RecipientPhone
		}
	}
	return msg.RecipientName
}
