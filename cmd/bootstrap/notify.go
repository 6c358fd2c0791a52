package bootstrap

import (
	"context"
	"log/slog"

	"buildquote/internal/infra/repository"
	"buildquote/internal/notify"
	"buildquote/internal/pkg/clock"
	"buildquote/internal/pkg/config"
	"buildquote/internal/usecase/commands"

	"go.uber.org/fx"
)

var NotifyModule = fx.Module("notify",
	fx.Provide(
		NewSenders,
		fx.Annotate(
			repository.NewOutboxStore,
			fx.As(new(notify.Store)),
		),
		NewDispatcher,
		func(d *notify.Dispatcher) commands.Nudger { return d },
	),
)

func NewSenders(cfg config.Config, logger *slog.Logger) []notify.Sender {
	var senders []notify.Sender
	if cfg.Notify.EmailEnabled {
		senders = append(senders, notify.NewLogEmailSender(logger))
	}
	if cfg.Notify.WhatsAppEnabled {
		senders = append(senders, notify.NewLogWhatsAppSender(logger))
	}
	return senders
}

func NewDispatcher(
	lc fx.Lifecycle,
	store notify.Store,
	senders []notify.Sender,
	cfg config.Config,
	clk clock.Clock,
	logger *slog.Logger,
) *notify.Dispatcher {
	dispatcher := notify.NewDispatcher(store, senders, notify.DispatcherConfig{
		Workers:      cfg.Notify.Workers,
		BatchSize:    cfg.Notify.BatchSize,
		PollInterval: cfg.Notify.PollInterval,
	}, clk, logger)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			dispatcher.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			dispatcher.Stop()
			return nil
		},
	})

	return dispatcher
}
