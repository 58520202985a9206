// Package bot runs the long-polling event loop: it pulls updates from the
// chat platform one batch at a time and dispatches each to the status
// service. Delivery is serialized; a single event's failure (or panic) is
// logged and never terminates the loop.
package bot

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Smacktur/adg-info-bot/internal/observability"
	"github.com/Smacktur/adg-info-bot/internal/telegram"
)

// pollRetryDelay is how long the loop backs off after a failed poll before
// trying again.
const pollRetryDelay = 3 * time.Second

// Poller is the update source (implemented by telegram.Client).
type Poller interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]telegram.Update, int64, error)
}

// Service handles dispatched events (implemented by services.StatusService).
type Service interface {
	HandleMessage(ctx context.Context, msg *telegram.Message) error
	HandleCallback(ctx context.Context, cb *telegram.CallbackQuery) error
}

// Bot owns the polling loop.
type Bot struct {
	Poller  Poller
	Service Service
	Log     zerolog.Logger

	// PollTimeout is the getUpdates long-poll window. Zero means 30s.
	PollTimeout time.Duration
}

// Run polls for updates until ctx is cancelled. It returns nil on clean
// shutdown; transport errors are logged and retried after a short backoff.
func (b *Bot) Run(ctx context.Context) error {
	timeout := b.PollTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	var offset int64
	for {
		if ctx.Err() != nil {
			return nil
		}

		updates, next, err := b.Poller.GetUpdates(ctx, offset, timeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			b.Log.Warn().Err(err).Msg("poll failed, backing off")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(pollRetryDelay):
			}
			continue
		}
		offset = next

		for i := range updates {
			b.dispatch(ctx, &updates[i])
		}
	}
}

// dispatch routes one update to the service, containing panics and errors.
func (b *Bot) dispatch(ctx context.Context, u *telegram.Update) {
	log := b.Log.With().
		Int64("update_id", u.UpdateID).
		Str("correlation_id", uuid.NewString()).
		Logger()
	ctx = log.WithContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("panic while processing update")
		}
	}()

	observability.UpdatesProcessed.Inc()

	switch {
	case u.CallbackQuery != nil:
		if err := b.Service.HandleCallback(ctx, u.CallbackQuery); err != nil {
			log.Error().Err(err).Msg("callback processing failed")
		}
	case u.Message != nil:
		if err := b.Service.HandleMessage(ctx, u.Message); err != nil {
			log.Error().Err(err).Msg("message processing failed")
		}
	default:
		log.Debug().Msg("update carries neither message nor callback, skipping")
	}
}
