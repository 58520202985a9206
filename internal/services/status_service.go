// Package services – StatusService
//
// StatusService owns the two conversation protocols of the bot. For a new
// inbound text it extracts tracking identifiers, looks their statuses up,
// posts a rendered card with the refresh button, and records the message
// in the state registry. For a refresh callback it re-queries the tracked
// identifiers and edits the card in place, skipping the platform edit when
// nothing changed.
//
// Error containment: nothing escalates past this layer as a crash. New-text
// processing terminates silently on any miss or failure; refresh failures
// surface to the user only as a short callback notice. Detailed diagnostics
// go to the log.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Smacktur/adg-info-bot/internal/domain"
	"github.com/Smacktur/adg-info-bot/internal/format"
	"github.com/Smacktur/adg-info-bot/internal/observability"
	"github.com/Smacktur/adg-info-bot/internal/parse"
	"github.com/Smacktur/adg-info-bot/internal/state"
	"github.com/Smacktur/adg-info-bot/internal/telegram"
)

// User-visible callback notices. Kept short and non-technical; anything
// detailed belongs in the operator log.
const (
	noticeRateLimited = "Вы не можете обновлять статус так часто."
	noticeNoData      = "Не удалось найти данные для обновления."
	noticeFailed      = "Не удалось обновить статус."
)

// Store is the record store dependency: a point lookup of current status
// rows for a set of tracking identifiers.
type Store interface {
	LookupStatuses(ctx context.Context, ids []string) ([]domain.StatusRecord, error)
}

// Gateway is the chat platform dependency.
type Gateway interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboardMarkup) (int64, error)
	EditMessageText(ctx context.Context, chatID, messageID int64, text string, keyboard *telegram.InlineKeyboardMarkup) error
	AnswerCallbackQuery(ctx context.Context, callbackID, text string) error
}

// Registry is the message state dependency (see the state package).
type Registry interface {
	RecordNew(messageID int64, text string, ids []string)
	Get(messageID int64) (state.Entry, bool)
	Update(messageID int64, text string, ids []string)
}

// RefreshGate decides whether a user may refresh right now.
type RefreshGate interface {
	TryConsume(userID, chatID int64) bool
}

// StatusService coordinates the two conversation protocols.
type StatusService struct {
	Store    Store
	Gateway  Gateway
	Registry Registry
	Gate     RefreshGate

	// AllowedChatID gates inbound text when MentionRequired is false.
	AllowedChatID int64
	// MentionRequired switches the inbound gate to "@-mention in any chat".
	MentionRequired bool
	// BotUsername is the handle checked by the mention gate (no leading @).
	BotUsername string

	// StoreTimeout bounds every record store lookup. Zero means 5s.
	StoreTimeout time.Duration
}

// HandleMessage processes a new inbound text (protocol A). All misses and
// failures terminate silently; the returned error is for the caller's log
// only and never reaches the chat.
func (s *StatusService) HandleMessage(ctx context.Context, msg *telegram.Message) error {
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		return nil
	}

	tr := otel.Tracer("services/StatusService")
	ctx, span := tr.Start(ctx, "HandleMessage",
		trace.WithAttributes(attribute.Int64("chat.id", msg.Chat.ID)),
	)
	defer span.End()

	log := zerolog.Ctx(ctx)

	if !s.admitMessage(msg) {
		return nil
	}

	ids := parse.Dedupe(parse.Extract(msg.Text))
	if len(ids) == 0 {
		log.Debug().Msg("no tracking identifiers in message")
		return nil
	}
	log.Debug().Strs("tracking_ids", ids).Msg("extracted tracking identifiers")

	records, err := s.lookup(ctx, ids)
	if err != nil {
		log.Warn().Err(err).Msg("status lookup failed, dropping message")
		return nil
	}
	if len(records) == 0 {
		// Deliberately no user-facing reply for zero results.
		log.Warn().Strs("tracking_ids", ids).Msg("status lookup returned no rows")
		return nil
	}

	text := format.RenderWithAdvisory(records)
	messageID, err := s.Gateway.SendMessage(ctx, msg.Chat.ID, text, telegram.RefreshKeyboard())
	if err != nil {
		return fmt.Errorf("%w: send: %v", ErrGatewayFailure, err)
	}

	// Track the identifiers the store actually knows, not the raw
	// extraction: an identifier the store dropped has nothing to refresh.
	s.Registry.RecordNew(messageID, text, recordIDs(records))
	observability.CardsSent.Inc()
	log.Info().Int64("message_id", messageID).Int("records", len(records)).Msg("status card sent")
	return nil
}

// HandleCallback processes a refresh button press (protocol B).
func (s *StatusService) HandleCallback(ctx context.Context, cb *telegram.CallbackQuery) error {
	if cb == nil || cb.Data != telegram.CallbackRefresh || cb.From == nil ||
		cb.Message == nil || cb.Message.Chat == nil {
		return nil
	}

	tr := otel.Tracer("services/StatusService")
	ctx, span := tr.Start(ctx, "HandleCallback",
		trace.WithAttributes(
			attribute.Int64("chat.id", cb.Message.Chat.ID),
			attribute.Int64("user.id", cb.From.ID),
			attribute.Int64("message.id", cb.Message.MessageID),
		),
	)
	defer span.End()

	log := zerolog.Ctx(ctx)

	if !s.Gate.TryConsume(cb.From.ID, cb.Message.Chat.ID) {
		observability.RefreshTotal.WithLabelValues(observability.RefreshDenied).Inc()
		log.Info().Int64("user_id", cb.From.ID).Msg("refresh denied by cooldown gate")
		return s.ack(ctx, cb.ID, noticeRateLimited)
	}

	entry, ok := s.Registry.Get(cb.Message.MessageID)
	if !ok || len(entry.TrackingIDs) == 0 {
		observability.RefreshTotal.WithLabelValues(observability.RefreshNoData).Inc()
		log.Warn().Int64("message_id", cb.Message.MessageID).Msg("refresh for untracked message")
		return s.ack(ctx, cb.ID, noticeNoData)
	}

	records, err := s.lookup(ctx, entry.TrackingIDs)
	if err != nil {
		observability.RefreshTotal.WithLabelValues(observability.RefreshFailed).Inc()
		log.Warn().Err(err).Msg("refresh lookup failed")
		return s.ack(ctx, cb.ID, noticeFailed)
	}
	if len(records) == 0 {
		// Tracked identifiers vanished from the store between sends.
		// Editing the card down to a bare header helps nobody.
		observability.RefreshTotal.WithLabelValues(observability.RefreshNoData).Inc()
		log.Warn().Strs("tracking_ids", entry.TrackingIDs).Msg("refresh lookup returned no rows")
		return s.ack(ctx, cb.ID, noticeNoData)
	}

	text := format.RenderWithAdvisory(records)
	if text == entry.Text {
		// Nothing changed: skip the platform edit and leave the entry
		// untouched. The button press is acknowledged implicitly.
		observability.RefreshTotal.WithLabelValues(observability.RefreshUnchanged).Inc()
		log.Debug().Int64("message_id", cb.Message.MessageID).Msg("status unchanged, edit skipped")
		return nil
	}

	if err := s.Gateway.EditMessageText(ctx, cb.Message.Chat.ID, cb.Message.MessageID, text, telegram.RefreshKeyboard()); err != nil {
		observability.RefreshTotal.WithLabelValues(observability.RefreshFailed).Inc()
		log.Warn().Err(err).Int64("message_id", cb.Message.MessageID).Msg("edit failed")
		return s.ack(ctx, cb.ID, noticeFailed)
	}

	// The identifier set can shrink or grow if underlying records changed
	// cardinality since the card was sent.
	s.Registry.Update(cb.Message.MessageID, text, recordIDs(records))
	observability.RefreshTotal.WithLabelValues(observability.RefreshAllowed).Inc()
	log.Info().Int64("message_id", cb.Message.MessageID).Int("records", len(records)).Msg("status card refreshed")
	return nil
}

// admitMessage applies the deployment's inbound gate: either only the
// allow-listed chat is processed, or only messages that @-mention the bot.
func (s *StatusService) admitMessage(msg *telegram.Message) bool {
	if s.MentionRequired {
		return s.BotUsername != "" && strings.Contains(msg.Text, "@"+s.BotUsername)
	}
	return msg.Chat.ID == s.AllowedChatID
}

// lookup queries the record store under the configured deadline.
func (s *StatusService) lookup(ctx context.Context, ids []string) ([]domain.StatusRecord, error) {
	timeout := s.StoreTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	lctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	records, err := s.Store.LookupStatuses(lctx, ids)
	if err != nil {
		observability.StoreFailures.Inc()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return records, nil
}

// ack answers a callback with a short notice; an ack failure is logged but
// not propagated, there is nothing better to do with it.
func (s *StatusService) ack(ctx context.Context, callbackID, text string) error {
	if err := s.Gateway.AnswerCallbackQuery(ctx, callbackID, text); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("callback ack failed")
	}
	return nil
}

// recordIDs projects the identifier column out of a result set, preserving
// store order.
func recordIDs(records []domain.StatusRecord) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ConstantID
	}
	return ids
}
