// Package repo implements the read-only data access layer for application
// tracking lookups, backed by GORM.
//
// Error semantics: on query failure the raw DB error is propagated; the
// caller decides whether that is user-visible. A tracking identifier with
// no session row is simply absent from the result, not an error.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Smacktur/adg-info-bot/internal/domain"
)

// statusQuery joins a traffic session to its application and, when
// declined, the decline record. Nullable columns are coalesced in SQL so
// every scanned row is fully populated. The identifier list is always
// bound as a parameter, never interpolated.
const statusQuery = `
SELECT
    coalesce(arts.constant_id, 'null')         AS constant_id,
    coalesce(a.stage, 'null')                  AS stage,
    coalesce(a.status, 'null')                 AS status,
    coalesce(arts.initial_channel_id, 'null')  AS initial_channel_id,
    coalesce(artda.decline_code, 0)            AS decline_code
FROM alfa_reject_traffic_sessions arts
LEFT JOIN applications a ON arts.application_id = a.id
LEFT JOIN alfa_reject_traffic_declined_applications artda ON arts.constant_id = artda.constant_id
WHERE arts.constant_id IN ?`

// LookupStatuses returns the current status rows for the given tracking
// identifiers. Row order is store-defined and must be preserved by the
// caller when rendering. An empty identifier set short-circuits to an
// empty result without touching the database.
func LookupStatuses(ctx context.Context, db *gorm.DB, ids []string) ([]domain.StatusRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []domain.StatusRecord
	if err := db.WithContext(ctx).Raw(statusQuery, ids).Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// StatusStore adapts the free lookup function to the narrow store
// interface the service layer depends on.
type StatusStore struct {
	DB *gorm.DB
}

// LookupStatuses implements the service-layer store contract.
func (s *StatusStore) LookupStatuses(ctx context.Context, ids []string) ([]domain.StatusRecord, error) {
	return LookupStatuses(ctx, s.DB, ids)
}
