// Package domain defines the read model for application tracking lookups.
// Records are produced fresh on every store query and are never written
// back; the bot only reports them.
package domain

// StageTransferProcessing is the transitional stage that triggers the
// operator advisory appended below a status card.
const StageTransferProcessing = "transfer_processing"

// StatusRecord is one row of the tracking-status lookup. Nullable text
// columns are coalesced to the literal string "null" and a missing decline
// code to 0 by the query itself, so a record is always fully populated.
//
// Fields:
//   - ConstantID: the tracking identifier the row is keyed by.
//   - Stage / Status: free-text pipeline markers from the applications table.
//   - InitialChannelID: origin channel of the session.
//   - DeclineCode: numeric decline reason, 0 when the application was not declined.
type StatusRecord struct {
	ConstantID       string `gorm:"column:constant_id"`
	Stage            string `gorm:"column:stage"`
	Status           string `gorm:"column:status"`
	InitialChannelID string `gorm:"column:initial_channel_id"`
	DeclineCode      int    `gorm:"column:decline_code"`
}
