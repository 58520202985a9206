// Package format renders status lookup results into the HTML-formatted
// card text posted to the chat. Rendering is deterministic: identical
// input always produces byte-identical output, which is what the
// controller's skip-edit optimization relies on.
package format

import (
	"fmt"
	"strings"

	"github.com/Smacktur/adg-info-bot/internal/domain"
)

// header is the first line of every status card.
const header = "⚡️Результат"

// advisoryPrefix opens the operator advisory appended when any record is
// stuck in transfer_processing.
const advisoryPrefix = "⚠️ @AnShevch, @A_k_i_m_b_o прошу обратить внимание на заявку(и): "

// Render produces the status card for records, in input order. Each record
// becomes a five-line block (identifier header plus stage, status, origin
// channel and decline code); blocks are separated by one blank line and the
// whole result is trimmed. An empty record set yields just the header line.
func Render(records []domain.StatusRecord) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	for _, r := range records {
		fmt.Fprintf(&b, "<code>%s</code>\n", r.ConstantID)
		fmt.Fprintf(&b, "├── <b>stage</b>: <code>%s</code>\n", r.Stage)
		fmt.Fprintf(&b, "├── <b>status</b>: <code>%s</code>\n", r.Status)
		fmt.Fprintf(&b, "├── <b>initial_channel_id</b>: <code>%s</code>\n", r.InitialChannelID)
		fmt.Fprintf(&b, "└── <b>decline_code</b>: <code>%d</code>\n\n", r.DeclineCode)
	}
	return strings.TrimSpace(b.String())
}

// Advisory returns the fixed operator notice naming every record whose
// stage is transfer_processing, identifiers comma-joined in input order,
// or "" when no record is in that stage.
func Advisory(records []domain.StatusRecord) string {
	var ids []string
	for _, r := range records {
		if r.Stage == domain.StageTransferProcessing {
			ids = append(ids, r.ConstantID)
		}
	}
	if len(ids) == 0 {
		return ""
	}
	return advisoryPrefix + strings.Join(ids, ", ")
}

// RenderWithAdvisory renders the card and, when applicable, appends the
// advisory notice separated by one blank line.
func RenderWithAdvisory(records []domain.StatusRecord) string {
	text := Render(records)
	if adv := Advisory(records); adv != "" {
		text += "\n\n" + adv
	}
	return text
}
