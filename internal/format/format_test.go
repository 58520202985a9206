package format

import (
	"strings"
	"testing"

	"github.com/Smacktur/adg-info-bot/internal/domain"
)

func rec(id, stage string) domain.StatusRecord {
	return domain.StatusRecord{
		ConstantID:       id,
		Stage:            stage,
		Status:           "approved",
		InitialChannelID: "ch-1",
		DeclineCode:      0,
	}
}

func TestRender_Empty(t *testing.T) {
	got := Render(nil)
	if got != "⚡️Результат" {
		t.Fatalf("Render(nil) = %q, want bare header", got)
	}
}

func TestRender_BlockLayout(t *testing.T) {
	r := domain.StatusRecord{
		ConstantID:       "EXEXTR12345678901234",
		Stage:            "null",
		Status:           "declined",
		InitialChannelID: "null",
		DeclineCode:      42,
	}
	got := Render([]domain.StatusRecord{r})
	want := strings.Join([]string{
		"⚡️Результат",
		"",
		"<code>EXEXTR12345678901234</code>",
		"├── <b>stage</b>: <code>null</code>",
		"├── <b>status</b>: <code>declined</code>",
		"├── <b>initial_channel_id</b>: <code>null</code>",
		"└── <b>decline_code</b>: <code>42</code>",
	}, "\n")
	if got != want {
		t.Fatalf("Render = %q, want %q", got, want)
	}
}

func TestRender_BlocksSeparatedByBlankLine_InputOrder(t *testing.T) {
	got := Render([]domain.StatusRecord{rec("B", "done"), rec("A", "done")})

	if strings.Index(got, "<code>B</code>") > strings.Index(got, "<code>A</code>") {
		t.Fatal("blocks not in input order")
	}
	if !strings.Contains(got, "</code>\n\n<code>A</code>") {
		t.Fatalf("blocks not separated by exactly one blank line:\n%s", got)
	}
	if strings.HasSuffix(got, "\n") {
		t.Fatal("result not trimmed")
	}
}

func TestRender_Deterministic(t *testing.T) {
	in := []domain.StatusRecord{rec("A", "x"), rec("B", "y")}
	if Render(in) != Render(in) {
		t.Fatal("two renders of identical input differ")
	}
}

func TestAdvisory(t *testing.T) {
	none := []domain.StatusRecord{rec("A", "processed"), rec("B", "done")}
	if got := Advisory(none); got != "" {
		t.Fatalf("Advisory without transfer_processing = %q, want empty", got)
	}

	some := []domain.StatusRecord{
		rec("A", domain.StageTransferProcessing),
		rec("B", "done"),
		rec("C", domain.StageTransferProcessing),
	}
	got := Advisory(some)
	if !strings.HasSuffix(got, "A, C") {
		t.Fatalf("Advisory = %q, want ids A, C in input order", got)
	}
	if !strings.HasPrefix(got, "⚠️") {
		t.Fatalf("Advisory = %q, missing warning prefix", got)
	}
}

func TestRenderWithAdvisory(t *testing.T) {
	plain := []domain.StatusRecord{rec("A", "done")}
	if got := RenderWithAdvisory(plain); strings.Contains(got, "⚠️") {
		t.Fatalf("unexpected advisory in %q", got)
	}

	flagged := []domain.StatusRecord{rec("A", domain.StageTransferProcessing)}
	got := RenderWithAdvisory(flagged)
	if !strings.Contains(got, "</code>\n\n⚠️") {
		t.Fatalf("advisory not separated by blank line:\n%s", got)
	}
	if !strings.Contains(got, "A") {
		t.Fatalf("advisory does not name the affected identifier: %q", got)
	}
}
