package describe

import (
	"context"
	"strings"
	"testing"

	"github.com/lfrguimaraes/outy-back/internal/event"
	"github.com/lfrguimaraes/outy-back/internal/translate"
)

func newNoopFormatter() *Formatter {
	return NewFormatter(translate.Noop{})
}

func TestFormatSummaryKeepsThreeSentences(t *testing.T) {
	raw := "The biggest queer party returns to the east side. Expect four rooms of music until sunrise. " +
		"Doors open at eleven sharp. Latecomers will queue for a long while outside."

	got, ok := newNoopFormatter().Format(context.Background(), raw)
	if !ok {
		t.Fatal("expected a description")
	}
	if strings.Contains(got, "Latecomers") {
		t.Errorf("fourth sentence kept: %q", got)
	}
	if !strings.HasPrefix(got, "The biggest queer party returns to the east side. ") {
		t.Errorf("got %q", got)
	}
}

func TestFormatDropsShortFragments(t *testing.T) {
	raw := "Yes. No. Ok. A proper sentence about the party that is long enough to keep."

	got, ok := newNoopFormatter().Format(context.Background(), raw)
	if !ok {
		t.Fatal("expected a description")
	}
	if strings.Contains(got, "Yes") || strings.Contains(got, "Ok") {
		t.Errorf("short fragments kept: %q", got)
	}
}

func TestFormatTruncatesSummary(t *testing.T) {
	sentence := strings.Repeat("a very long description of the event that keeps going ", 4)
	raw := sentence + ". " + sentence + ". " + sentence + "."

	got, ok := newNoopFormatter().Format(context.Background(), raw)
	if !ok {
		t.Fatal("expected a description")
	}
	if n := len([]rune(got)); n > 300 {
		t.Errorf("summary is %d runes, want <= 300", n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("missing ellipsis: %q", got)
	}
}

func TestFormatExtractsLineupBlock(t *testing.T) {
	raw := "A night of house and techno across two floors of the old factory. " +
		"Line-up: Aya Destinée, Club Cheval, La Créole b2b Moody @handle https://example.com/x\n\n" +
		"Info pratique here."

	got, ok := newNoopFormatter().Format(context.Background(), raw)
	if !ok {
		t.Fatal("expected a description")
	}
	if !strings.Contains(got, "\n\n🎧 Lineup:\n") {
		t.Fatalf("missing lineup header: %q", got)
	}
	if strings.Contains(got, "https://") || strings.Contains(got, "@handle") {
		t.Errorf("urls or handles kept: %q", got)
	}
	if !strings.Contains(got, "Aya Destinée") {
		t.Errorf("artists lost: %q", got)
	}
}

func TestFormatExtractsDressCodeBlock(t *testing.T) {
	raw := "An all night rave in the warehouse district with heavy sound. " +
		"Dress code: black and white outfits are mandatory tonight. Creativity is strongly encouraged by the crew. " +
		"A third sentence that should not survive the cut at all."

	got, ok := newNoopFormatter().Format(context.Background(), raw)
	if !ok {
		t.Fatal("expected a description")
	}
	if !strings.Contains(got, "\n\n👔 Dress Code: ") {
		t.Fatalf("missing dress-code header: %q", got)
	}
	if !strings.Contains(got, "black and white outfits are mandatory tonight") {
		t.Errorf("dress code lost: %q", got)
	}
}

func TestFormatEmptySummaryFails(t *testing.T) {
	if _, ok := newNoopFormatter().Format(context.Background(), "Ok. No."); ok {
		t.Error("expected no description for fragment-only input")
	}
	if _, ok := newNoopFormatter().Format(context.Background(), ""); ok {
		t.Error("expected no description for empty input")
	}
}

func TestFormatSummaryStopsBeforeLineup(t *testing.T) {
	raw := "The collective takes over the club for one night only. " +
		"Lineup: Someone, Someone Else, A Third Artist on the decks"

	got, ok := newNoopFormatter().Format(context.Background(), raw)
	if !ok {
		t.Fatal("expected a description")
	}
	summary, _, _ := strings.Cut(got, "\n\n")
	if strings.Contains(summary, "Someone") {
		t.Errorf("lineup leaked into summary: %q", summary)
	}
}

type failingTranslator struct{}

func (failingTranslator) Translate(context.Context, string, string) (string, error) {
	return "", context.DeadlineExceeded
}

func TestFormatKeepsOriginalOnTranslateFailure(t *testing.T) {
	raw := "Une grande soirée queer dans le dixième arrondissement de Paris ce soir."

	got, ok := NewFormatter(failingTranslator{}).Format(context.Background(), raw)
	if !ok {
		t.Fatal("expected a description")
	}
	if !strings.Contains(got, "grande soirée queer") {
		t.Errorf("original text lost: %q", got)
	}
}

func TestComposeWithVenueAndExtras(t *testing.T) {
	e := &event.Event{
		Name:      "BBB",
		VenueName: "La Java",
		City:      "Paris",
		StartDate: "2025-11-21T23:00:00Z",
		EndDate:   "2025-11-22T06:00:00Z",
		Music:     []string{"House", "Techno"},
		Type:      "Club",
	}

	got := Compose(e)
	for _, want := range []string{
		"BBB at La Java in Paris.",
		"🕒 Hours: 23:00 → 06:00",
		"🎧 Music: House, Techno",
		"Dance floor ready with resident and guest DJs.",
		"🌈 Queer crowd, inclusive energy, zero judgment.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
}

func TestComposeMinimal(t *testing.T) {
	got := Compose(&event.Event{Name: "BBB"})
	if !strings.HasPrefix(got, "BBB in Paris.") {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(got, "🌈") {
		t.Errorf("missing closing line: %q", got)
	}
}
