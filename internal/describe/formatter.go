// Package describe renders raw extracted descriptions into the catalog's
// canonical multi-section format.
package describe

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/lfrguimaraes/outy-back/internal/event"
	"github.com/lfrguimaraes/outy-back/internal/logger"
	"github.com/lfrguimaraes/outy-back/internal/translate"
)

const (
	summaryMaxLen   = 300
	summarySents    = 3
	minSentenceLen  = 10
	lineupMinLen    = 20
	lineupMaxLen    = 500
	dressMaxLen     = 200
	dressSents      = 2
	targetLanguage  = "en"
	lineupHeader    = "\n\n🎧 Lineup:\n"
	dressCodeHeader = "\n\n👔 Dress Code: "
)

var (
	lineupSectionRe = regexp.MustCompile(
		`(?is)(mainstage|playstage|line.?up|artists?|djs?)[:\s]+(.*?)` +
			`(?:\n\n|dress|code|vestiaire|info|pratique|consentement|\z)`)
	dressSectionRe = regexp.MustCompile(
		`(?is)(dress.?code|tenue|code vestimentaire)[:\s]+(.*?)` +
			`(?:\n\n|vestiaire|info|pratique|consentement|\z)`)

	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)
	urlRe           = regexp.MustCompile(`https?://\S+`)
	handleRe        = regexp.MustCompile(`@[\w.]+`)
	spaceRunRe      = regexp.MustCompile(`[ \t]+`)
	blankRunRe      = regexp.MustCompile(`\n{3,}`)
	inlineSpaceRe   = regexp.MustCompile(`\s+`)
)

// Formatter turns raw page text into a formatted description. Translation
// is best-effort: when it fails the original language is kept.
type Formatter struct {
	translator translate.Translator
}

// NewFormatter creates a formatter. A nil translator disables translation.
func NewFormatter(translator translate.Translator) *Formatter {
	if translator == nil {
		translator = translate.Noop{}
	}
	return &Formatter{translator: translator}
}

// Format renders raw into the canonical layout: a summary of up to three
// sentences, then an optional lineup block and dress-code block. Returns
// false when the raw text yields no usable summary.
func (f *Formatter) Format(ctx context.Context, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	start := time.Now()
	text, err := f.translator.Translate(ctx, raw, targetLanguage)
	logger.RecordTiming("describe.translate", time.Since(start))
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			logger.Warn("translation failed, keeping original text", logger.Fields{
				"error": err.Error(),
			})
			logger.IncrCounter("describe.translate_fallback")
		}
		text = raw
	}

	// Space runs collapse but paragraph breaks survive, since a blank line
	// is one of the section boundaries.
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	lineupLoc := lineupSectionRe.FindStringSubmatchIndex(text)
	dressLoc := dressSectionRe.FindStringSubmatchIndex(text)

	summaryEnd := len(text)
	if lineupLoc != nil && lineupLoc[0] < summaryEnd {
		summaryEnd = lineupLoc[0]
	}
	if dressLoc != nil && dressLoc[0] < summaryEnd {
		summaryEnd = dressLoc[0]
	}

	summary := formatSummary(text[:summaryEnd])
	if summary == "" {
		return "", false
	}

	var out strings.Builder
	out.WriteString(summary)

	if lineupLoc != nil {
		if block, ok := formatLineup(text[lineupLoc[4]:lineupLoc[5]]); ok {
			out.WriteString(lineupHeader)
			out.WriteString(block)
		}
	}
	if dressLoc != nil {
		if block, ok := formatDressCode(text[dressLoc[4]:dressLoc[5]]); ok {
			out.WriteString(dressCodeHeader)
			out.WriteString(block)
		}
	}
	return strings.TrimSpace(out.String()), true
}

// formatSummary joins the first qualifying sentences and hard-truncates
// over-long results.
func formatSummary(region string) string {
	sentences := splitSentences(region, minSentenceLen)
	if len(sentences) == 0 {
		return ""
	}
	if len(sentences) > summarySents {
		sentences = sentences[:summarySents]
	}
	summary := strings.Join(sentences, ". ")
	return truncate(summary, summaryMaxLen)
}

func formatLineup(section string) (string, bool) {
	section = urlRe.ReplaceAllString(section, "")
	section = handleRe.ReplaceAllString(section, "")
	section = strings.TrimSpace(inlineSpaceRe.ReplaceAllString(section, " "))

	if n := len([]rune(section)); n <= lineupMinLen || n >= lineupMaxLen {
		return "", false
	}
	return section, true
}

func formatDressCode(section string) (string, bool) {
	section = inlineSpaceRe.ReplaceAllString(section, " ")
	sentences := splitSentences(section, minSentenceLen)
	if len(sentences) == 0 {
		return "", false
	}
	if len(sentences) > dressSents {
		sentences = sentences[:dressSents]
	}
	return truncate(strings.Join(sentences, ". "), dressMaxLen), true
}

// splitSentences splits on terminal punctuation and drops fragments at or
// under minLen runes.
func splitSentences(text string, minLen int) []string {
	var out []string
	for _, part := range sentenceSplitRe.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part != "" && len([]rune(part)) > minLen {
			out = append(out, part)
		}
	}
	return out
}

// truncate hard-cuts text to limit runes, reserving room for the ellipsis.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "..."
}

// typeBlurbs describe the common venue types for composed descriptions.
var typeBlurbs = map[string]string{
	"Club":      "Dance floor ready with resident and guest DJs.",
	"Bar":       "Queer-friendly atmosphere with drinks and music.",
	"Concert":   "Live performance event.",
	"Warehouse": "Underground warehouse party vibes.",
	"Boat":      "Party on the water with scenic views.",
}

const closingLine = "\n🌈 Queer crowd, inclusive energy, zero judgment."

// Compose builds a description from the record's own fields, for events
// where no page yielded a usable raw description.
func Compose(e *event.Event) string {
	city := e.City
	if city == "" {
		city = event.DefaultCity
	}

	var out strings.Builder
	if e.VenueName != "" {
		out.WriteString(e.Name + " at " + e.VenueName + " in " + city + ".")
	} else {
		out.WriteString(e.Name + " in " + city + ".")
	}

	if hours, ok := composeHours(e.StartDate, e.EndDate); ok {
		out.WriteString("\n🕒 Hours: " + hours)
	}
	if len(e.Music) > 0 {
		out.WriteString("\n🎧 Music: " + strings.Join(e.Music, ", "))
	}
	if blurb, ok := typeBlurbs[e.Type]; ok {
		out.WriteString("\n✨ " + blurb)
	}
	out.WriteString(closingLine)
	return out.String()
}

func composeHours(startDate, endDate string) (string, bool) {
	if startDate == "" || endDate == "" {
		return "", false
	}
	start, err := time.Parse(time.RFC3339, startDate)
	if err != nil {
		return "", false
	}
	end, err := time.Parse(time.RFC3339, endDate)
	if err != nil {
		return "", false
	}
	return start.Format("15:04") + " → " + end.Format("15:04"), true
}
