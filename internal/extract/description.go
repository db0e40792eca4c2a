package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lfrguimaraes/outy-back/internal/pageview"
	"github.com/lfrguimaraes/outy-back/internal/textutil"
)

// Acceptance thresholds for the description cascade. Lengths are rune
// counts.
const (
	labelSectionMinLen   = 200
	structuredDataMinLen = 50
	selectorHintMinLen   = 80
	selectorHintMaxLen   = 2000
	densityMinLen        = 500
	densityMaxLen        = 10000
	paragraphMinLen      = 50
	paragraphMaxLen      = 500
	paragraphTake        = 3
	lineScanMinLen       = 50
	lineScanMaxLen       = 400
	lineScanTake         = 3
	combinedMinLen       = 80
)

// Score bonuses for the density strategy.
const (
	aboutKeywordBonus = 1000
	eventKeywordBonus = 500
)

func runeLen(s string) int { return utf8.RuneCountInString(s) }

// DescriptionCascade returns the description strategies in priority order.
func DescriptionCascade(cfg Config) []Strategy {
	cls := textutil.NewClassifier(cfg.Text)
	return []Strategy{
		newLabelSectionStrategy(cfg),
		&structuredDataStrategy{},
		&selectorHintStrategy{cfg: cfg, cls: cls},
		&densityScoreStrategy{cfg: cfg},
		&paragraphStrategy{cfg: cfg},
		&lineScanStrategy{cfg: cfg, cls: cls},
	}
}

// labelSectionStrategy searches the full page text for a description label
// ("À propos", "About", ...) and captures everything up to the next
// recognized section header or end of text.
type labelSectionStrategy struct {
	cfg      Config
	patterns []*regexp.Regexp
}

var labelPrefixRe = regexp.MustCompile(`(?i)^(?:[àa] propos|about|description)[:\s]*`)

func newLabelSectionStrategy(cfg Config) *labelSectionStrategy {
	s := &labelSectionStrategy{cfg: cfg}
	stop := `\z`
	if len(cfg.SectionStopKeywords) > 0 {
		quoted := make([]string, len(cfg.SectionStopKeywords))
		for i, kw := range cfg.SectionStopKeywords {
			quoted[i] = regexp.QuoteMeta(kw)
		}
		stop = `(?:\n\n[^\n]{0,30}(?:` + strings.Join(quoted, `|`) + `)|\z)`
	}
	for _, label := range []string{`Nouveauté pour`, `À propos[:\s]*`, `About[:\s]*`, `Description[:\s]*`} {
		s.patterns = append(s.patterns,
			regexp.MustCompile(`(?is)(`+label+`.*?)`+stop))
	}
	return s
}

func (s *labelSectionStrategy) Name() string { return "label-section" }

func (s *labelSectionStrategy) Extract(v *pageview.View) (Candidate, bool) {
	text := v.Text()
	for _, re := range s.patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		section := strings.TrimSpace(m[1])
		section = strings.TrimSpace(labelPrefixRe.ReplaceAllString(section, ""))
		if runeLen(section) > labelSectionMinLen {
			return Candidate{
				Field:    FieldDescription,
				Text:     section,
				Score:    runeLen(section),
				Strategy: s.Name(),
			}, true
		}
	}
	return Candidate{}, false
}

// structuredDataStrategy reads description values out of embedded JSON-LD
// blocks.
type structuredDataStrategy struct{}

func (s *structuredDataStrategy) Name() string { return "structured-data" }

func (s *structuredDataStrategy) Extract(v *pageview.View) (Candidate, bool) {
	for _, block := range v.StructuredData() {
		desc, _ := block["description"].(string)
		if runeLen(desc) > structuredDataMinLen {
			return Candidate{
				Field:    FieldDescription,
				Text:     strings.TrimSpace(desc),
				Score:    runeLen(desc),
				Strategy: s.Name(),
			}, true
		}
	}
	return Candidate{}, false
}

// selectorHintStrategy queries elements whose class or attribute names hint
// at a description.
type selectorHintStrategy struct {
	cfg Config
	cls *textutil.Classifier
}

var descriptionSelectors = []string{
	`[class*="description"]`,
	`[class*="Description"]`,
	`[class*="content"]`,
	`[class*="text"]`,
	`[data-testid*="description"]`,
	`.event-description`,
	`[itemprop="description"]`,
}

var selectorRejectKeywords = []string{"billet", "ticket", "cookie", "privacy"}

func (s *selectorHintStrategy) Name() string { return "selector-hint" }

func (s *selectorHintStrategy) Extract(v *pageview.View) (Candidate, bool) {
	for _, selector := range descriptionSelectors {
		for _, elem := range v.Query(selector) {
			text := elem.Text()
			n := runeLen(text)
			if n <= selectorHintMinLen || n >= selectorHintMaxLen {
				continue
			}
			if strings.HasPrefix(text, "http") {
				continue
			}
			lower := strings.ToLower(text)
			if containsAny(lower, selectorRejectKeywords) {
				continue
			}
			if s.cls.ContainsMonth(text, 50) {
				continue
			}
			return Candidate{
				Field:    FieldDescription,
				Text:     text,
				Score:    n,
				Strategy: s.Name(),
			}, true
		}
	}
	return Candidate{}, false
}

// densityScoreStrategy scans all divs and scores each by content length
// plus bonuses for about/event vocabulary, then tries to slice the labeled
// section out of the winner.
type densityScoreStrategy struct {
	cfg Config
}

func (s *densityScoreStrategy) Name() string { return "density-score" }

func (s *densityScoreStrategy) Extract(v *pageview.View) (Candidate, bool) {
	var best string
	bestScore := 0

	for _, div := range v.Query("div") {
		text := div.Text()
		n := runeLen(text)
		if n <= densityMinLen || n >= densityMaxLen {
			continue
		}
		lower := strings.ToLower(text)
		if containsAny(lower, s.cfg.ForbiddenKeywords) {
			continue
		}

		head := lower
		if runes := []rune(head); len(runes) > 200 {
			head = string(runes[:200])
		}
		hasAbout := containsAny(head, s.cfg.AboutKeywords)
		hasEvent := containsAny(lower, s.cfg.EventKeywords)
		if !hasAbout && !hasEvent {
			continue
		}

		score := n
		if hasAbout {
			score += aboutKeywordBonus
		}
		if hasEvent {
			score += eventKeywordBonus
		}
		if score > bestScore {
			best = text
			bestScore = score
		}
	}

	if best == "" {
		return Candidate{}, false
	}

	if section := s.sliceLabeledSection(best); section != "" {
		return Candidate{
			Field:    FieldDescription,
			Text:     section,
			Score:    bestScore,
			Strategy: s.Name(),
		}, true
	}
	return Candidate{
		Field:    FieldDescription,
		Text:     strings.TrimSpace(best),
		Score:    bestScore,
		Strategy: s.Name(),
	}, true
}

// sliceLabeledSection cuts the block down to the lines between an about
// label and the next section header. Returns "" when the slice is too short
// to stand on its own.
func (s *densityScoreStrategy) sliceLabeledSection(block string) string {
	lines := strings.Split(block, "\n")
	start := -1
	for i, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))
		if containsAny(lower, s.cfg.AboutKeywords) && runeLen(line) < 50 {
			start = i + 1
			break
		}
	}
	if start < 0 || start >= len(lines) {
		return ""
	}

	var kept []string
	for _, line := range lines[start:] {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		if containsAny(lower, s.cfg.SectionStopKeywords) && runeLen(trimmed) < 80 {
			break
		}
		kept = append(kept, line)
	}
	if len(kept) == 0 {
		return ""
	}

	section := strings.TrimSpace(strings.Join(kept, "\n"))
	section = strings.TrimSpace(labelPrefixRe.ReplaceAllString(section, ""))
	if runeLen(section) > labelSectionMinLen {
		return section
	}
	return ""
}

// paragraphStrategy aggregates the first few qualifying paragraphs of the
// main content region.
type paragraphStrategy struct {
	cfg Config
}

const mainContentSelector = `main, [role="main"], article, [class*="event"]`

var dayMonthPrefixRe = regexp.MustCompile(`(?i)^\d{1,2}\s+(nov|dec|déc|jan)`)

func (s *paragraphStrategy) Name() string { return "paragraphs" }

func (s *paragraphStrategy) Extract(v *pageview.View) (Candidate, bool) {
	main, ok := v.First(mainContentSelector)
	if !ok {
		return Candidate{}, false
	}

	var texts []string
	for _, p := range main.Query("p") {
		text := p.Text()
		n := runeLen(text)
		if n <= paragraphMinLen || n >= paragraphMaxLen {
			continue
		}
		if strings.HasPrefix(text, "http") {
			continue
		}
		lower := strings.ToLower(text)
		head := lower
		if runes := []rune(head); len(runes) > 30 {
			head = string(runes[:30])
		}
		if strings.Contains(head, "billet") || strings.Contains(head, "ticket") {
			continue
		}
		if strings.Contains(lower, "discover upcoming") {
			continue
		}
		if dayMonthPrefixRe.MatchString(lower) {
			continue
		}
		texts = append(texts, text)
		if len(texts) == paragraphTake {
			break
		}
	}

	if len(texts) == 0 {
		return Candidate{}, false
	}
	combined := strings.Join(texts, " ")
	if runeLen(combined) <= combinedMinLen {
		return Candidate{}, false
	}
	return Candidate{
		Field:    FieldDescription,
		Text:     combined,
		Score:    runeLen(combined),
		Strategy: s.Name(),
	}, true
}

// lineScanStrategy is the last resort: scan normalized text lines, skip
// anything that looks like navigation, prices, or dates, and keep the first
// few substantial lines.
type lineScanStrategy struct {
	cfg Config
	cls *textutil.Classifier
}

func (s *lineScanStrategy) Name() string { return "line-scan" }

func (s *lineScanStrategy) Extract(v *pageview.View) (Candidate, bool) {
	text := v.Text()
	if main, ok := v.First(mainContentSelector); ok {
		if t := main.Text(); t != "" {
			text = t
		}
	}

	var kept []string
	for _, line := range textutil.Lines(textutil.Normalize(text)) {
		head := strings.ToLower(line)
		if runes := []rune(head); len(runes) > 50 {
			head = string(runes[:50])
		}
		if containsAny(head, selectorRejectKeywords) || s.cls.ContainsMonth(head, 0) {
			continue
		}
		if s.cls.IsBoilerplate(line) {
			continue
		}

		n := runeLen(line)
		if n <= lineScanMinLen || n >= lineScanMaxLen {
			continue
		}
		if strings.HasPrefix(line, "http") || strings.ContainsRune(line, '€') {
			continue
		}
		if line[0] >= '0' && line[0] <= '9' {
			continue
		}
		kept = append(kept, line)
		if len(kept) == lineScanTake {
			break
		}
	}

	if len(kept) == 0 {
		return Candidate{}, false
	}
	combined := strings.Join(kept, " ")
	if runeLen(combined) <= combinedMinLen {
		return Candidate{}, false
	}
	return Candidate{
		Field:    FieldDescription,
		Text:     combined,
		Score:    runeLen(combined),
		Strategy: s.Name(),
	}, true
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
