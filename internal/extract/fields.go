package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/lfrguimaraes/outy-back/internal/pageview"
)

// AddressCascade returns the address strategies in priority order.
func AddressCascade(cfg Config) []Strategy {
	return []Strategy{newAddressStrategy(cfg)}
}

// PriceCascade returns the price strategies in priority order.
func PriceCascade(cfg Config) []Strategy {
	return []Strategy{&priceStrategy{}}
}

// InstagramCascade returns the contact-handle strategies.
func InstagramCascade(cfg Config) []Strategy {
	return []Strategy{&instagramStrategy{}}
}

// ImageCascade returns the artwork image strategies.
func ImageCascade(cfg Config) []Strategy {
	return []Strategy{&imageStrategy{cfg: cfg}}
}

// TicketLinkCascade returns the ticket-link strategies.
func TicketLinkCascade(cfg Config) []Strategy {
	return []Strategy{&ticketLinkStrategy{cfg: cfg}}
}

// LineupCascade returns the page-level lineup probes.
func LineupCascade(cfg Config) []Strategy {
	return []Strategy{&lineupStrategy{cfg: cfg}}
}

// DressCodeCascade returns the page-level dress-code probes.
func DressCodeCascade(cfg Config) []Strategy {
	return []Strategy{&dressCodeStrategy{cfg: cfg}}
}

// addressStrategy matches street-type patterns (with postal code and city)
// and labeled address lines, then normalizes the result to carry an
// explicit country suffix.
type addressStrategy struct {
	cfg      Config
	street   []*regexp.Regexp
	labeled  []*regexp.Regexp
	tokens   []string
	cityLow  string
	suffixed string
}

func newAddressStrategy(cfg Config) *addressStrategy {
	city := regexp.QuoteMeta(cfg.City)
	return &addressStrategy{
		cfg: cfg,
		street: []*regexp.Regexp{
			regexp.MustCompile(`(\d+\s+[Rr]ue[^,\n]+,\s*\d{5}\s+` + city + `[^,\n]*)`),
			regexp.MustCompile(`(\d+\s+[Aa]venue[^,\n]+,\s*\d{5}\s+` + city + `[^,\n]*)`),
			regexp.MustCompile(`(\d+\s+[Bb]oulevard[^,\n]+,\s*\d{5}\s+` + city + `[^,\n]*)`),
		},
		labeled: []*regexp.Regexp{
			regexp.MustCompile(`(?i)Adresse[:\s]*([^\n]+)`),
			regexp.MustCompile(`(?i)Lieu[:\s]*([^\n]+)`),
		},
		tokens:   []string{"rue", "avenue", "boulevard"},
		cityLow:  strings.ToLower(cfg.City),
		suffixed: ", " + cfg.CountrySuffix,
	}
}

func (s *addressStrategy) Name() string { return "address-pattern" }

var addressLabelRe = regexp.MustCompile(`(?i)^(adresse|lieu)[:\s]*`)

func (s *addressStrategy) Extract(v *pageview.View) (Candidate, bool) {
	text := v.Text()
	patterns := append(append([]*regexp.Regexp{}, s.street...), s.labeled...)
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		addr := strings.TrimSpace(m[1])
		addr = strings.TrimSpace(addressLabelRe.ReplaceAllString(addr, ""))
		if runeLen(addr) <= 10 {
			continue
		}
		lower := strings.ToLower(addr)
		if !containsAny(lower, s.tokens) && !strings.Contains(lower, s.cityLow) {
			continue
		}
		if strings.Contains(addr, s.cfg.City) && !strings.HasSuffix(addr, s.cfg.CountrySuffix) {
			addr += s.suffixed
		}
		return Candidate{
			Field:    FieldAddress,
			Text:     addr,
			Score:    runeLen(addr),
			Strategy: s.Name(),
		}, true
	}
	return Candidate{}, false
}

// priceStrategy extracts a currency-adjacent numeric value, with the comma
// treated as a decimal separator. The candidate is the normalized decimal
// string, validated by a numeric parse.
type priceStrategy struct{}

var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Entrée[:\s—-]*(\d+[.,]?\d*)\s*euro`),
	regexp.MustCompile(`(?i)Prix[:\s]*(\d+[.,]?\d*)\s*euro`),
	regexp.MustCompile(`(\d+[.,]?\d*)\s*euros?`),
	regexp.MustCompile(`(\d+[.,]?\d*)\s*€`),
}

func (s *priceStrategy) Name() string { return "price-pattern" }

func (s *priceStrategy) Extract(v *pageview.View) (Candidate, bool) {
	text := v.Text()
	for _, re := range pricePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			value := strings.ReplaceAll(m[1], ",", ".")
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				continue
			}
			return Candidate{
				Field:    FieldPrice,
				Text:     value,
				Score:    runeLen(value),
				Strategy: s.Name(),
			}, true
		}
	}
	return Candidate{}, false
}

// instagramStrategy finds a profile URL anywhere in the page text and
// canonicalizes it.
type instagramStrategy struct{}

var instagramRe = regexp.MustCompile(`instagram\.com/([a-zA-Z0-9_.]+)`)

func (s *instagramStrategy) Name() string { return "instagram-url" }

func (s *instagramStrategy) Extract(v *pageview.View) (Candidate, bool) {
	m := instagramRe.FindStringSubmatch(v.Text())
	if m == nil {
		return Candidate{}, false
	}
	url := "https://instagram.com/" + m[1]
	return Candidate{
		Field:    FieldInstagram,
		Text:     url,
		Score:    runeLen(url),
		Strategy: s.Name(),
	}, true
}

// imageStrategy hunts for the event artwork: social meta tags first, then
// image sources, inline background styles, and picture sources. Only URLs
// on the configured CDN pointing at artwork paths qualify.
type imageStrategy struct {
	cfg Config
}

var backgroundURLRe = regexp.MustCompile(`url\(["']?([^"')]+)`)

func (s *imageStrategy) Name() string { return "artwork-image" }

func (s *imageStrategy) Extract(v *pageview.View) (Candidate, bool) {
	if url, ok := s.fromMeta(v); ok {
		return s.candidate(url), true
	}
	if url, ok := s.fromImages(v); ok {
		return s.candidate(url), true
	}
	if url, ok := s.fromStyles(v); ok {
		return s.candidate(url), true
	}
	if url, ok := s.fromPictureSources(v); ok {
		return s.candidate(url), true
	}
	return Candidate{}, false
}

func (s *imageStrategy) candidate(url string) Candidate {
	return Candidate{
		Field:    FieldImage,
		Text:     url,
		Score:    runeLen(url),
		Strategy: s.Name(),
	}
}

func (s *imageStrategy) onCDN(url string) bool {
	return strings.Contains(url, s.cfg.ImageCDNHint)
}

func (s *imageStrategy) isArtwork(url string) bool {
	return strings.Contains(url, s.cfg.ImagePathHint)
}

func (s *imageStrategy) fromMeta(v *pageview.View) (string, bool) {
	for _, selector := range []string{`meta[property="og:image"]`, `meta[name="twitter:image"]`} {
		if meta, ok := v.First(selector); ok {
			if url := meta.Attr("content"); url != "" && s.onCDN(url) {
				return url, true
			}
		}
	}
	return "", false
}

func (s *imageStrategy) fromImages(v *pageview.View) (string, bool) {
	for _, img := range v.Query("img") {
		for _, raw := range []string{img.Attr("src"), img.Attr("srcset")} {
			if raw == "" || !s.onCDN(raw) {
				continue
			}
			url := firstSrcsetURL(raw)
			if !s.isArtwork(url) {
				continue
			}
			if normalized, ok := normalizeImageURL(url); ok {
				return normalized, true
			}
		}
	}
	return "", false
}

func (s *imageStrategy) fromStyles(v *pageview.View) (string, bool) {
	for _, elem := range v.Query(`[style*="background-image"]`) {
		style := elem.Attr("style")
		if !s.onCDN(style) {
			continue
		}
		m := backgroundURLRe.FindStringSubmatch(style)
		if m == nil || !s.onCDN(m[1]) || !s.isArtwork(m[1]) {
			continue
		}
		if normalized, ok := normalizeImageURL(m[1]); ok {
			return normalized, true
		}
	}
	return "", false
}

func (s *imageStrategy) fromPictureSources(v *pageview.View) (string, bool) {
	for _, src := range v.Query("picture source") {
		srcset := src.Attr("srcset")
		if srcset == "" || !s.onCDN(srcset) {
			continue
		}
		url := firstSrcsetURL(srcset)
		if !s.isArtwork(url) {
			continue
		}
		if normalized, ok := normalizeImageURL(url); ok {
			return normalized, true
		}
	}
	return "", false
}

// firstSrcsetURL pulls the first URL out of a srcset-style value.
func firstSrcsetURL(raw string) string {
	if i := strings.IndexByte(raw, ','); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, ' '); i >= 0 {
		raw = raw[:i]
	}
	return raw
}

func normalizeImageURL(url string) (string, bool) {
	switch {
	case strings.HasPrefix(url, "http"):
		return url, true
	case strings.HasPrefix(url, "//"):
		return "https:" + url, true
	default:
		return "", false
	}
}

// ticketLinkStrategy finds the first anchor pointing at a ticketing host,
// resolving relative hrefs against the configured base.
type ticketLinkStrategy struct {
	cfg Config
}

func (s *ticketLinkStrategy) Name() string { return "ticket-anchor" }

func (s *ticketLinkStrategy) Extract(v *pageview.View) (Candidate, bool) {
	var selectors []string
	for _, host := range s.cfg.TicketHosts {
		selectors = append(selectors, `a[href*="`+host+`"]`)
	}
	preferred := s.cfg.TicketHosts[0]

	for _, link := range v.Query(strings.Join(selectors, ", ")) {
		href := link.Attr("href")
		if href == "" || !strings.Contains(href, preferred) {
			continue
		}
		if !strings.HasPrefix(href, "http") {
			if strings.HasPrefix(href, "/") {
				href = s.cfg.TicketBase + href
			} else {
				href = s.cfg.TicketBase + "/" + href
			}
		}
		return Candidate{
			Field:    FieldTicketLink,
			Text:     href,
			Score:    runeLen(href),
			Strategy: s.Name(),
		}, true
	}
	return Candidate{}, false
}

// lineupStrategy probes block elements for lineup vocabulary, falling back
// to short runs of mostly-capitalized words that look like artist names.
type lineupStrategy struct {
	cfg Config
}

const (
	lineupMinLen = 20
	lineupMaxLen = 500
)

func (s *lineupStrategy) Name() string { return "lineup-probe" }

func (s *lineupStrategy) Extract(v *pageview.View) (Candidate, bool) {
	elems := v.Query("p, div, span, li")

	for _, elem := range elems {
		text := elem.Text()
		lower := strings.ToLower(text)
		if !containsAny(lower, s.cfg.LineupKeywords) {
			continue
		}
		if n := runeLen(text); n > lineupMinLen && n < lineupMaxLen {
			return Candidate{
				Field:    FieldLineup,
				Text:     text,
				Score:    runeLen(text),
				Strategy: s.Name(),
			}, true
		}
	}

	// No keyword hit: look for a short run of capitalized words.
	for _, elem := range elems {
		text := elem.Text()
		words := strings.Fields(text)
		if len(words) < 2 || len(words) > 10 {
			continue
		}
		capitalized := 0
		for _, w := range words {
			r := []rune(w)
			if len(r) > 0 && unicode.IsUpper(r[0]) {
				capitalized++
			}
		}
		if capitalized*2 >= len(words) {
			return Candidate{
				Field:    FieldLineup,
				Text:     text,
				Score:    runeLen(text),
				Strategy: s.Name(),
			}, true
		}
	}
	return Candidate{}, false
}

// dressCodeStrategy returns the first block element mentioning a dress-code
// keyword.
type dressCodeStrategy struct {
	cfg Config
}

func (s *dressCodeStrategy) Name() string { return "dress-code-probe" }

func (s *dressCodeStrategy) Extract(v *pageview.View) (Candidate, bool) {
	pageLower := strings.ToLower(v.Text())
	if !containsAny(pageLower, s.cfg.DressCodeKeywords) {
		return Candidate{}, false
	}
	for _, elem := range v.Query("p, div, span") {
		text := elem.Text()
		if containsAny(strings.ToLower(text), s.cfg.DressCodeKeywords) {
			return Candidate{
				Field:    FieldDressCode,
				Text:     text,
				Score:    runeLen(text),
				Strategy: s.Name(),
			}, true
		}
	}
	return Candidate{}, false
}
