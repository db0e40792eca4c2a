package pageview

import (
	"strings"
	"testing"
)

const fixture = `<!DOCTYPE html>
<html>
<head>
<title>BBB - Release Party</title>
<meta property="og:image" content="https://res.cloudinary.com/shotgun/image/upload/production/artworks/bbb.jpg">
<script type="application/ld+json">
{"@type": "Event", "name": "BBB", "description": "A night of afro and house music with the BBB collective."}
</script>
<style>.hidden { display: none; }</style>
</head>
<body>
<nav>Explorer</nav>
<main>
  <h1>BBB</h1>
  <div class="event-description">Nouveauté pour la scène parisienne.</div>
  <p>Doors at 23:00.</p>
  <p itemprop="description">The BBB collective returns.</p>
</main>
<script>console.log("tracking");</script>
</body>
</html>`

func TestViewText(t *testing.T) {
	v, err := FromHTML(fixture)
	if err != nil {
		t.Fatalf("FromHTML: %v", err)
	}

	text := v.Text()
	if !strings.Contains(text, "Nouveauté pour la scène parisienne.") {
		t.Errorf("text missing div content:\n%s", text)
	}
	if strings.Contains(text, "console.log") {
		t.Errorf("script content leaked into text:\n%s", text)
	}
	if strings.Contains(text, "display: none") {
		t.Errorf("style content leaked into text:\n%s", text)
	}

	// Block elements break lines.
	lines := strings.Split(text, "\n")
	var found bool
	for _, line := range lines {
		if line == "Doors at 23:00." {
			found = true
		}
	}
	if !found {
		t.Errorf("expected paragraph on its own line:\n%s", text)
	}
}

func TestViewQuery(t *testing.T) {
	v, err := FromHTML(fixture)
	if err != nil {
		t.Fatalf("FromHTML: %v", err)
	}

	elems := v.Query(`[class*="description"]`)
	if len(elems) != 1 {
		t.Fatalf("expected 1 description element, got %d", len(elems))
	}
	if got := elems[0].Text(); got != "Nouveauté pour la scène parisienne." {
		t.Errorf("element text = %q", got)
	}

	meta, ok := v.First(`meta[property="og:image"]`)
	if !ok {
		t.Fatal("og:image meta not found")
	}
	if got := meta.Attr("content"); !strings.Contains(got, "cloudinary.com") {
		t.Errorf("attr content = %q", got)
	}
	if got := meta.Attr("missing"); got != "" {
		t.Errorf("missing attr should be empty, got %q", got)
	}

	if _, ok := v.First(".does-not-exist"); ok {
		t.Error("First should report absence")
	}
}

func TestViewNestedQuery(t *testing.T) {
	v, err := FromHTML(fixture)
	if err != nil {
		t.Fatalf("FromHTML: %v", err)
	}

	main, ok := v.First("main")
	if !ok {
		t.Fatal("main not found")
	}
	paragraphs := main.Query("p")
	if len(paragraphs) != 2 {
		t.Errorf("expected 2 paragraphs inside main, got %d", len(paragraphs))
	}
}

func TestViewStructuredData(t *testing.T) {
	v, err := FromHTML(fixture)
	if err != nil {
		t.Fatalf("FromHTML: %v", err)
	}

	blocks := v.StructuredData()
	if len(blocks) != 1 {
		t.Fatalf("expected 1 structured block, got %d", len(blocks))
	}
	desc, _ := blocks[0]["description"].(string)
	if !strings.Contains(desc, "afro and house") {
		t.Errorf("structured description = %q", desc)
	}
}

func TestViewStructuredDataList(t *testing.T) {
	v, err := FromHTML(`<html><head><script type="application/ld+json">
	[{"@type":"Event","description":"first"},{"@type":"Place","name":"second"}]
	</script></head><body></body></html>`)
	if err != nil {
		t.Fatalf("FromHTML: %v", err)
	}
	if len(v.StructuredData()) != 2 {
		t.Errorf("expected list entries flattened, got %d", len(v.StructuredData()))
	}
}
