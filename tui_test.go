package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunScriptedSession(t *testing.T) {
	backend := &fakeBackend{feedItems: feedOf(1, 2, 3)}
	app := newTestApp(t, backend)
	if err := app.LoadFeed(); err != nil {
		t.Fatalf("LoadFeed: %v", err)
	}

	input := strings.NewReader("L\nj\nl\n?\nq\n")
	var out bytes.Buffer
	if err := Run(app, input, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}

	rendered := out.String()
	if !strings.Contains(rendered, "3 of 3 items") {
		t.Fatalf("catalog header missing:\n%s", rendered)
	}
	if !strings.Contains(rendered, "Commands:") {
		t.Fatalf("help text missing")
	}
	if app.selectedIndex != 1 {
		t.Fatalf("j must advance the selection, got %d", app.selectedIndex)
	}
	if !app.cache.IsLiked(2) {
		t.Fatalf("l must like the selected item")
	}
	if app.session.Layout() != LayoutCatalog {
		t.Fatalf("L must toggle into catalog")
	}
}

func TestRunRendersSwiperCard(t *testing.T) {
	backend := &fakeBackend{feedItems: []ContentItem{{
		ID:          1,
		Name:        "Jazz evening",
		Description: "Live music downtown",
		DateStart:   "2024-03-01",
		Time:        "19:00",
		Location:    "Philharmonic hall",
		Cost:        "0",
	}}}
	app := newTestApp(t, backend)
	if err := app.LoadFeed(); err != nil {
		t.Fatalf("LoadFeed: %v", err)
	}

	var out bytes.Buffer
	if err := Run(app, strings.NewReader("q\n"), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	rendered := out.String()
	for _, want := range []string{"Jazz evening", "2024-03-01 19:00", "Philharmonic hall", "Cost: free", "Card 1/1"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("card missing %q:\n%s", want, rendered)
		}
	}
}

func TestRunRendersExhaustedNotice(t *testing.T) {
	backend := &fakeBackend{}
	app := newTestApp(t, backend)
	if err := app.LoadFeed(); err != nil {
		t.Fatalf("LoadFeed: %v", err)
	}

	var out bytes.Buffer
	if err := Run(app, strings.NewReader("q\n"), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Nothing matched") {
		t.Fatalf("exhausted notice missing:\n%s", out.String())
	}
}

func TestHandleCommandDates(t *testing.T) {
	backend := &fakeBackend{feedItems: feedOf(1)}
	app := newTestApp(t, backend)

	var out bytes.Buffer
	for _, line := range []string{"d 2024-04-01", "d 2024-04-03", "D"} {
		if err := handleCommand(app, line, &out); err != nil {
			t.Fatalf("handleCommand %q: %v", line, err)
		}
	}
	if backend.lastFeedQuery["date_start"][0] != "2024-04-01" {
		t.Fatalf("date filter not applied: %v", backend.lastFeedQuery)
	}

	if err := handleCommand(app, "d", &out); err == nil {
		t.Fatalf("bare d must complain about the missing day")
	}
}

func TestHandleCommandTagsAndSuggestions(t *testing.T) {
	backend := &fakeBackend{}
	app := newTestApp(t, backend)

	var out bytes.Buffer
	if err := handleCommand(app, "tags places", &out); err != nil {
		t.Fatalf("tags: %v", err)
	}
	if !strings.Contains(out.String(), "2\tmusic") {
		t.Fatalf("tags output missing:\n%s", out.String())
	}

	out.Reset()
	if err := handleCommand(app, "suggest jazz", &out); err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if !strings.Contains(out.String(), "jazz night") {
		t.Fatalf("suggestions missing:\n%s", out.String())
	}
}

func TestHandleCommandItemDetail(t *testing.T) {
	backend := &fakeBackend{feedItems: feedOf(1)}
	app := newTestApp(t, backend)
	if err := app.LoadFeed(); err != nil {
		t.Fatalf("LoadFeed: %v", err)
	}

	var out bytes.Buffer
	if err := handleCommand(app, "i", &out); err != nil {
		t.Fatalf("info: %v", err)
	}
	if !strings.Contains(out.String(), "Full description") {
		t.Fatalf("detail missing:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Contact: site https://example.com") {
		t.Fatalf("contact missing:\n%s", out.String())
	}
}

func TestHandleCommandCreate(t *testing.T) {
	backend := &fakeBackend{}
	app := newTestApp(t, backend)

	var out bytes.Buffer
	line := "new-event name=Concert date_start=2024-05-01 cost=500 tag=2"
	if err := handleCommand(app, line, &out); err != nil {
		t.Fatalf("new-event: %v", err)
	}
	if err := handleCommand(app, "new-organizer JazzClub club@example.com", &out); err != nil {
		t.Fatalf("new-organizer: %v", err)
	}
	if len(backend.created) != 2 || backend.created[0] != "Concert" || backend.created[1] != "JazzClub" {
		t.Fatalf("submissions wrong: %v", backend.created)
	}

	if err := handleCommand(app, "new-event cost=500", &out); err == nil {
		t.Fatalf("a draft without a name must fail")
	}
	if err := handleCommand(app, "new-event bogus", &out); err == nil {
		t.Fatalf("a field without = must fail")
	}
}

func TestParseEventDraft(t *testing.T) {
	draft, image, err := parseEventDraft([]string{
		"name=Concert", "city=Kazan", "tag=2", "tag=4", "image=/tmp/a.jpg",
	})
	if err != nil {
		t.Fatalf("parseEventDraft: %v", err)
	}
	if draft.Name != "Concert" || draft.City != "Kazan" {
		t.Fatalf("draft wrong: %+v", draft)
	}
	if len(draft.Tags) != 2 || draft.Tags[1] != 4 {
		t.Fatalf("tags wrong: %v", draft.Tags)
	}
	if image != "/tmp/a.jpg" {
		t.Fatalf("image wrong: %q", image)
	}

	if _, _, err := parseEventDraft([]string{"name=X", "tag=abc"}); err == nil {
		t.Fatalf("bad tag id must fail")
	}
	if _, _, err := parseEventDraft([]string{"name=X", "venue=Y"}); err == nil {
		t.Fatalf("unknown field must fail")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 48); got != "short" {
		t.Fatalf("truncate short: %q", got)
	}
	long := strings.Repeat("x", 60)
	got := truncate(long, 10)
	if got != "xxxxxxx..." {
		t.Fatalf("truncate long: %q", got)
	}
}
