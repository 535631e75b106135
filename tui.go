package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Run is the plain-pipe fallback used when stdio is not a terminal: one
// command per line, a full render after each.
func Run(app *App, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, render(app))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := handleCommand(app, line, out); err != nil {
			return err
		}
		if line == "q" || line == "quit" {
			break
		}
		fmt.Fprintln(out, render(app))
	}
	return scanner.Err()
}

func handleCommand(app *App, line string, out io.Writer) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	switch parts[0] {
	case "q", "quit":
		return nil
	case "j", "down":
		app.MoveSelection(1)
	case "k", "up":
		app.MoveSelection(-1)
	case "r", "refresh":
		return app.reloadActive()
	case "t", "tag":
		if len(parts) < 2 {
			return fmt.Errorf("missing tag")
		}
		return app.LoadTagged(parts[1])
	case "s", "search":
		query := strings.Join(parts[1:], " ")
		return app.SearchEvents(query)
	case "l", "like":
		if item := app.Selected(); item != nil {
			return app.Like(*item)
		}
	case "x", "dislike":
		if item := app.Selected(); item != nil {
			return app.Dislike(*item)
		}
	case "u", "unmark":
		if item := app.Selected(); item != nil {
			return app.Unmark(*item)
		}
	case "L", "layout":
		app.ToggleLayout()
	case "d", "day":
		if len(parts) < 2 {
			return fmt.Errorf("missing day key")
		}
		app.SelectDay(parts[1])
	case "D", "dates":
		return app.SubmitDates()
	case "C", "clear-dates":
		return app.ClearDates()
	case "o", "open":
		return app.OpenSelected()
	case "R", "reactions":
		app.LoadReactions()
	case "g", "organizers":
		return app.LoadOrganizers()
	case "G", "my-organizers":
		return app.LoadUserOrganizers()
	case "del", "delete-organizer":
		if len(parts) < 2 {
			return fmt.Errorf("missing organizer id")
		}
		id, err := strconv.Atoi(parts[1])
		if err != nil {
			return fmt.Errorf("bad organizer id %q", parts[1])
		}
		return app.DeleteOrganizer(id)
	case "routes":
		return app.LoadRoutes()
	case "export":
		if len(parts) < 2 {
			return fmt.Errorf("missing export path")
		}
		return app.store.ExportState(parts[1])
	case "import":
		if len(parts) < 2 {
			return fmt.Errorf("missing import path")
		}
		return app.store.ImportState(parts[1])
	case "p", "participants":
		if item := app.Selected(); item != nil {
			return app.LoadParticipants(item.ID)
		}
	case "i", "info":
		if item := app.Selected(); item != nil {
			detail, err := app.ItemDetail(item.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderDetail(detail))
		}
	case "tags":
		category := CategoryEvents
		if len(parts) > 1 {
			category = MacroCategory(parts[1])
		}
		tags, err := app.LoadTags(category)
		if err != nil {
			return err
		}
		for _, tag := range tags {
			fmt.Fprintf(out, "%d\t%s\n", tag.ID, tag.Name)
		}
	case "suggest":
		for _, suggestion := range app.LoadSuggestions(strings.Join(parts[1:], " ")) {
			fmt.Fprintln(out, suggestion)
		}
	case "new-event":
		draft, imagePath, err := parseEventDraft(parts[1:])
		if err != nil {
			return err
		}
		return app.SubmitEvent(draft, imagePath)
	case "new-organizer":
		if len(parts) < 3 {
			return fmt.Errorf("usage: new-organizer <name> <email> [phone] [image]")
		}
		draft := OrganizerDraft{Name: parts[1], Email: parts[2]}
		if len(parts) > 3 {
			draft.Phone = parts[3]
		}
		imagePath := ""
		if len(parts) > 4 {
			imagePath = parts[4]
		}
		return app.SubmitOrganizer(draft, imagePath)
	case "?", "help":
		fmt.Fprintln(out, helpText())
	}
	return nil
}

func render(app *App) string {
	lines := []string{}
	switch app.session.State() {
	case SessionLoading:
		lines = append(lines, "Loading...")
	case SessionErrored:
		lines = append(lines, "Error: "+app.session.ErrorMessage())
	case SessionExhausted:
		lines = append(lines, "Nothing matched. Change dates or categories.")
	default:
		if app.session.Layout() == LayoutCatalog {
			lines = append(lines, renderCatalog(app)...)
		} else {
			lines = append(lines, renderSwiperCard(app)...)
		}
	}
	if app.status != "" {
		lines = append(lines, "Status: "+app.status)
	}
	return strings.Join(lines, "\n")
}

// parseEventDraft reads key=value fields, e.g.
// new-event name=Concert date_start=2024-05-01 cost=500 image=/tmp/a.jpg
func parseEventDraft(fields []string) (ContentDraft, string, error) {
	draft := ContentDraft{}
	imagePath := ""
	for _, field := range fields {
		key, value, found := strings.Cut(field, "=")
		if !found {
			return ContentDraft{}, "", fmt.Errorf("expected key=value, got %q", field)
		}
		switch key {
		case "name":
			draft.Name = value
		case "description":
			draft.Description = value
		case "date_start":
			draft.DateStart = value
		case "date_end":
			draft.DateEnd = value
		case "time":
			draft.Time = value
		case "cost":
			draft.Cost = value
		case "location":
			draft.Location = value
		case "city":
			draft.City = value
		case "event_type":
			draft.EventType = EventType(value)
		case "tag":
			id, err := strconv.Atoi(value)
			if err != nil {
				return ContentDraft{}, "", fmt.Errorf("bad tag id %q", value)
			}
			draft.Tags = append(draft.Tags, id)
		case "image":
			imagePath = value
		default:
			return ContentDraft{}, "", fmt.Errorf("unknown field %q", key)
		}
	}
	if draft.Name == "" {
		return ContentDraft{}, "", fmt.Errorf("missing name")
	}
	return draft, imagePath, nil
}

func renderDetail(item ContentItem) string {
	lines := []string{
		"Name: " + item.Name,
		"About: " + item.Description,
	}
	if item.DateStart != "" {
		lines = append(lines, "When: "+item.DateStart)
	}
	if item.Location != "" {
		lines = append(lines, "Where: "+item.Location)
	}
	if item.Free() {
		lines = append(lines, "Cost: free")
	} else if item.Cost != "" {
		lines = append(lines, "Cost: "+item.Cost)
	}
	for _, contact := range item.Contacts {
		lines = append(lines, "Contact: "+contact.Label+" "+contact.Value)
	}
	if len(item.Tags) > 0 {
		names := make([]string, len(item.Tags))
		for i, tag := range item.Tags {
			names[i] = tag.Name
		}
		lines = append(lines, "Tags: "+strings.Join(names, ", "))
	}
	return strings.Join(lines, "\n")
}

func renderCatalog(app *App) []string {
	visible := app.session.Visible()
	lines := []string{fmt.Sprintf("%d of %d items", len(visible), app.session.Len())}
	for i, item := range visible {
		prefix := " "
		if i == app.selectedIndex {
			prefix = ">"
		}
		lines = append(lines, fmt.Sprintf("%s %s %s", prefix, markGlyph(app, item.ID), truncate(item.Name, 48)))
	}
	return lines
}

func renderSwiperCard(app *App) []string {
	item := app.Selected()
	if item == nil {
		return []string{"No item selected"}
	}
	lines := []string{
		"Name: " + item.Name,
		"About: " + truncate(item.Description, 72),
	}
	if item.DateStart != "" {
		when := item.DateStart
		if item.DateEnd != "" && item.DateEnd != item.DateStart {
			when += " - " + item.DateEnd
		}
		if item.Time != "" {
			when += " " + item.Time
		}
		lines = append(lines, "When: "+when)
	}
	if item.Location != "" {
		lines = append(lines, "Where: "+item.Location)
	}
	if item.Free() {
		lines = append(lines, "Cost: free")
	} else {
		lines = append(lines, "Cost: "+item.Cost)
	}
	if mark, ok := app.ItemMark(item.ID); ok {
		lines = append(lines, "Mark: "+string(mark))
	}
	lines = append(lines, fmt.Sprintf("Card %d/%d", app.selectedIndex+1, app.session.Len()))
	return lines
}

func markGlyph(app *App, id int) string {
	mark, ok := app.ItemMark(id)
	if !ok {
		return " "
	}
	if mark == ReactionLike {
		return "+"
	}
	return "-"
}

func truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	if max <= 0 {
		return ""
	}
	if len(value) <= max {
		return value
	}
	if max <= 3 {
		return value[:max]
	}
	return value[:max-3] + "..."
}

func helpText() string {
	return strings.Join([]string{
		"Commands:",
		"  j/k: move",
		"  r: refresh",
		"  t <tag>: tag feed",
		"  s <query>: search",
		"  l: like",
		"  x: dislike",
		"  u: unmark",
		"  L: toggle layout",
		"  d <yyyy-mm-dd>: select day",
		"  D: apply date filter",
		"  C: clear date filter",
		"  R: load reactions",
		"  g: organizers",
		"  G: my organizers",
		"  del <id>: delete organizer",
		"  routes: load routes",
		"  i: full item detail",
		"  tags [category]: list tags",
		"  suggest <q>: search suggestions",
		"  new-event key=value...: publish an event",
		"  new-organizer <name> <email> [phone] [image]: publish an organizer",
		"  export <path>: save marks to a file",
		"  import <path>: load marks from a file",
		"  p: participants",
		"  o: open link",
		"  q: quit",
	}, "\n")
}
