package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputTag
	inputDay
)

type screen int

const (
	screenFeed screen = iota
	screenLikes
	screenOrganizers
	screenRoutes
)

type spinnerTickMsg struct{}

type feedResultMsg struct {
	generation int
	items      []ContentItem
	totalCount int
	err        error
}

type reactionsLoadedMsg struct{}

type reactionResultMsg struct {
	action ReactionKind
	err    error
}

type organizersLoadedMsg struct {
	err error
}

type routesLoadedMsg struct {
	err error
}

type participantsLoadedMsg struct {
	err error
}

type tuiModel struct {
	app           *App
	width         int
	height        int
	input         textinput.Model
	inputMode     inputMode
	screen        screen
	showHelp      bool
	likesCursor   int
	orgCursor     int
	routeCursor   int
	spinnerIndex  int
	spinnerFrames []string
}

var (
	teaNewProgram = tea.NewProgram
	runTeaProgram = func(program *tea.Program) (tea.Model, error) { return program.Run() }
)

func RunTUI(app *App) error {
	model := newTUIModel(app)
	program := teaNewProgram(model, tea.WithAltScreen())
	_, err := runTeaProgram(program)
	return err
}

func newTUIModel(app *App) tuiModel {
	input := textinput.New()
	input.CharLimit = 256
	input.Width = 50
	input.Prompt = "> "
	return tuiModel{
		app:           app,
		input:         input,
		spinnerFrames: []string{"|", "/", "-", "\\"},
	}
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(
		tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
			return spinnerTickMsg{}
		}),
		m.dispatchFeed(),
		loadReactionsCmd(m.app),
	)
}

// dispatchFeed tags the fetch on the update loop, so a response from a
// superseded fetch is recognized as stale when it lands.
func (m *tuiModel) dispatchFeed() tea.Cmd {
	generation := m.app.session.Begin()
	params := m.app.dates.Params()
	params.Tag = m.app.activeTag
	client := m.app.client
	return func() tea.Msg {
		var items []ContentItem
		var err error
		if params.Tag != "" {
			items, err = client.Contents(params)
		} else {
			items, err = client.Feed(params)
		}
		return feedResultMsg{generation: generation, items: items, totalCount: -1, err: err}
	}
}

func (m *tuiModel) dispatchSearch(query string) tea.Cmd {
	m.app.searchQuery = query
	if query == "" {
		return m.dispatchFeed()
	}
	generation := m.app.session.Begin()
	start, end := m.app.dates.Borders()
	client := m.app.client
	city := m.app.config.City
	return func() tea.Msg {
		result, err := client.Search(SearchParams{Query: query, City: city, DateFrom: start, DateTo: end})
		return feedResultMsg{generation: generation, items: result.Contents, totalCount: result.TotalCount, err: err}
	}
}

func loadReactionsCmd(app *App) tea.Cmd {
	return func() tea.Msg {
		app.LoadReactions()
		return reactionsLoadedMsg{}
	}
}

func reactCmd(app *App, action ReactionKind, item ContentItem) tea.Cmd {
	return func() tea.Msg {
		return reactionResultMsg{action: action, err: app.React(action, item)}
	}
}

func loadOrganizersCmd(app *App) tea.Cmd {
	return func() tea.Msg {
		if err := app.LoadOrganizers(); err != nil {
			return organizersLoadedMsg{err: err}
		}
		return organizersLoadedMsg{err: app.LoadUserOrganizers()}
	}
}

func loadRoutesCmd(app *App) tea.Cmd {
	return func() tea.Msg {
		return routesLoadedMsg{err: app.LoadRoutes()}
	}
}

func loadParticipantsCmd(app *App, contentID int) tea.Cmd {
	return func() tea.Msg {
		return participantsLoadedMsg{err: app.LoadParticipants(contentID)}
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case spinnerTickMsg:
		if len(m.spinnerFrames) > 0 {
			m.spinnerIndex = (m.spinnerIndex + 1) % len(m.spinnerFrames)
		}
		return m, tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
			return spinnerTickMsg{}
		})
	case feedResultMsg:
		_ = m.app.finishFetchCount(msg.generation, msg.items, msg.totalCount, msg.err)
		return m, nil
	case reactionsLoadedMsg, organizersLoadedMsg, routesLoadedMsg, participantsLoadedMsg:
		return m, nil
	case reactionResultMsg:
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.showHelp {
		if key == "/" || key == "esc" || key == "q" {
			m.showHelp = false
		}
		return m, nil
	}
	if m.inputMode != inputNone {
		var cmd tea.Cmd
		switch key {
		case "esc":
			m.inputMode = inputNone
			m.input.Blur()
			m.input.SetValue("")
			return m, nil
		case "enter":
			return m.commitInput()
		}
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "/":
		m.showHelp = true
	case "tab":
		m.screen = (m.screen + 1) % 4
		switch m.screen {
		case screenLikes:
			return m, loadReactionsCmd(m.app)
		case screenOrganizers:
			return m, loadOrganizersCmd(m.app)
		case screenRoutes:
			return m, loadRoutesCmd(m.app)
		}
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "r":
		if m.screen == screenFeed {
			return m, m.dispatchFeed()
		}
	case "s":
		if m.screen == screenFeed {
			m = m.startInput(inputSearch, "Search events")
		}
	case "t":
		if m.screen == screenFeed {
			m = m.startInput(inputTag, "Tag")
		}
	case "d":
		m = m.startInput(inputDay, "Day (YYYY-MM-DD)")
	case "D":
		m.app.dates.Submit()
		return m, m.dispatchActive()
	case "C":
		m.app.dates.Clear()
		return m, m.dispatchActive()
	case "v":
		m.app.ToggleLayout()
	case "l", "right":
		if item := m.currentItem(); item != nil {
			m.advanceSwiper()
			return m, reactCmd(m.app, ReactionLike, *item)
		}
	case "x", "left":
		if item := m.currentItem(); item != nil {
			m.advanceSwiper()
			return m, reactCmd(m.app, ReactionDislike, *item)
		}
	case "u":
		if item := m.currentItem(); item != nil {
			return m, reactCmd(m.app, ReactionUnmark, *item)
		}
	case "p":
		if item := m.currentItem(); item != nil {
			return m, loadParticipantsCmd(m.app, item.ID)
		}
	case "o":
		_ = m.app.OpenSelected()
	case "backspace":
		if m.screen == screenOrganizers {
			return m, m.deleteOrganizerCmd()
		}
	}
	return m, nil
}

func (m *tuiModel) dispatchActive() tea.Cmd {
	if m.app.searchQuery != "" {
		return m.dispatchSearch(m.app.searchQuery)
	}
	return m.dispatchFeed()
}

func (m *tuiModel) deleteOrganizerCmd() tea.Cmd {
	owned := m.app.userOrganizers
	if m.orgCursor >= len(owned) {
		return nil
	}
	id := owned[m.orgCursor].ID
	app := m.app
	return func() tea.Msg {
		return organizersLoadedMsg{err: app.DeleteOrganizer(id)}
	}
}

func (m *tuiModel) moveCursor(delta int) {
	switch m.screen {
	case screenFeed:
		m.app.MoveSelection(delta)
	case screenLikes:
		m.likesCursor = clampIndex(m.likesCursor+delta, len(m.app.cache.Liked()))
	case screenOrganizers:
		m.orgCursor = clampIndex(m.orgCursor+delta, len(m.app.userOrganizers))
	case screenRoutes:
		m.routeCursor = clampIndex(m.routeCursor+delta, len(m.app.routes))
	}
}

func (m *tuiModel) currentItem() *ContentItem {
	switch m.screen {
	case screenFeed:
		return m.app.Selected()
	case screenLikes:
		liked := m.app.cache.Liked()
		if m.likesCursor < len(liked) {
			item := liked[m.likesCursor]
			return &item
		}
	}
	return nil
}

// advanceSwiper moves to the next card after a reaction in swiper mode;
// running past the last card flips the session to exhausted.
func (m *tuiModel) advanceSwiper() {
	if m.screen != screenFeed || m.app.session.Layout() != LayoutSwiper {
		return
	}
	if m.app.selectedIndex >= m.app.session.Len()-1 {
		m.app.session.SetExhausted(true)
		return
	}
	m.app.MoveSelection(1)
}

func (m tuiModel) startInput(mode inputMode, placeholder string) tuiModel {
	m.inputMode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	m.input.Focus()
	return m
}

func (m tuiModel) commitInput() (tea.Model, tea.Cmd) {
	mode := m.inputMode
	value := strings.TrimSpace(m.input.Value())
	m.inputMode = inputNone
	m.input.Blur()
	m.input.SetValue("")

	switch mode {
	case inputSearch:
		return m, m.dispatchSearch(value)
	case inputTag:
		m.app.activeTag = value
		m.app.searchQuery = ""
		return m, m.dispatchFeed()
	case inputDay:
		if value != "" {
			m.app.SelectDay(value)
		}
		return m, nil
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	if m.inputMode != inputNone {
		return m.renderInputOverlay()
	}

	header := m.renderTabs()
	var body string
	switch m.screen {
	case screenFeed:
		body = m.renderFeed()
	case screenLikes:
		body = m.renderLikes()
	case screenOrganizers:
		body = m.renderOrganizers()
	case screenRoutes:
		body = m.renderRoutes()
	}
	status := m.renderStatusBar(m.width)
	bodyHeight := m.height - lipgloss.Height(header) - 1
	if bodyHeight < 5 {
		bodyHeight = 5
	}
	body = lipgloss.NewStyle().Height(bodyHeight).Render(body)
	return lipgloss.JoinVertical(lipgloss.Top, header, body, status)
}

func (m tuiModel) renderTabs() string {
	names := []string{"Feed", "Likes", "Organizers", "Routes"}
	rendered := make([]string, len(names))
	for i, name := range names {
		style := lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("241"))
		if screen(i) == m.screen {
			style = style.Bold(true).Foreground(lipgloss.Color("205"))
		}
		rendered[i] = style.Render(name)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m tuiModel) renderFeed() string {
	style := lipgloss.NewStyle().Padding(1, 2)
	switch m.app.session.State() {
	case SessionLoading:
		return style.Render(m.spinnerFrames[m.spinnerIndex] + " Loading...")
	case SessionErrored:
		return style.Render("Something went wrong.\n" + m.app.session.ErrorMessage() + "\n\nChange the filter to retry.")
	case SessionExhausted:
		return style.Render("That's everything for now.\n\nPress 'd'+'D' to change dates or 't' to pick another tag.")
	case SessionIdle:
		return style.Render("Press 'r' to load the feed.")
	}
	if m.app.session.Layout() == LayoutCatalog {
		return style.Render(m.renderCatalogList())
	}
	return style.Render(m.renderSwiperCard())
}

func (m tuiModel) renderCatalogList() string {
	visible := m.app.session.Visible()
	header := fmt.Sprintf("Catalog - %d of %d", len(visible), m.app.session.Len())
	if total := m.app.session.TotalCount(); total > m.app.session.Len() {
		header += fmt.Sprintf(" (%d matches on the server)", total)
	}
	lines := []string{header}
	for i, item := range visible {
		prefix := " "
		if i == m.app.selectedIndex {
			prefix = "▸"
		}
		line := fmt.Sprintf("%s %s %s", prefix, markGlyph(m.app, item.ID), truncate(item.Name, m.width-10))
		if i == m.app.selectedIndex {
			line = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m tuiModel) renderSwiperCard() string {
	item := m.app.Selected()
	if item == nil {
		return "No item selected"
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	metaStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	lines := []string{titleStyle.Render(item.Name), ""}
	width := m.width - 6
	if width < 20 {
		width = 20
	}
	for _, line := range wrapText(item.Description, width) {
		lines = append(lines, line)
	}
	lines = append(lines, "")
	if item.DateStart != "" {
		when := item.DateStart
		if item.DateEnd != "" && item.DateEnd != item.DateStart {
			when += " - " + item.DateEnd
		}
		if item.Time != "" {
			when += " " + item.Time
		}
		lines = append(lines, metaStyle.Render("When: "+when))
	}
	if item.Location != "" {
		lines = append(lines, metaStyle.Render("Where: "+item.Location))
	}
	if item.Free() {
		lines = append(lines, metaStyle.Render("Cost: free"))
	} else {
		lines = append(lines, metaStyle.Render("Cost: "+item.Cost))
	}
	if len(item.Tags) > 0 {
		names := make([]string, len(item.Tags))
		for i, tag := range item.Tags {
			names[i] = tag.Name
		}
		lines = append(lines, metaStyle.Render("Tags: "+strings.Join(names, ", ")))
	}
	if mark, ok := m.app.ItemMark(item.ID); ok {
		lines = append(lines, metaStyle.Render("Mark: "+string(mark)))
	}
	if len(m.app.participants) > 0 {
		names := make([]string, 0, len(m.app.participants))
		for _, participant := range m.app.participants {
			names = append(names, participant.Username)
		}
		lines = append(lines, metaStyle.Render("Also liked by: "+strings.Join(names, ", ")))
	}
	lines = append(lines, "", fmt.Sprintf("Card %d/%d   l: like  x: dislike  v: catalog", m.app.selectedIndex+1, m.app.session.Len()))
	return strings.Join(lines, "\n")
}

func (m tuiModel) renderLikes() string {
	style := lipgloss.NewStyle().Padding(1, 2)
	cache := m.app.cache
	if !cache.LikedLoaded() && cache.LikedError() == "" {
		return style.Render(m.spinnerFrames[m.spinnerIndex] + " Loading likes...")
	}
	if cache.LikedError() != "" {
		return style.Render("Likes load failed: " + cache.LikedError())
	}
	liked := cache.Liked()
	if len(liked) == 0 {
		return style.Render("No liked items yet.")
	}
	lines := []string{fmt.Sprintf("Liked (%d)", len(liked))}
	for i, item := range liked {
		prefix := " "
		if i == m.likesCursor {
			prefix = "▸"
		}
		lines = append(lines, fmt.Sprintf("%s %s", prefix, truncate(item.Name, m.width-8)))
	}
	if len(cache.Disliked()) > 0 {
		lines = append(lines, "", fmt.Sprintf("Disliked (%d)", len(cache.Disliked())))
		for _, item := range cache.Disliked() {
			lines = append(lines, "  "+truncate(item.Name, m.width-8))
		}
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m tuiModel) renderOrganizers() string {
	style := lipgloss.NewStyle().Padding(1, 2)
	lines := []string{}
	if len(m.app.userOrganizers) > 0 {
		lines = append(lines, "My organizers (backspace deletes)")
		for i, organizer := range m.app.userOrganizers {
			prefix := " "
			if i == m.orgCursor {
				prefix = "▸"
			}
			lines = append(lines, fmt.Sprintf("%s %s <%s>", prefix, organizer.Name, organizer.Email))
		}
		lines = append(lines, "")
	}
	lines = append(lines, "All organizers")
	if len(m.app.organizers) == 0 {
		lines = append(lines, "  none loaded")
	}
	for _, organizer := range m.app.organizers {
		lines = append(lines, "  "+truncate(organizer.Name, m.width-8))
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m tuiModel) renderRoutes() string {
	style := lipgloss.NewStyle().Padding(1, 2)
	if len(m.app.routes) == 0 {
		return style.Render("No routes loaded.")
	}
	lines := []string{fmt.Sprintf("Routes (%d)", len(m.app.routes))}
	for i, route := range m.app.routes {
		prefix := " "
		if i == m.routeCursor {
			prefix = "▸"
		}
		label := fmt.Sprintf("%s %s - %s km, %s h, %d stops", prefix, route.Name, route.DurationKm, route.DurationHours, len(route.Places))
		lines = append(lines, truncate(label, m.width-6))
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m tuiModel) renderStatusBar(width int) string {
	style := lipgloss.NewStyle().Width(width).Padding(0, 1).Foreground(lipgloss.Color("241"))
	status := m.app.status
	if m.app.session.Loading() && len(m.spinnerFrames) > 0 {
		status = m.spinnerFrames[m.spinnerIndex] + " Loading..."
	} else if status == "" {
		status = "Ready"
	}
	tip := "Press / for help"
	padding := width - len(status) - len(tip) - 2
	if padding < 1 {
		padding = 1
	}
	return style.Render(status + strings.Repeat(" ", padding) + tip)
}

func (m tuiModel) renderHelpOverlay() string {
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2).BorderForeground(lipgloss.Color("63"))
	content := []string{
		"Quick Commands",
		"",
		"tab            - switch screen",
		"j/k or arrows  - navigate",
		"l / right      - like",
		"x / left       - dislike",
		"u              - remove mark",
		"v              - swiper/catalog",
		"s              - search",
		"t              - tag feed",
		"d              - pick a day",
		"D              - apply date filter",
		"C              - clear date filter",
		"r              - refresh",
		"p              - participants",
		"o              - open link",
		"backspace      - delete organizer",
		"/ or esc       - close",
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box.Render(strings.Join(content, "\n")))
}

func (m tuiModel) renderInputOverlay() string {
	label := "Input"
	switch m.inputMode {
	case inputSearch:
		label = "Search"
	case inputTag:
		label = "Tag"
	case inputDay:
		start, end := m.app.dates.TentativeBorders()
		label = "Pick a day"
		if start != "" {
			label = fmt.Sprintf("Pick a day (selected %s - %s)", start, end)
		}
	}
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2).BorderForeground(lipgloss.Color("62"))
	content := label + "\n\n" + m.input.View()
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box.Render(content))
}

func clampIndex(idx int, length int) int {
	if length == 0 {
		return 0
	}
	if idx < 0 {
		return 0
	}
	if idx >= length {
		return length - 1
	}
	return idx
}

func wrapText(value string, width int) []string {
	if width <= 0 {
		return []string{value}
	}
	words := strings.Fields(value)
	if len(words) == 0 {
		return []string{""}
	}
	lines := []string{}
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
			continue
		}
		current += " " + word
	}
	lines = append(lines, current)
	return lines
}
