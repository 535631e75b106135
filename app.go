package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// App is the central controller: it owns the config, the local store, the
// API client and the per-concern state containers, and every UI (charm or
// plain pipe) drives it through the methods below.
type App struct {
	config  Config
	store   *Store
	client  *Client
	session *FeedSession
	cache   *ReactionCache
	dates   *DateFilter

	organizers     []Organizer
	userOrganizers []Organizer
	routes         []Route
	participants   []Participant
	suggestions    []string

	searchQuery   string
	activeTag     string
	selectedIndex int
	status        string
	firstLaunch   bool

	openURL func(string) error
}

func NewApp(cfg Config) (*App, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("base_url not configured")
	}
	if strings.TrimSpace(cfg.Username) == "" {
		return nil, errors.New("username not configured")
	}
	store, err := NewStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	app := &App{
		config:  cfg,
		store:   store,
		client:  NewClient(cfg.BaseURL, cfg.Username, timeout),
		session: NewFeedSession(),
		cache:   NewReactionCache(),
		dates:   NewDateFilter(),
		openURL: defaultOpenURL,
	}
	app.session.SetLayout(store.Layout())
	app.firstLaunch = store.FirstLaunch()
	if app.firstLaunch {
		if err := store.MarkLaunched(); err != nil {
			return nil, err
		}
	}
	app.status = "Ready"
	return app, nil
}

func (a *App) Close() error {
	return a.store.Close()
}

// LoadFeed reloads the general feed working set for the active date filter.
func (a *App) LoadFeed() error {
	generation := a.session.Begin()
	items, err := a.client.Feed(a.dates.Params())
	return a.finishFetch(generation, items, err)
}

// LoadTagged reloads the working set scoped to one tag. Picking a tag
// supersedes any active search.
func (a *App) LoadTagged(tag string) error {
	a.activeTag = tag
	a.searchQuery = ""
	generation := a.session.Begin()
	params := a.dates.Params()
	params.Tag = tag
	items, err := a.client.Contents(params)
	return a.finishFetch(generation, items, err)
}

// SearchEvents runs a full-text search. An empty query falls back to the
// unfiltered feed fetch with the active date boundaries.
func (a *App) SearchEvents(query string) error {
	query = strings.TrimSpace(query)
	a.searchQuery = query
	if query == "" {
		return a.LoadFeed()
	}
	generation := a.session.Begin()
	start, end := a.dates.Borders()
	result, err := a.client.Search(SearchParams{
		Query:    query,
		City:     a.config.City,
		DateFrom: start,
		DateTo:   end,
	})
	return a.finishFetchCount(generation, result.Contents, result.TotalCount, err)
}

// LoadOrganizerEvents reloads the working set with content owned by an
// organisation or a user.
func (a *App) LoadOrganizerEvents(publisherType string, id string) error {
	generation := a.session.Begin()
	if publisherType == "organisation" {
		numeric, err := strconv.Atoi(id)
		if err != nil {
			return a.finishFetch(generation, nil, fmt.Errorf("bad organisation id %q", id))
		}
		items, total, err := a.client.OrganizationEvents(numeric)
		return a.finishFetchCount(generation, items, total, err)
	}
	items, err := a.client.UserEvents(id)
	return a.finishFetch(generation, items, err)
}

func (a *App) finishFetch(generation int, items []ContentItem, err error) error {
	return a.finishFetchCount(generation, items, -1, err)
}

func (a *App) finishFetchCount(generation int, items []ContentItem, totalCount int, err error) error {
	if !a.session.Complete(generation, items, err) {
		return nil
	}
	if err == nil {
		if totalCount < 0 {
			totalCount = 0
		}
		a.session.SetTotalCount(totalCount)
	}
	a.selectedIndex = 0
	switch a.session.State() {
	case SessionErrored:
		a.status = "Load failed: " + a.session.ErrorMessage()
	case SessionExhausted:
		a.status = "Nothing here. Try other dates or categories"
	default:
		a.status = fmt.Sprintf("%d items loaded", a.session.Len())
	}
	return err
}

// LoadReactions refreshes both reaction lists for the active date filter.
func (a *App) LoadReactions() {
	a.cache.Refresh(a.client, a.dates.Params())
}

// React submits a reaction optimistically: the cache and the local mirror
// are updated first and rolled back if the backend rejects the submission.
func (a *App) React(action ReactionKind, item ContentItem) error {
	snapshot := a.cache.Snapshot()
	prevKind, hadPrev := a.store.Reaction(item.ID)

	a.cache.Apply(action, item)
	if err := a.store.SetReaction(item.ID, action); err != nil {
		a.cache.Restore(snapshot)
		return err
	}

	if err := a.client.SubmitReaction(action, item.ID); err != nil {
		a.cache.Restore(snapshot)
		if hadPrev {
			_ = a.store.SetReaction(item.ID, prevKind)
		} else {
			_ = a.store.SetReaction(item.ID, ReactionUnmark)
		}
		a.status = "Reaction failed: " + err.Error()
		return err
	}
	switch action {
	case ReactionLike:
		a.status = "Liked " + item.Name
	case ReactionDislike:
		a.status = "Disliked " + item.Name
	default:
		a.status = "Removed mark from " + item.Name
	}
	return nil
}

func (a *App) Like(item ContentItem) error { return a.React(ReactionLike, item) }

func (a *App) Dislike(item ContentItem) error { return a.React(ReactionDislike, item) }

func (a *App) Unmark(item ContentItem) error { return a.React(ReactionUnmark, item) }

// ToggleLayout flips swiper/catalog and persists the choice. It never
// triggers a fetch.
func (a *App) ToggleLayout() LayoutMode {
	layout := a.session.ToggleLayout()
	if err := a.store.SetLayout(layout); err != nil {
		a.status = "Layout not saved: " + err.Error()
	}
	return layout
}

func (a *App) LoadOrganizers() error {
	organizers, err := a.client.Organizers()
	if err != nil {
		a.status = "Organizers load failed: " + err.Error()
		return err
	}
	a.organizers = organizers
	return nil
}

func (a *App) LoadUserOrganizers() error {
	organizers, err := a.client.UserOrganizers()
	if err != nil {
		a.status = "Organizers load failed: " + err.Error()
		return err
	}
	a.userOrganizers = organizers
	return nil
}

// DeleteOrganizer removes an owned organizer. Only organizers present in the
// user-owned list may be deleted.
func (a *App) DeleteOrganizer(id int) error {
	owned := false
	for _, organizer := range a.userOrganizers {
		if organizer.ID == id {
			owned = true
			break
		}
	}
	if !owned {
		return errors.New("organizer not owned")
	}
	if err := a.client.DeleteOrganizer(id); err != nil {
		a.status = "Delete failed: " + err.Error()
		return err
	}
	a.status = "Organizer deleted"
	return a.LoadUserOrganizers()
}

func (a *App) LoadRoutes() error {
	routes, err := a.client.Routes()
	if err != nil {
		a.status = "Routes load failed: " + err.Error()
		return err
	}
	a.routes = routes
	return nil
}

func (a *App) LoadParticipants(contentID int) error {
	participants, err := a.client.Participants(contentID)
	if err != nil {
		a.status = "Participants load failed: " + err.Error()
		return err
	}
	a.participants = participants
	return nil
}

func (a *App) LoadSuggestions(query string) []string {
	suggestions, err := a.client.Suggestions(query)
	if err != nil {
		return nil
	}
	a.suggestions = suggestions
	return suggestions
}

func (a *App) LoadTags(category MacroCategory) ([]Tag, error) {
	tags, err := a.client.Tags(category)
	if err != nil {
		a.status = "Tags load failed: " + err.Error()
		return nil, err
	}
	return tags, nil
}

// ItemDetail fetches the full record for one item; list responses omit some
// fields.
func (a *App) ItemDetail(id int) (ContentItem, error) {
	item, err := a.client.Content(id)
	if err != nil {
		a.status = "Detail load failed: " + err.Error()
		return ContentItem{}, err
	}
	return item, nil
}

// SubmitEvent publishes a new event draft. The configured city fills in when
// the draft leaves it empty.
func (a *App) SubmitEvent(draft ContentDraft, imagePath string) error {
	if draft.City == "" {
		draft.City = a.config.City
	}
	if err := a.client.CreateContent(draft, imagePath); err != nil {
		a.status = "Event submission failed: " + err.Error()
		return err
	}
	a.status = "Event submitted: " + draft.Name
	return nil
}

func (a *App) SubmitOrganizer(draft OrganizerDraft, imagePath string) error {
	if err := a.client.CreateOrganizer(draft, imagePath); err != nil {
		a.status = "Organizer submission failed: " + err.Error()
		return err
	}
	a.status = "Organizer submitted: " + draft.Name
	return a.LoadUserOrganizers()
}

func (a *App) SelectDay(key string) { a.dates.SelectDay(key) }

// SubmitDates commits the calendar selection and reloads whatever working
// set is active for the new boundaries.
func (a *App) SubmitDates() error {
	a.dates.Submit()
	return a.reloadActive()
}

func (a *App) ClearDates() error {
	a.dates.Clear()
	return a.reloadActive()
}

func (a *App) reloadActive() error {
	if a.searchQuery != "" {
		return a.SearchEvents(a.searchQuery)
	}
	if a.activeTag != "" {
		return a.LoadTagged(a.activeTag)
	}
	return a.LoadFeed()
}

func (a *App) Selected() *ContentItem {
	visible := a.session.Visible()
	if len(visible) == 0 || a.selectedIndex < 0 || a.selectedIndex >= len(visible) {
		return nil
	}
	item := visible[a.selectedIndex]
	return &item
}

func (a *App) MoveSelection(delta int) {
	a.session.ExtendWindow(a.selectedIndex + delta)
	visible := a.session.Visible()
	if len(visible) == 0 {
		a.selectedIndex = 0
		return
	}
	idx := a.selectedIndex + delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(visible) {
		if a.session.Layout() == LayoutSwiper && idx >= a.session.Len() {
			// ran past the last card
			a.session.SetExhausted(true)
		}
		idx = len(visible) - 1
	}
	a.selectedIndex = idx
}

// ItemMark reports the locally known reaction for an item, preferring the
// server-backed cache over the sqlite mirror.
func (a *App) ItemMark(id int) (ReactionKind, bool) {
	if a.cache.IsLiked(id) {
		return ReactionLike, true
	}
	if a.cache.IsDisliked(id) {
		return ReactionDislike, true
	}
	if !a.cache.LikedLoaded() {
		return a.store.Reaction(id)
	}
	return "", false
}

func (a *App) OpenSelected() error {
	item := a.Selected()
	if item == nil {
		return nil
	}
	for _, contact := range item.Contacts {
		if strings.HasPrefix(contact.Value, "http") {
			return a.openURL(contact.Value)
		}
	}
	a.status = "No link to open"
	return nil
}
