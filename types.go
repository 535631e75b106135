package main

import (
	"encoding/json"
	"fmt"
)

type MacroCategory string

const (
	CategoryEvents     MacroCategory = "events"
	CategoryPlaces     MacroCategory = "places"
	CategoryOrganizers MacroCategory = "organizers"
	CategoryTrips      MacroCategory = "trips"
)

type EventType string

const (
	EventOnline  EventType = "online"
	EventOffline EventType = "offline"
)

type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
	ReactionUnmark  ReactionKind = "delete_mark"
)

type ContentItem struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Image         string        `json:"image,omitempty"`
	Contacts      []Contact     `json:"contact,omitempty"`
	DateStart     string        `json:"date_start,omitempty"`
	DateEnd       string        `json:"date_end,omitempty"`
	Time          string        `json:"time,omitempty"`
	Cost          string        `json:"cost,omitempty"`
	Location      string        `json:"location,omitempty"`
	Tags          []Tag         `json:"tags,omitempty"`
	MacroCategory MacroCategory `json:"macro_category,omitempty"`
	EventType     EventType     `json:"event_type,omitempty"`
	PublisherType string        `json:"publisher_type,omitempty"`
	PublisherID   int           `json:"publisher_id,omitempty"`
}

func (c ContentItem) Free() bool {
	return c.Cost == "" || c.Cost == "0"
}

// Contact is a single labeled link. The backend encodes each contact as a
// one-pair JSON object, e.g. {"telegram": "https://t.me/..."}.
type Contact struct {
	Label string
	Value string
}

func (c Contact) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{c.Label: c.Value})
}

func (c *Contact) UnmarshalJSON(data []byte) error {
	pair := map[string]string{}
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 1 {
		return fmt.Errorf("contact: expected one pair, got %d", len(pair))
	}
	for label, value := range pair {
		c.Label = label
		c.Value = value
	}
	return nil
}

type Tag struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Organizer struct {
	ID      int           `json:"id"`
	Name    string        `json:"name"`
	Phone   string        `json:"phone"`
	Email   string        `json:"email"`
	Image   string        `json:"image"`
	Created string        `json:"created"`
	Updated string        `json:"updated"`
	User    OrganizerUser `json:"user"`
}

type OrganizerUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	City     string `json:"city"`
}

type Route struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	DurationKm    string        `json:"duration_km"`
	DurationHours string        `json:"duration_hours"`
	MapLink       string        `json:"map_link"`
	City          string        `json:"city"`
	Created       string        `json:"created"`
	Updated       string        `json:"updated"`
	Places        []ContentItem `json:"places"`
	Tags          []Tag         `json:"tags"`
	Photos        []RoutePhoto  `json:"photos"`
}

type RoutePhoto struct {
	ID          int    `json:"id"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

type Participant struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	City     string `json:"city"`
}
