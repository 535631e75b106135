package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrorKind separates failures that never reached the backend from
// structured non-2xx responses, so callers can treat them differently.
type ErrorKind string

const (
	ErrTransport  ErrorKind = "transport"
	ErrStructured ErrorKind = "api"
)

type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Kind == ErrTransport {
		return "request failed: " + e.Message
	}
	return fmt.Sprintf("api error (http %d): %s", e.StatusCode, e.Message)
}

func transportError(err error) *APIError {
	return &APIError{Kind: ErrTransport, Message: err.Error()}
}

type Client struct {
	baseURL  string
	username string
	client   *http.Client
}

var apiJSONMarshal = json.Marshal

func NewClient(baseURL string, username string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:  baseURL,
		username: strings.TrimSpace(username),
		client:   &http.Client{Timeout: timeout},
	}
}

type ContentParams struct {
	Tag       string
	DateStart string
	DateEnd   string
}

func (p ContentParams) values(username string) url.Values {
	params := url.Values{}
	params.Set("username", username)
	if p.Tag != "" {
		params.Set("tag", p.Tag)
	}
	if p.DateStart != "" {
		params.Set("date_start", p.DateStart)
	}
	if p.DateEnd != "" {
		params.Set("date_end", p.DateEnd)
	}
	return params
}

type SearchParams struct {
	Query     string
	City      string
	EventType EventType
	DateFrom  string
	DateTo    string
	Tags      []int
	Skip      int
	Limit     int
}

type SearchResult struct {
	Contents   []ContentItem `json:"contents"`
	TotalCount int           `json:"total_count"`
	Skip       int           `json:"skip"`
	Limit      int           `json:"limit"`
	HasMore    bool          `json:"has_more"`
}

func (c *Client) Contents(params ContentParams) ([]ContentItem, error) {
	var items []ContentItem
	if err := c.getJSON("/contents", params.values(c.username), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) Feed(params ContentParams) ([]ContentItem, error) {
	var items []ContentItem
	if err := c.getJSON("/contents_feed", params.values(c.username), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) Content(id int) (ContentItem, error) {
	var item ContentItem
	if err := c.getJSON("/contents/"+strconv.Itoa(id), nil, &item); err != nil {
		return ContentItem{}, err
	}
	return item, nil
}

func (c *Client) Search(params SearchParams) (SearchResult, error) {
	query := url.Values{}
	query.Set("username", c.username)
	if params.Query != "" {
		query.Set("q", params.Query)
	}
	if params.City != "" {
		query.Set("city", params.City)
	}
	if params.EventType != "" {
		query.Set("event_type", string(params.EventType))
	}
	if params.DateFrom != "" {
		query.Set("date_from", params.DateFrom)
	}
	if params.DateTo != "" {
		query.Set("date_to", params.DateTo)
	}
	for _, tag := range params.Tags {
		query.Add("tags", strconv.Itoa(tag))
	}
	if params.Skip > 0 {
		query.Set("skip", strconv.Itoa(params.Skip))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	var result SearchResult
	if err := c.getJSON("/search", query, &result); err != nil {
		return SearchResult{}, err
	}
	return result, nil
}

func (c *Client) Suggestions(query string) ([]string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("username", c.username)
	var parsed struct {
		Suggestions []string `json:"suggestions"`
		Query       string   `json:"query"`
	}
	if err := c.getJSON("/search/suggestions", params, &parsed); err != nil {
		return nil, err
	}
	return parsed.Suggestions, nil
}

func (c *Client) Tags(category MacroCategory) ([]Tag, error) {
	params := url.Values{}
	params.Set("username", c.username)
	params.Set("macro_category", string(category))
	var tags []Tag
	if err := c.getJSON("/tags", params, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (c *Client) Organizers() ([]Organizer, error) {
	var parsed struct {
		Organisations []Organizer `json:"organisations"`
		TotalCount    int         `json:"total_count"`
	}
	if err := c.getJSON("/organisations", nil, &parsed); err != nil {
		return nil, err
	}
	return parsed.Organisations, nil
}

func (c *Client) UserOrganizers() ([]Organizer, error) {
	var parsed struct {
		Organisations []Organizer `json:"organisations"`
		TotalCount    int         `json:"total_count"`
	}
	path := "/users/" + url.PathEscape(c.username) + "/organisations"
	if err := c.getJSON(path, nil, &parsed); err != nil {
		return nil, err
	}
	return parsed.Organisations, nil
}

func (c *Client) DeleteOrganizer(id int) error {
	params := url.Values{}
	params.Set("username", c.username)
	endpoint := c.baseURL + "/organisations/" + strconv.Itoa(id) + "?" + params.Encode()
	req, err := http.NewRequest(http.MethodDelete, endpoint, nil)
	if err != nil {
		return transportError(err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return structuredError(resp)
	}
	return nil
}

type organizerContents struct {
	Contents   []ContentItem `json:"contents"`
	TotalCount int           `json:"total_count"`
}

func (c *Client) OrganizationEvents(id int) ([]ContentItem, int, error) {
	var parsed organizerContents
	path := "/organisations/" + strconv.Itoa(id) + "/contents"
	if err := c.getJSON(path, nil, &parsed); err != nil {
		return nil, 0, err
	}
	return parsed.Contents, parsed.TotalCount, nil
}

func (c *Client) UserEvents(username string) ([]ContentItem, error) {
	var items []ContentItem
	path := "/users/" + url.PathEscape(username) + "/contents"
	if err := c.getJSON(path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) Participants(contentID int) ([]Participant, error) {
	var parsed struct {
		Participants []Participant `json:"participants"`
		TotalCount   int           `json:"total_count"`
	}
	path := "/content/" + strconv.Itoa(contentID) + "/likes/social"
	if err := c.getJSON(path, nil, &parsed); err != nil {
		return nil, err
	}
	return parsed.Participants, nil
}

func (c *Client) Routes() ([]Route, error) {
	var parsed struct {
		Routes     []Route `json:"routes"`
		TotalCount int     `json:"total_count"`
	}
	if err := c.getJSON("/routes", nil, &parsed); err != nil {
		return nil, err
	}
	return parsed.Routes, nil
}

// Reactions fetches the liked (disliked=false) or disliked (disliked=true)
// content list for the current user, optionally bounded by the date filter.
func (c *Client) Reactions(filter ContentParams, disliked bool) ([]ContentItem, error) {
	params := filter.values(c.username)
	if disliked {
		params.Set("value", "false")
	}
	var items []ContentItem
	if err := c.getJSON("/likes", params, &items); err != nil {
		return nil, err
	}
	return items, nil
}

type actionPayload struct {
	Action    ReactionKind `json:"action"`
	ContentID int          `json:"content_id"`
	Username  string       `json:"username"`
}

func (c *Client) SubmitReaction(action ReactionKind, contentID int) error {
	blob, err := apiJSONMarshal(actionPayload{Action: action, ContentID: contentID, Username: c.username})
	if err != nil {
		return transportError(err)
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/users_actions", bytes.NewReader(blob))
	if err != nil {
		return transportError(err)
	}
	req.Header.Set("content-type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return structuredError(resp)
	}
	return nil
}

type ContentDraft struct {
	Name        string
	Description string
	DateStart   string
	DateEnd     string
	Time        string
	Cost        string
	Location    string
	City        string
	EventType   EventType
	Tags        []int
}

func (c *Client) CreateContent(draft ContentDraft, imagePath string) error {
	fields := map[string]string{
		"name":        draft.Name,
		"description": draft.Description,
		"date_start":  draft.DateStart,
		"date_end":    draft.DateEnd,
		"time":        draft.Time,
		"cost":        draft.Cost,
		"location":    draft.Location,
		"city":        draft.City,
		"event_type":  string(draft.EventType),
	}
	for _, tag := range draft.Tags {
		fields["tags"] += sep(fields["tags"]) + strconv.Itoa(tag)
	}
	params := url.Values{}
	params.Set("username", c.username)
	return c.postMultipart("/contents?"+params.Encode(), fields, imagePath)
}

type OrganizerDraft struct {
	Name  string
	Phone string
	Email string
}

func (c *Client) CreateOrganizer(draft OrganizerDraft, imagePath string) error {
	fields := map[string]string{
		"name":     draft.Name,
		"phone":    draft.Phone,
		"email":    draft.Email,
		"username": c.username,
	}
	return c.postMultipart("/organisations", fields, imagePath)
}

func sep(current string) string {
	if current == "" {
		return ""
	}
	return ","
}

func (c *Client) postMultipart(path string, fields map[string]string, imagePath string) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(key, value); err != nil {
			return transportError(err)
		}
	}
	if imagePath != "" {
		file, err := os.Open(imagePath)
		if err != nil {
			return transportError(err)
		}
		defer file.Close()
		part, err := writer.CreateFormFile("image", filepath.Base(imagePath))
		if err != nil {
			return transportError(err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return transportError(err)
		}
	}
	if err := writer.Close(); err != nil {
		return transportError(err)
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return transportError(err)
	}
	req.Header.Set("content-type", writer.FormDataContentType())
	resp, err := c.client.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return structuredError(resp)
	}
	return nil
}

func (c *Client) getJSON(path string, params url.Values, out any) error {
	if c == nil {
		return transportError(errors.New("client not configured"))
	}
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	resp, err := c.client.Get(endpoint)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return structuredError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return transportError(err)
	}
	return nil
}

func structuredError(resp *http.Response) *APIError {
	apiErr := &APIError{Kind: ErrStructured, StatusCode: resp.StatusCode, Message: "request failed"}
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err == nil && parsed.Message != "" {
		apiErr.Message = parsed.Message
	}
	return apiErr
}
