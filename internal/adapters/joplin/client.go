package joplin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/awcjack/joplin-expenses-sub001/internal/domain"
	"github.com/awcjack/joplin-expenses-sub001/internal/ports"
)

const nodeFields = "id,title,parent_id"

// Options configures a Client.
type Options struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	PageLimit  int
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Logger     zerolog.Logger
}

// Client talks to the Joplin Data API. List calls walk every page
// before returning, so callers always see a complete listing. Requests
// that fail with a network error, a 429, or a 5xx status are retried
// with exponential backoff; other statuses fail immediately and a
// request that succeeded is never repeated.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	pageLimit  int
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	log        zerolog.Logger
}

var _ ports.NoteStore = (*Client)(nil)

// NewClient returns a client for the given Joplin clipper server.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "http://localhost:41184"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	pageLimit := opts.PageLimit
	if pageLimit <= 0 {
		pageLimit = 100
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	baseDelay := opts.BaseDelay
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}
	maxDelay := opts.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 2 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		token:      opts.Token,
		httpClient: httpClient,
		pageLimit:  pageLimit,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		maxDelay:   maxDelay,
		log:        opts.Logger,
	}
}

type apiFolder struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ParentID string `json:"parent_id"`
}

type apiNote struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ParentID string `json:"parent_id"`
	Body     string `json:"body"`
}

type folderPage struct {
	Items   []apiFolder `json:"items"`
	HasMore bool        `json:"has_more"`
}

type notePage struct {
	Items   []apiNote `json:"items"`
	HasMore bool      `json:"has_more"`
}

// ListChildFolders returns the folders under parentID. The API only
// exposes a flat folder listing, so every page is fetched and filtered
// locally.
func (c *Client) ListChildFolders(ctx context.Context, parentID string) ([]domain.Folder, error) {
	var folders []domain.Folder
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("fields", nodeFields)
		query.Set("limit", strconv.Itoa(c.pageLimit))
		query.Set("page", strconv.Itoa(page))

		var result folderPage
		if err := c.do(ctx, http.MethodGet, "/folders", query, nil, &result); err != nil {
			return nil, fmt.Errorf("list folders page %d: %w", page, err)
		}
		for _, item := range result.Items {
			if item.ParentID != parentID {
				continue
			}
			folders = append(folders, domain.Folder{ID: item.ID, Title: item.Title, ParentID: item.ParentID})
		}
		if !result.HasMore {
			return folders, nil
		}
	}
}

// ListChildNotes returns the notes under parentID without bodies.
func (c *Client) ListChildNotes(ctx context.Context, parentID string) ([]domain.Note, error) {
	var notes []domain.Note
	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("fields", nodeFields)
		query.Set("limit", strconv.Itoa(c.pageLimit))
		query.Set("page", strconv.Itoa(page))

		var result notePage
		path := "/folders/" + url.PathEscape(parentID) + "/notes"
		if err := c.do(ctx, http.MethodGet, path, query, nil, &result); err != nil {
			return nil, fmt.Errorf("list notes of folder %s page %d: %w", parentID, page, err)
		}
		for _, item := range result.Items {
			notes = append(notes, domain.Note{ID: item.ID, Title: item.Title, ParentID: item.ParentID})
		}
		if !result.HasMore {
			return notes, nil
		}
	}
}

// GetNote returns one note including its body.
func (c *Client) GetNote(ctx context.Context, id string) (domain.Note, error) {
	query := url.Values{}
	query.Set("fields", nodeFields+",body")

	var note apiNote
	if err := c.do(ctx, http.MethodGet, "/notes/"+url.PathEscape(id), query, nil, &note); err != nil {
		return domain.Note{}, fmt.Errorf("get note %s: %w", id, err)
	}
	return domain.Note{ID: note.ID, Title: note.Title, ParentID: note.ParentID, Body: note.Body}, nil
}

// CreateFolder creates a folder under parentID. An empty parentID
// creates a top-level folder.
func (c *Client) CreateFolder(ctx context.Context, parentID, title string) (domain.Folder, error) {
	payload := map[string]string{"title": title, "parent_id": parentID}
	var folder apiFolder
	if err := c.do(ctx, http.MethodPost, "/folders", nil, payload, &folder); err != nil {
		return domain.Folder{}, fmt.Errorf("create folder %q: %w", title, err)
	}
	c.log.Debug().Str("folder_id", folder.ID).Str("title", title).Msg("folder created")
	return domain.Folder{ID: folder.ID, Title: folder.Title, ParentID: folder.ParentID}, nil
}

// CreateNote creates a note with the given body under parentID.
func (c *Client) CreateNote(ctx context.Context, parentID, title, body string) (domain.Note, error) {
	payload := map[string]string{"title": title, "parent_id": parentID, "body": body}
	var note apiNote
	if err := c.do(ctx, http.MethodPost, "/notes", nil, payload, &note); err != nil {
		return domain.Note{}, fmt.Errorf("create note %q: %w", title, err)
	}
	c.log.Debug().Str("note_id", note.ID).Str("title", title).Msg("note created")
	return domain.Note{ID: note.ID, Title: note.Title, ParentID: note.ParentID, Body: body}, nil
}

// UpdateNoteBody replaces the body of an existing note.
func (c *Client) UpdateNoteBody(ctx context.Context, id, body string) error {
	payload := map[string]string{"body": body}
	if err := c.do(ctx, http.MethodPut, "/notes/"+url.PathEscape(id), nil, payload, nil); err != nil {
		return fmt.Errorf("update note %s: %w", id, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("token", c.token)
	fullURL := c.baseURL + path + "?" + query.Encode()

	var bodyBytes []byte
	if payload != nil {
		var err error
		bodyBytes, err = json.Marshal(payload)
		if err != nil {
			return err
		}
	}

	for attempt := 0; ; attempt++ {
		var reader io.Reader
		if bodyBytes != nil {
			reader = bytes.NewReader(bodyBytes)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
		if err != nil {
			return err
		}
		if bodyBytes != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if attempt < c.maxRetries {
				if waitErr := sleepContext(ctx, c.retryDelay(attempt+1, "")); waitErr != nil {
					return waitErr
				}
				continue
			}
			return err
		}

		respBody, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return readErr
		}

		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			if out == nil {
				return nil
			}
			return json.Unmarshal(respBody, out)
		}

		if (resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500) && attempt < c.maxRetries {
			if waitErr := sleepContext(ctx, c.retryDelay(attempt+1, resp.Header.Get("Retry-After"))); waitErr != nil {
				return waitErr
			}
			continue
		}

		message := strings.TrimSpace(string(respBody))
		var parsed struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &parsed) == nil && strings.TrimSpace(parsed.Error) != "" {
			message = strings.TrimSpace(parsed.Error)
		}
		return fmt.Errorf("joplin request failed: status=%d message=%s", resp.StatusCode, message)
	}
}

func (c *Client) retryDelay(attempt int, retryAfterHeader string) time.Duration {
	if retryAfter := parseRetryAfterSeconds(retryAfterHeader); retryAfter > 0 {
		if retryAfter > c.maxDelay {
			return c.maxDelay
		}
		return retryAfter
	}
	delay := c.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= c.maxDelay {
			return c.maxDelay
		}
	}
	if delay > c.maxDelay {
		return c.maxDelay
	}
	return delay
}

func parseRetryAfterSeconds(header string) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
