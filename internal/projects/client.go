package projects

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/roomify/roomify-backend/internal/projects/domain"
)

const defaultTimeout = 30 * time.Second

// TokenSource supplies the bearer token attached to every store call.
type TokenSource func(ctx context.Context) (string, error)

// StoreClient talks to the remote project store API. An empty base URL
// means the store is not configured and every caller should stay inert.
type StoreClient struct {
	baseURL string
	tokens  TokenSource
	client  *http.Client
}

func NewStoreClient(baseURL string, tokens TokenSource) *StoreClient {
	return &StoreClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		tokens:  tokens,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// Configured reports whether a store base URL is set.
func (c *StoreClient) Configured() bool {
	return c != nil && c.baseURL != ""
}

type saveRequest struct {
	Project    *domain.ProjectRecord `json:"project"`
	Visibility string                `json:"visibility"`
}

type saveResponse struct {
	Saved   bool                  `json:"saved"`
	ID      string                `json:"id"`
	Project *domain.ProjectRecord `json:"project"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Save submits the record and returns the server's canonical echo of it.
func (c *StoreClient) Save(ctx context.Context, record *domain.ProjectRecord, visibility string) (*domain.ProjectRecord, error) {
	if !c.Configured() {
		return nil, domain.ErrStoreUnavailable
	}

	body, err := json.Marshal(saveRequest{Project: record, Visibility: visibility})
	if err != nil {
		return nil, fmt.Errorf("marshal save request: %w", err)
	}

	var out saveResponse
	if err := c.do(ctx, http.MethodPost, "/api/projects/save", bytes.NewReader(body), &out); err != nil {
		return nil, err
	}
	if out.Project == nil {
		return nil, fmt.Errorf("store returned no project")
	}

	return out.Project, nil
}

// Get fetches one record by id.
func (c *StoreClient) Get(ctx context.Context, id string) (*domain.ProjectRecord, error) {
	if !c.Configured() {
		return nil, domain.ErrStoreUnavailable
	}

	var out struct {
		Project *domain.ProjectRecord `json:"project"`
	}
	path := "/api/projects/get?id=" + url.QueryEscape(id)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}

	return out.Project, nil
}

// List fetches every record in the caller's store.
func (c *StoreClient) List(ctx context.Context) ([]*domain.ProjectRecord, error) {
	if !c.Configured() {
		return nil, domain.ErrStoreUnavailable
	}

	var out struct {
		Projects []*domain.ProjectRecord `json:"projects"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/projects/list", nil, &out); err != nil {
		return nil, err
	}

	return out.Projects, nil
}

func (c *StoreClient) do(ctx context.Context, method, path string, body *bytes.Reader, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		reqBody = body
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.tokens != nil {
		token, err := c.tokens(ctx)
		if err != nil {
			return fmt.Errorf("resolve token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("store request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrProjectNotFound
	}
	if resp.StatusCode >= 400 {
		var remote errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&remote)
		if remote.Error != "" {
			return fmt.Errorf("store returned status %d: %s", resp.StatusCode, remote.Error)
		}
		return fmt.Errorf("store returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode store response: %w", err)
	}

	return nil
}
