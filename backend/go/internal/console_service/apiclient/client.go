// Package apiclient talks to the console REST API. Every failure to reach the
// API, including 5xx answers and an open circuit, is returned as *models.TransportError.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"VectorConsole/backend/go/internal/config"
	"VectorConsole/backend/go/internal/folderconfig"
	"VectorConsole/backend/go/internal/models"
	httpclient "VectorConsole/backend/go/pkg/http"
)

// ErrUnauthorized is returned when the API rejects the configured key.
var ErrUnauthorized = errors.New("API key rejected")

// APIError is a 4xx answer that maps to no domain error.
type APIError struct {
	Status  int
	Kind    string
	Field   string
	Message string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%d %s)", e.Field, e.Message, e.Status, e.Kind)
	}
	return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Kind)
}

// Client is a typed wrapper around the console API.
type Client struct {
	baseURL string
	apiKey  string
	http    *httpclient.Client
}

// New creates a client for cfg.BaseURL authenticating with cfg.APIKey.
func New(cfg config.ClientConfig, breaker config.CircuitBreakerConfig, opts ...httpclient.ClientOption) (*Client, error) {
	if _, err := url.Parse(cfg.BaseURL); err != nil || cfg.BaseURL == "" {
		return nil, fmt.Errorf("invalid API base URL %q", cfg.BaseURL)
	}
	opts = append([]httpclient.ClientOption{httpclient.WithTimeout(config.Duration(cfg.Timeout, 30*time.Second))}, opts...)
	hc, err := httpclient.NewClient(breaker, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    hc,
	}, nil
}

// ValidateAPIKey reports whether the configured key is accepted. A key that
// fails the local shape check is rejected without a request.
func (c *Client) ValidateAPIKey(ctx context.Context) (bool, error) {
	if folderconfig.ValidateAPIKey(c.apiKey) != nil {
		return false, nil
	}
	err := c.do(ctx, http.MethodGet, "/auth/validate", nil, "", nil)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrUnauthorized):
		return false, nil
	default:
		return false, err
	}
}

// --- Projects ---

func (c *Client) ListProjects(ctx context.Context) ([]*models.Project, error) {
	var out []*models.Project
	if err := c.getJSON(ctx, "/projects", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var out models.Project
	if err := c.getJSON(ctx, "/projects/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProject(ctx context.Context, payload models.CreateProjectPayload) (*models.Project, error) {
	var out models.Project
	if err := c.sendJSON(ctx, http.MethodPost, "/projects", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+url.PathEscape(id), nil, "", nil)
}

// --- Folders ---

func foldersPath(projectID string) string {
	return "/projects/" + url.PathEscape(projectID) + "/folders"
}

// ListFolders also makes the client usable as a foldercache.Source.
func (c *Client) ListFolders(ctx context.Context, projectID string) ([]*models.Folder, error) {
	var out []*models.Folder
	if err := c.getJSON(ctx, foldersPath(projectID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetFolder(ctx context.Context, projectID, id string) (*models.Folder, error) {
	var out models.Folder
	if err := c.getJSON(ctx, foldersPath(projectID)+"/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateFolder(ctx context.Context, projectID string, payload models.CreateFolderPayload) (*models.Folder, error) {
	var out models.Folder
	if err := c.sendJSON(ctx, http.MethodPost, foldersPath(projectID), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateFolder(ctx context.Context, projectID, id string, payload models.UpdateFolderPayload) (*models.Folder, error) {
	var out models.Folder
	if err := c.sendJSON(ctx, http.MethodPut, foldersPath(projectID)+"/"+url.PathEscape(id), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteFolder(ctx context.Context, projectID, id string) error {
	return c.do(ctx, http.MethodDelete, foldersPath(projectID)+"/"+url.PathEscape(id), nil, "", nil)
}

// --- Documents ---

func documentsPath(projectID, folderID string) string {
	return foldersPath(projectID) + "/" + url.PathEscape(folderID) + "/documents"
}

func (c *Client) ListDocuments(ctx context.Context, projectID, folderID string) ([]*models.Document, error) {
	var out []*models.Document
	if err := c.getJSON(ctx, documentsPath(projectID, folderID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetDocument(ctx context.Context, projectID, folderID, id string) (*models.Document, error) {
	var out models.Document
	if err := c.getJSON(ctx, documentsPath(projectID, folderID)+"/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadDocument sends content as the multipart "file" field. The returned
// document is in processing state.
func (c *Client) UploadDocument(ctx context.Context, projectID, folderID, name string, content io.Reader, metadata map[string]string) (*models.Document, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, content); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return nil, err
		}
		if err := mw.WriteField("metadata", string(raw)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out models.Document
	if err := c.do(ctx, http.MethodPost, documentsPath(projectID, folderID), &body, mw.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteDocument(ctx context.Context, projectID, folderID, id string) error {
	return c.do(ctx, http.MethodDelete, documentsPath(projectID, folderID)+"/"+url.PathEscape(id), nil, "", nil)
}

// --- Navigation ---

func (c *Client) Navigation(ctx context.Context) (map[string][]*models.Folder, error) {
	out := map[string][]*models.Folder{}
	if err := c.getJSON(ctx, "/navigation", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RefreshNavigation(ctx context.Context, projectID string) ([]*models.Folder, error) {
	var out []*models.Folder
	if err := c.do(ctx, http.MethodPost, "/navigation/"+url.PathEscape(projectID)+"/refresh", nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- plumbing ---

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out interface{}) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, bytes.NewReader(raw), "application/json", out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	op := method + " " + path
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &models.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &models.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Field string `json:"field"`
}

var validationKinds = map[string]folderconfig.ErrorKind{
	string(folderconfig.OutOfRange):      folderconfig.OutOfRange,
	string(folderconfig.EmptyOptions):    folderconfig.EmptyOptions,
	string(folderconfig.DuplicateKey):    folderconfig.DuplicateKey,
	string(folderconfig.EmptyKey):        folderconfig.EmptyKey,
	string(folderconfig.InvalidType):     folderconfig.InvalidType,
	string(folderconfig.InvalidName):     folderconfig.InvalidName,
	string(folderconfig.InvalidMetadata): folderconfig.InvalidMetadata,
	string(folderconfig.SchemaMismatch):  folderconfig.SchemaMismatch,
}

// decodeError maps a 4xx answer back onto the domain errors the server started from.
func decodeError(resp *http.Response) error {
	var eb errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &eb); err != nil || eb.Error == "" {
		eb.Error = strings.TrimSpace(string(raw))
		if eb.Error == "" {
			eb.Error = http.StatusText(resp.StatusCode)
		}
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, eb.Error)
	case http.StatusNotFound:
		return models.NotFoundf("%s", eb.Error)
	case http.StatusConflict:
		return fmt.Errorf("%s: %w", eb.Error, models.ErrInvalidStateTransition)
	case http.StatusTooManyRequests:
		return &models.TransportError{Op: resp.Request.Method + " " + resp.Request.URL.Path, Err: errors.New(eb.Error)}
	}
	if kind, ok := validationKinds[eb.Kind]; ok {
		return &folderconfig.ValidationError{Kind: kind, Field: eb.Field, Message: eb.Error}
	}
	return &APIError{Status: resp.StatusCode, Kind: eb.Kind, Field: eb.Field, Message: eb.Error}
}
