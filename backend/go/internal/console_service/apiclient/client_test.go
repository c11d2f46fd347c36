package apiclient

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"VectorConsole/backend/go/internal/config"
	"VectorConsole/backend/go/internal/console_service/api"
	"VectorConsole/backend/go/internal/console_service/foldercache"
	"VectorConsole/backend/go/internal/console_service/processing"
	"VectorConsole/backend/go/internal/console_service/service"
	"VectorConsole/backend/go/internal/console_service/store"
	"VectorConsole/backend/go/internal/console_service/uploads"
	"VectorConsole/backend/go/internal/console_service/uploads/pdftest"
	"VectorConsole/backend/go/internal/folderconfig"
	"VectorConsole/backend/go/internal/models"
	"VectorConsole/backend/go/pkg/logger"
)

const testKey = "pk-client-0123456789"

type idleTimer struct{}

func (idleTimer) Stop() bool { return true }

func newConsoleServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hash, err := bcrypt.GenerateFromPassword([]byte(testKey), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	verifier, err := api.NewKeyVerifier([]string{string(hash)}, time.Minute, 8)
	if err != nil {
		t.Fatalf("NewKeyVerifier() error = %v", err)
	}
	st := store.New()
	sim := processing.NewSimulator(st, time.Second, 0,
		processing.WithAfterFunc(func(time.Duration, func()) processing.Timer { return idleTimer{} }))
	svc := service.NewService(st, foldercache.New(st), sim, uploads.DefaultMaxSize, logger.Discard())
	ts := httptest.NewServer(api.SetupRouter(api.NewHandler(svc), verifier, logger.Discard()))
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T, baseURL, key string) *Client {
	t.Helper()
	c, err := New(config.ClientConfig{BaseURL: baseURL + "/api/v1", APIKey: key, Timeout: "5s"}, config.CircuitBreakerConfig{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestValidateAPIKey(t *testing.T) {
	ts := newConsoleServer(t)
	ctx := context.Background()

	ok, err := newClient(t, ts.URL, testKey).ValidateAPIKey(ctx)
	if err != nil || !ok {
		t.Errorf("expected valid key, got %v %v", ok, err)
	}
	ok, err = newClient(t, ts.URL, "pk-wrong-0123456789").ValidateAPIKey(ctx)
	if err != nil || ok {
		t.Errorf("expected rejected key, got %v %v", ok, err)
	}
}

func TestValidateAPIKey_ShortKeyMakesNoRequest(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer ts.Close()

	ok, err := newClient(t, ts.URL, "short").ValidateAPIKey(context.Background())
	if err != nil || ok {
		t.Errorf("expected false without error, got %v %v", ok, err)
	}
	if calls != 0 {
		t.Errorf("expected no request, got %d", calls)
	}
}

func TestClientAgainstConsoleAPI(t *testing.T) {
	ts := newConsoleServer(t)
	c := newClient(t, ts.URL, testKey)
	ctx := context.Background()

	p, err := c.CreateProject(ctx, models.CreateProjectPayload{Name: "Research"})
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}

	_, err = c.CreateFolder(ctx, p.ID, models.CreateFolderPayload{
		Name:           "Papers",
		MetadataParams: []string{"kind", "kind"},
		MetadataConfig: models.MetadataConfig{"kind": {Type: models.FieldText}},
	})
	var verr *folderconfig.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	f, err := c.CreateFolder(ctx, p.ID, models.CreateFolderPayload{
		Name:           "Papers",
		ChunkSize:      800,
		ChunkOverlap:   100,
		MetadataParams: []string{"year"},
		MetadataConfig: models.MetadataConfig{"year": {Type: models.FieldNumber, Required: true}},
	})
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}

	doc, err := c.UploadDocument(ctx, p.ID, f.ID, "paper.pdf", bytes.NewReader(pdftest.Minimal(1)), map[string]string{"year": "2024"})
	if err != nil {
		t.Fatalf("UploadDocument() error = %v", err)
	}
	if doc.Status != models.DocumentProcessing {
		t.Errorf("expected processing, got %s", doc.Status)
	}

	docs, err := c.ListDocuments(ctx, p.ID, f.ID)
	if err != nil || len(docs) != 1 {
		t.Fatalf("ListDocuments() = %v, %v", docs, err)
	}

	// 客户端可以直接作为导航缓存的数据源
	cache := foldercache.New(c)
	folders, err := cache.Refresh(ctx, p.ID)
	if err != nil || len(folders) != 1 || folders[0].DocumentCount != 1 {
		t.Fatalf("Refresh() = %v, %v", folders, err)
	}

	if err := c.DeleteDocument(ctx, p.ID, f.ID, doc.ID); err != nil {
		t.Fatalf("DeleteDocument() error = %v", err)
	}
	if err := c.DeleteDocument(ctx, p.ID, f.ID, doc.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound for repeated delete, got %v", err)
	}

	got, err := c.GetProject(ctx, p.ID)
	if err != nil || got.FolderCount != 1 || got.DocumentCount != 0 {
		t.Errorf("GetProject() = %+v, %v", got, err)
	}
}

func TestTransportErrors(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer failing.Close()

	c := newClient(t, failing.URL, testKey)
	if _, err := c.ListProjects(context.Background()); !errors.Is(err, models.ErrTransport) {
		t.Errorf("expected TransportError for 502, got %v", err)
	}

	closed := httptest.NewServer(http.NotFoundHandler())
	url := closed.URL
	closed.Close()
	c = newClient(t, url, testKey)
	if _, err := c.ListFolders(context.Background(), "p1"); !errors.Is(err, models.ErrTransport) {
		t.Errorf("expected TransportError for unreachable API, got %v", err)
	}
}

func TestDecodeErrorFallsBackToAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		w.Write([]byte(`{"error":"file exceeds the upload limit","kind":"file_too_large","field":"file"}`))
	}))
	defer ts.Close()

	_, err := newClient(t, ts.URL, testKey).UploadDocument(context.Background(), "p", "f", "big.pdf", bytes.NewReader([]byte("x")), nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != "file_too_large" || apiErr.Status != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected APIError file_too_large, got %v", err)
	}
}

func TestNewRejectsEmptyBaseURL(t *testing.T) {
	if _, err := New(config.ClientConfig{}, config.CircuitBreakerConfig{}); err == nil {
		t.Fatalf("expected error for empty base URL")
	}
}
