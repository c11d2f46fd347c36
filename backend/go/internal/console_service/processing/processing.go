package processing

import (
	"context"
	"errors"
	"fmt"

	"VectorConsole/backend/go/internal/models"
	"VectorConsole/backend/go/pkg/logger"
)

// FailureMessage is the error message recorded on documents the pipeline rejects.
const FailureMessage = "Failed to process document"

// Job asks the pipeline to chunk and embed one uploaded document.
type Job struct {
	DocumentID   string `json:"documentId"`
	ProjectID    string `json:"projectId"`
	FolderID     string `json:"folderId"`
	Name         string `json:"name"`
	FileSize     int64  `json:"fileSize"`
	ChunkSize    int    `json:"chunkSize"`
	ChunkOverlap int    `json:"chunkOverlap"`
}

// Result is the pipeline's verdict on a Job.
type Result struct {
	DocumentID   string                `json:"documentId"`
	Status       models.DocumentStatus `json:"status"`
	VectorCount  int                   `json:"vectorCount,omitempty"`
	ErrorMessage string                `json:"errorMessage,omitempty"`
}

// Dispatcher hands jobs to the processing pipeline.
type Dispatcher interface {
	Dispatch(ctx context.Context, job Job) error
	Close() error
}

// Completer applies terminal transitions. Implemented by the entity store.
type Completer interface {
	CompleteDocument(ctx context.Context, id string, vectorCount int) (*models.Document, error)
	FailDocument(ctx context.Context, id, message string) (*models.Document, error)
}

// Apply records a result on its document. A document deleted while it was
// processing yields nil: the result is dropped, nothing is recreated.
func Apply(ctx context.Context, c Completer, r Result, log *logger.Logger) error {
	var err error
	switch r.Status {
	case models.DocumentCompleted:
		_, err = c.CompleteDocument(ctx, r.DocumentID, r.VectorCount)
	case models.DocumentError:
		msg := r.ErrorMessage
		if msg == "" {
			msg = FailureMessage
		}
		_, err = c.FailDocument(ctx, r.DocumentID, msg)
	default:
		return fmt.Errorf("document %s: unexpected result status %q", r.DocumentID, r.Status)
	}

	l := log.With("document_id", r.DocumentID)
	switch {
	case err == nil:
		l.With("status", r.Status).Info("document processing finished")
		return nil
	case errors.Is(err, models.ErrNotFound):
		l.Info("document deleted before processing finished, dropping result")
		return nil
	case errors.Is(err, models.ErrInvalidStateTransition):
		l.WithError(err).Warn("duplicate processing result")
		return err
	}
	l.WithError(err).Error("failed to record processing result")
	return err
}

// EstimateVectors returns the number of chunks a document of fileSize bytes
// yields, assuming four bytes per character. Never less than 1.
func EstimateVectors(fileSize int64, chunkSize, chunkOverlap int) int {
	step := int64(chunkSize - chunkOverlap)
	if step < 1 {
		step = 1
	}
	chars := fileSize / 4
	n := (chars + step - 1) / step
	if n < 1 {
		return 1
	}
	return int(n)
}
