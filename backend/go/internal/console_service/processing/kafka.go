package processing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"VectorConsole/backend/go/internal/models"
	"VectorConsole/backend/go/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// KafkaDispatcher publishes jobs to the jobs topic, keyed by document id.
type KafkaDispatcher struct {
	writer *kafka.Writer
	log    *logger.Logger
}

// NewKafkaDispatcher creates a new KafkaDispatcher.
func NewKafkaDispatcher(brokers []string, topic string, log *logger.Logger) *KafkaDispatcher {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &KafkaDispatcher{writer: writer, log: log}
}

// Dispatch sends a job message to the Kafka topic.
func (d *KafkaDispatcher) Dispatch(ctx context.Context, job Job) error {
	msg, err := encodeMessage(job.DocumentID, job)
	if err != nil {
		return err
	}
	if err := d.writer.WriteMessages(ctx, msg); err != nil {
		d.log.WithError(err).WithPayload(map[string]interface{}{"topic": d.writer.Topic}).Error("Failed to write job to Kafka")
		return err
	}
	return nil
}

// Close closes the underlying Kafka writer.
func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}

func encodeMessage(key string, value interface{}) (kafka.Message, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal message: %w", err)
	}
	return kafka.Message{Key: []byte(key), Value: data}, nil
}

// ResultConsumer reads processing results and applies them to the store.
type ResultConsumer struct {
	reader    *kafka.Reader
	completer Completer
	log       *logger.Logger
}

// NewResultConsumer creates a new ResultConsumer.
func NewResultConsumer(brokers []string, topic, groupID string, c Completer, log *logger.Logger) *ResultConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &ResultConsumer{reader: reader, completer: c, log: log}
}

// Start consumes results until ctx is cancelled.
func (c *ResultConsumer) Start(ctx context.Context) {
	go consume(ctx, c.reader, c.log, func(msg kafka.Message) error {
		return c.Handle(ctx, msg)
	})
}

// Handle applies one result message.
func (c *ResultConsumer) Handle(ctx context.Context, msg kafka.Message) error {
	var r Result
	if err := json.Unmarshal(msg.Value, &r); err != nil {
		return fmt.Errorf("invalid result message: %w", err)
	}
	return Apply(ctx, c.completer, r, c.log)
}

// Close closes the underlying Kafka reader.
func (c *ResultConsumer) Close() error {
	return c.reader.Close()
}

// Worker is a stand-in pipeline for environments without the real embedder:
// it reads jobs and publishes a completed result with the estimated vector count.
type Worker struct {
	reader *kafka.Reader
	writer *kafka.Writer
	log    *logger.Logger
}

// NewWorker creates a new Worker.
func NewWorker(brokers []string, jobsTopic, resultsTopic, groupID string, log *logger.Logger) *Worker {
	return &Worker{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			GroupID:  groupID,
			Topic:    jobsTopic,
			MinBytes: 10e3,
			MaxBytes: 10e6,
		}),
		writer: kafka.NewWriter(kafka.WriterConfig{
			Brokers:  brokers,
			Topic:    resultsTopic,
			Balancer: &kafka.LeastBytes{},
		}),
		log: log,
	}
}

// Run processes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	consume(ctx, w.reader, w.log, func(msg kafka.Message) error {
		r, err := ProcessJob(msg.Value)
		if err != nil {
			return err
		}
		out, err := encodeMessage(r.DocumentID, r)
		if err != nil {
			return err
		}
		return w.writer.WriteMessages(ctx, out)
	})
}

// ProcessJob turns a raw job message into its result.
func ProcessJob(data []byte) (Result, error) {
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return Result{}, fmt.Errorf("invalid job message: %w", err)
	}
	if job.DocumentID == "" {
		return Result{}, fmt.Errorf("invalid job message: missing documentId")
	}
	return Result{
		DocumentID:  job.DocumentID,
		Status:      models.DocumentCompleted,
		VectorCount: EstimateVectors(job.FileSize, job.ChunkSize, job.ChunkOverlap),
	}, nil
}

// Close closes the reader and writer.
func (w *Worker) Close() error {
	rerr := w.reader.Close()
	if err := w.writer.Close(); err != nil {
		return err
	}
	return rerr
}

// fetchRetryDelay is the pause after a failed fetch before trying again.
var fetchRetryDelay = time.Second

// messageReader is the part of *kafka.Reader the consume loop uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// consume is the fetch/handle/commit loop shared by the consumers. Handler
// errors are logged and the message is committed anyway. It returns when ctx
// is done or the reader has been closed.
func consume(ctx context.Context, reader messageReader, log *logger.Logger, handle func(kafka.Message) error) {
	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping Kafka consumer...")
			return
		default:
		}

		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			if errors.Is(err, io.EOF) {
				log.Info("Kafka reader closed, stopping consumer")
				return
			}
			log.WithError(err).Error("Error fetching message from Kafka")
			select {
			case <-ctx.Done():
			case <-time.After(fetchRetryDelay):
			}
			continue
		}

		if err := handle(msg); err != nil {
			log.WithError(err).WithPayload(map[string]interface{}{
				"topic":     msg.Topic,
				"partition": msg.Partition,
				"offset":    msg.Offset,
			}).Error("Error handling Kafka message")
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.WithError(err).Error("Failed to commit Kafka message")
		}
	}
}
