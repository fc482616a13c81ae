// Package worker processes background notification jobs.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/internal/notifications"
	"github.com/eventflow/backend/pkg/queue"
)

// Notifier processes email jobs: delivers the notification and records the
// outcome in the email_logs table. Delivery is a structured log line until an
// SMTP provider is wired in.
type Notifier struct {
	repo   *notifications.Repository
	queue  *queue.Queue
	logger *zap.Logger
}

// NewNotifier creates a notification job processor.
func NewNotifier(repo *notifications.Repository, q *queue.Queue, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{repo: repo, queue: q, logger: logger}
}

// Process executes one email job.
func (n *Notifier) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeEmail {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.EmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	// TODO: send via SMTP once an email provider is configured.
	n.logger.Info("notification delivered",
		zap.String("email_type", payload.EmailType),
		zap.String("recipient", payload.RecipientEmail),
		zap.String("subject", payload.Subject),
	)

	entry := &models.EmailLog{
		EventID:        payload.EventID,
		EmailType:      payload.EmailType,
		RecipientEmail: payload.RecipientEmail,
		Subject:        payload.Subject,
		Status:         models.EmailStatusSent,
	}
	if err := n.repo.Insert(ctx, entry); err != nil {
		return fmt.Errorf("record delivery: %w", err)
	}
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (n *Notifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			n.logger.Info("notification worker stopping")
			return
		default:
		}

		job, _, err := n.queue.Dequeue(ctx)
		if err != nil {
			n.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		n.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := n.Process(ctx, job); err != nil {
			n.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := n.queue.Retry(ctx, job); reErr != nil {
				n.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
			continue
		}
	}
}
