package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"portfolio_backend/internal/domain/model"
	"portfolio_backend/internal/platform/config"
	"portfolio_backend/internal/platform/mail"

	"github.com/redis/go-redis/v9"
)

// MailWorker drains the reset-mail queue in the background. Delivery
// failures are logged and the job dropped; the reset request already
// answered the client.
type MailWorker struct {
	rdb    *redis.Client
	mailer mail.Mailer
	logger *slog.Logger
}

func NewMailWorker(rdb *redis.Client, mailer mail.Mailer, logger *slog.Logger) *MailWorker {
	return &MailWorker{rdb: rdb, mailer: mailer, logger: logger}
}

func (w *MailWorker) Start(ctx context.Context) {
	w.logger.Info("mail worker started", slog.String("queue", config.AppConfig.MailQueueName))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("mail worker stopping")
			return
		default:
			// Blocking pop from Redis queue
			res, err := w.rdb.BRPop(ctx, 0*time.Second, config.AppConfig.MailQueueName).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					continue
				}
				w.logger.Error("mail worker: BRPop failed", slog.Any("error", err))
				time.Sleep(5 * time.Second) // Wait before retrying on other errors
				continue
			}

			// res is an array: [queueName, value]
			if len(res) < 2 || res[1] == "" {
				w.logger.Warn("mail worker: BRPop returned empty payload")
				continue
			}
			w.process(ctx, res[1])
		}
	}
}

func (w *MailWorker) process(ctx context.Context, payload string) {
	var job model.ResetMailJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		w.logger.Error("mail worker: malformed job payload", slog.Any("error", err))
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := w.mailer.SendResetEmail(sendCtx, job.Email, job.Link); err != nil {
		w.logger.Error("mail worker: send failed", slog.Any("error", err))
		return
	}
	w.logger.Info("reset email sent")
}
