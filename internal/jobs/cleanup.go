package jobs

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"contactdesk/internal/repository"
)

// StartCodeCleanup agenda la purga periódica de códigos vencidos o ya
// consumidos. La verificación no depende de la purga; solo acota el
// crecimiento de la tabla.
func StartCodeCleanup(logger *zap.Logger, codes repository.LoginCodeRepository) *gocron.Scheduler {
	scheduler := gocron.NewScheduler(time.UTC)

	scheduler.Every(30).Minutes().Tag("login code purge").Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		deleted, err := codes.DeleteDead(ctx, time.Now().UTC())
		if err != nil {
			logger.Warn("login code purge failed", zap.Error(err))
			return
		}
		if deleted > 0 {
			logger.Info("purged login codes", zap.Int64("deleted", deleted))
		}
	})

	scheduler.StartAsync()
	return scheduler
}
