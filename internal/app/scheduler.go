package app

import (
	"context"

	"github.com/orgrec/appointment_scheduler/internal/service"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// systemActor marks slots created by the background job rather than a user.
const systemActor int64 = 0

// GenerationJob keeps a rolling slot horizon for every active template,
// regenerated on a cron schedule.
type GenerationJob struct {
	scheduler  *service.SchedulerService
	spec       string
	weeksAhead int
	logger     *zap.Logger
	cron       *cron.Cron
}

func NewGenerationJob(scheduler *service.SchedulerService, spec string, weeksAhead int, logger *zap.Logger) *GenerationJob {
	return &GenerationJob{
		scheduler:  scheduler,
		spec:       spec,
		weeksAhead: weeksAhead,
		logger:     logger,
		cron:       cron.New(),
	}
}

// Start runs one generation immediately, then on every cron tick.
func (j *GenerationJob) Start(ctx context.Context) error {
	j.logger.Info("Starting slot generation job",
		zap.String("cron", j.spec),
		zap.Int("weeks_ahead", j.weeksAhead))

	j.run(ctx)

	if _, err := j.cron.AddFunc(j.spec, func() { j.run(context.Background()) }); err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running generation to finish.
func (j *GenerationJob) Stop() {
	j.logger.Info("Stopping slot generation job")
	<-j.cron.Stop().Done()
}

func (j *GenerationJob) run(ctx context.Context) {
	accepted, skipped, err := j.scheduler.GenerateForAllActive(ctx, j.weeksAhead, systemActor)
	if err != nil {
		j.logger.Error("Slot horizon generation failed", zap.Error(err))
		return
	}

	j.logger.Info("Slot horizon generated",
		zap.Int("accepted", accepted),
		zap.Int("skipped", skipped))
}
