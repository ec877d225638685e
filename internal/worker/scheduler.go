package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// JobFunc периодическая задача; ошибка только логируется, следующий запуск по расписанию
type JobFunc func(ctx context.Context) error

// Scheduler планировщик фоновых задач на robfig/cron
// Запуски одной задачи не пересекаются: если предыдущий еще идет, очередной пропускается
type Scheduler struct {
	cron       *cron.Cron
	ctx        context.Context
	cancel     context.CancelFunc
	runTimeout time.Duration
	logger     Logger
}

// NewScheduler создает планировщик; runTimeout ограничивает один запуск задачи
func NewScheduler(runTimeout time.Duration, logger Logger) *Scheduler {
	cronLog := cronLogger{logger: logger}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		ctx:        ctx,
		cancel:     cancel,
		runTimeout: runTimeout,
		logger:     logger,
	}
}

// AddJob регистрирует задачу по cron-спецификации ("@every 5m", "*/5 * * * *")
func (s *Scheduler) AddJob(name, spec string, job JobFunc) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.run(name, job)
	})
	if err != nil {
		return fmt.Errorf("worker: invalid schedule %q for job %s: %w", spec, name, err)
	}
	s.logger.Info("Scheduler: job %s scheduled (%s)", name, spec)
	return nil
}

// Start запускает планировщик в фоне
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop останавливает планировщик, отменяет контекст задач и ждет их завершения (не дольше ctx)
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker: jobs did not finish before shutdown: %w", ctx.Err())
	}
}

func (s *Scheduler) run(name string, job JobFunc) {
	ctx := s.ctx
	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	start := time.Now()
	if err := job(ctx); err != nil {
		s.logger.Error("Scheduler: job %s failed after %s: %v", name, time.Since(start), err)
		return
	}
	s.logger.Info("Scheduler: job %s finished in %s", name, time.Since(start))
}

// cronLogger адаптер printf-логгера к cron.Logger
type cronLogger struct {
	logger Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	// cron пишет о каждом тике на уровне Info; в журнал попадают только сообщения о пропусках
	if strings.Contains(msg, "skip") {
		l.logger.Warn("cron: %s %v", msg, keysAndValues)
	}
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: %s: %v %v", msg, err, keysAndValues)
}
