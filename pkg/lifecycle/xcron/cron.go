package xcron

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
)

type cronScheduler struct {
	cron   *cron.Cron
	logger Logger
	stats  *Stats

	immediateWg     sync.WaitGroup
	immediateCtx    context.Context
	immediateCancel context.CancelFunc
}

var _ Scheduler = (*cronScheduler)(nil)

// New 创建新的调度器。
//
// 不带参数时使用本地时区、分钟级精度：
//
//	scheduler := xcron.New(xcron.WithLogger(logger))
//	scheduler.AddFunc("@every 1h", task, xcron.WithName("maintenance"), xcron.WithImmediate())
//	scheduler.Start()
//	defer scheduler.Stop()
func New(opts ...SchedulerOption) Scheduler {
	options := defaultSchedulerOptions()
	for _, opt := range opts {
		opt(options)
	}

	c := cron.New(
		cron.WithLocation(options.location),
		cron.WithParser(options.parser),
	)

	immediateCtx, immediateCancel := context.WithCancel(context.Background())
	return &cronScheduler{
		cron:            c,
		logger:          options.logger,
		stats:           newStats(),
		immediateCtx:    immediateCtx,
		immediateCancel: immediateCancel,
	}
}

func (s *cronScheduler) AddFunc(spec string, cmd func(ctx context.Context) error, opts ...JobOption) (JobID, error) {
	if cmd == nil {
		return 0, ErrNilJob
	}
	return s.AddJob(spec, JobFunc(cmd), opts...)
}

func (s *cronScheduler) AddJob(spec string, job Job, opts ...JobOption) (JobID, error) {
	if job == nil {
		return 0, ErrNilJob
	}

	jobOpts := defaultJobOptions()
	for _, opt := range opts {
		opt(jobOpts)
	}

	wrapper := newJobWrapper(job, s.logger, s.stats, jobOpts)

	id, err := s.cron.AddJob(spec, wrapper)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidSpec, spec, err)
	}

	// 立即执行使用可取消的副本上下文，Stop() 时中止并等待
	if jobOpts.immediate {
		s.immediateWg.Add(1)
		go func() {
			defer s.immediateWg.Done()
			w := *wrapper
			w.baseCtx = s.immediateCtx
			w.Run()
		}()
	}

	return id, nil
}

func (s *cronScheduler) Remove(id JobID) {
	s.cron.Remove(id)
}

func (s *cronScheduler) Start() {
	s.cron.Start()
}

// Stop 会等待所有正在执行的任务完成，包括 WithImmediate 启动的立即执行任务。
func (s *cronScheduler) Stop() context.Context {
	s.immediateCancel()
	ctx := s.cron.Stop()
	s.immediateWg.Wait()
	return ctx
}

func (s *cronScheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *cronScheduler) Stats() *Stats {
	return s.stats
}
