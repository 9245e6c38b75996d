package xcron

import (
	"sync"
	"sync/atomic"
	"time"
)

// counters 全局与单任务共用的计数器。
type counters struct {
	totalExecutions atomic.Int64
	successCount    atomic.Int64
	failureCount    atomic.Int64
	skipCount       atomic.Int64

	mu           sync.RWMutex
	lastExecTime time.Time
	lastDuration time.Duration
	lastError    error
}

func (c *counters) record(start time.Time, duration time.Duration, err error) {
	c.totalExecutions.Add(1)
	if err != nil {
		c.failureCount.Add(1)
	} else {
		c.successCount.Add(1)
	}
	c.mu.Lock()
	c.lastExecTime = start
	c.lastDuration = duration
	c.lastError = err
	c.mu.Unlock()
}

// TotalExecutions 返回总执行次数（不含跳过）。
func (c *counters) TotalExecutions() int64 { return c.totalExecutions.Load() }

// SuccessCount 返回成功执行次数。
func (c *counters) SuccessCount() int64 { return c.successCount.Load() }

// FailureCount 返回失败执行次数（含 panic）。
func (c *counters) FailureCount() int64 { return c.failureCount.Load() }

// SkipCount 返回因上一次执行未结束而跳过的次数。
func (c *counters) SkipCount() int64 { return c.skipCount.Load() }

// LastExecTime 返回最后一次执行的开始时间。
func (c *counters) LastExecTime() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastExecTime
}

// LastDuration 返回最后一次执行耗时。
func (c *counters) LastDuration() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastDuration
}

// LastError 返回最后一次执行错误，nil 表示成功。
func (c *counters) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// Stats 调度器执行统计，并发安全。
//
//	stats := scheduler.Stats()
//	fmt.Printf("执行: %d, 失败: %d, 跳过: %d\n",
//	    stats.TotalExecutions(), stats.FailureCount(), stats.SkipCount())
type Stats struct {
	counters

	jobs sync.Map // map[string]*JobStats
}

// JobStats 单个任务的执行统计。
type JobStats struct {
	counters

	Name string
}

func newStats() *Stats {
	return &Stats{}
}

// JobStats 返回指定任务的统计，未执行过返回 nil。
func (s *Stats) JobStats(name string) *JobStats {
	if v, ok := s.jobs.Load(name); ok {
		if js, ok := v.(*JobStats); ok {
			return js
		}
	}
	return nil
}

// Snapshot 返回当前统计的只读快照。
func (s *Stats) Snapshot() Snapshot {
	snap := Snapshot{
		Executions:   s.TotalExecutions(),
		Successes:    s.SuccessCount(),
		Failures:     s.FailureCount(),
		Skips:        s.SkipCount(),
		LastExecTime: s.LastExecTime(),
		LastDuration: s.LastDuration(),
	}
	if err := s.LastError(); err != nil {
		snap.LastError = err.Error()
	}
	return snap
}

// Snapshot 统计快照，可直接序列化。
type Snapshot struct {
	Executions   int64         `json:"executions"`
	Successes    int64         `json:"successes"`
	Failures     int64         `json:"failures"`
	Skips        int64         `json:"skips"`
	LastExecTime time.Time     `json:"last_exec_time"`
	LastDuration time.Duration `json:"last_duration"`
	LastError    string        `json:"last_error,omitempty"`
}

func (s *Stats) jobStats(name string) *JobStats {
	if name == "" {
		return nil
	}
	v, _ := s.jobs.LoadOrStore(name, &JobStats{Name: name})
	js, _ := v.(*JobStats)
	return js
}

func (s *Stats) recordExecution(name string, start time.Time, duration time.Duration, err error) {
	if s == nil {
		return
	}
	s.record(start, duration, err)
	if js := s.jobStats(name); js != nil {
		js.record(start, duration, err)
	}
}

func (s *Stats) recordSkip(name string) {
	if s == nil {
		return
	}
	s.skipCount.Add(1)
	if js := s.jobStats(name); js != nil {
		js.skipCount.Add(1)
	}
}
