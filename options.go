// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package kernel

import "time"

// config holds every compile-time-in-spirit capacity from spec §6. On real
// hardware these are preprocessor constants; here they are construction-time
// options so "adjustable without touching algorithm code" (spec §6) holds
// without a recompile.
type config struct {
	maxTasks         int
	maxSemaphores    int
	maxMutexes       int
	maxQueues        int
	defaultQueueSize int
	taskNameLen      int
	tickInterval     time.Duration
	sink             Sink
	promotionEnabled bool
	platform         Platform
	tickSource       TickSource
}

func defaultConfig() *config {
	return &config{
		maxTasks:         64,
		maxSemaphores:    8,
		maxMutexes:       8,
		maxQueues:        8,
		defaultQueueSize: 8,
		taskNameLen:      32,
		tickInterval:     time.Millisecond,
		sink:             NoOpSink{},
		promotionEnabled: true,
	}
}

// Option configures a Kernel at construction time.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithMaxTasks overrides MAX_TASKS (and, per spec §6, the number of
// priority levels, which equals MAX_TASKS).
func WithMaxTasks(n int) Option {
	return optionFunc(func(c *config) { c.maxTasks = n })
}

// WithMaxSemaphores overrides MAX_SEMAPHORES.
func WithMaxSemaphores(n int) Option {
	return optionFunc(func(c *config) { c.maxSemaphores = n })
}

// WithMaxMutexes overrides MAX_MUTEXES.
func WithMaxMutexes(n int) Option {
	return optionFunc(func(c *config) { c.maxMutexes = n })
}

// WithMaxQueues overrides MAX_MQ.
func WithMaxQueues(n int) Option {
	return optionFunc(func(c *config) { c.maxQueues = n })
}

// WithDefaultQueueSize overrides the default message queue depth.
func WithDefaultQueueSize(n int) Option {
	return optionFunc(func(c *config) { c.defaultQueueSize = n })
}

// WithTaskNameLength records the task-name byte length in the kernel's
// configuration. Task names are not truncated or checked against it.
func WithTaskNameLength(n int) Option {
	return optionFunc(func(c *config) { c.taskNameLen = n })
}

// WithTickInterval overrides the systick period (default 1ms, per spec §4.9).
func WithTickInterval(d time.Duration) Option {
	return optionFunc(func(c *config) { c.tickInterval = d })
}

// WithSink registers a trace Sink. A nil sink is replaced with NoOpSink, a
// compliant null sink per spec §6.
func WithSink(sink Sink) Option {
	return optionFunc(func(c *config) {
		if sink == nil {
			sink = NoOpSink{}
		}
		c.sink = sink
	})
}

// WithPromotionDisabled disables the anti-starvation promotion mechanism
// (spec §4.9), for tests that want to observe raw priority scheduling.
func WithPromotionDisabled() Option {
	return optionFunc(func(c *config) { c.promotionEnabled = false })
}

// WithPlatform overrides the Platform backend. Production callers should
// leave this unset to get the realtime sim platform.
func WithPlatform(p Platform) Option {
	return optionFunc(func(c *config) { c.platform = p })
}

// WithTickSource overrides the TickSource. Tests use a *ManualTickSource so
// delay/timeout assertions (spec §8, P10) are exact rather than
// best-effort; production callers should leave this unset to get the
// realtime ticker.
func WithTickSource(ts TickSource) Option {
	return optionFunc(func(c *config) { c.tickSource = ts })
}

func resolveOptions(opts []Option) *config {
	c := defaultConfig()
	for _, o := range opts {
		if o == nil {
			continue
		}
		o.apply(c)
	}
	return c
}
