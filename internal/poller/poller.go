// Package poller drives the pull half of the update contract: periodic
// re-fetches of active-job and system-status snapshots so the client view
// stays correct when the push channel is degraded. A tick whose previous
// fetch is still outstanding is skipped, not queued, so a slow engine never
// accumulates concurrent requests.
package poller

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// DefaultInterval is the shared tick granularity for both resources.
const DefaultInterval = 2 * time.Second

// Fetch performs one snapshot fetch and applies it. Failures are logged and
// must leave previously fetched state alone.
type Fetch func(ctx context.Context) error

type Options struct {
	Interval time.Duration
	Logger   *zerolog.Logger
}

type Poller struct {
	interval time.Duration
	logger   zerolog.Logger

	jobs   Fetch
	status Fetch
	// active gates the job fetch; system status is polled unconditionally.
	active func() bool

	jobsBusy   atomic.Bool
	statusBusy atomic.Bool
}

func New(opts Options, jobs, status Fetch, active func() bool) *Poller {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Poller{
		interval: interval,
		logger:   logger,
		jobs:     jobs,
		status:   status,
		active:   active,
	}
}

// Run ticks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	if p.jobs != nil && (p.active == nil || p.active()) {
		p.spawn(ctx, "jobs", &p.jobsBusy, p.jobs)
	}
	if p.status != nil {
		p.spawn(ctx, "status", &p.statusBusy, p.status)
	}
}

func (p *Poller) spawn(ctx context.Context, resource string, busy *atomic.Bool, fetch Fetch) {
	if !busy.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer busy.Store(false)
		if err := fetch(ctx); err != nil {
			p.logger.Warn().Err(err).Str("resource", resource).Msg("poller: fetch failed")
		}
	}()
}
