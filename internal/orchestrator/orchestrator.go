// Package orchestrator is the single writer for all client-side generation
// state. The push channel and the poll loop both deliver updates here; jobs,
// results, system status and notifications are only ever mutated under the
// orchestrator's apply lock, so no two updates interleave and readers always
// see a coherent snapshot.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"studio/internal/domain"
	"studio/internal/engine"
	"studio/internal/poller"
	"studio/internal/progress"
	"studio/internal/registry"
	"studio/internal/transport"
)

var (
	// ErrBlankPrompt rejects a submission whose trimmed prompt is empty.
	ErrBlankPrompt = errors.New("orchestrator: prompt must not be blank")
	// ErrNotCancellable rejects a cancel for a job that is unknown or
	// already terminal. No engine call is made in that case.
	ErrNotCancellable = errors.New("orchestrator: job is not cancellable")
)

type Options struct {
	Engine         *engine.Client
	Logger         *zerolog.Logger
	HistoryLimit   int
	PollInterval   time.Duration
	ReconnectDelay time.Duration
	// ParamsPath locates the last-used parameter file. Empty disables
	// parameter persistence.
	ParamsPath string
}

// StatusView is the combined telemetry projection served to the UI.
type StatusView struct {
	System    domain.SystemStatus   `json:"system"`
	Transport domain.TransportState `json:"transport"`
}

type Orchestrator struct {
	engine  *engine.Client
	logger  zerolog.Logger
	jobs    *registry.JobRegistry
	history *registry.ResultHistory
	status  *statusAggregator
	notes   *notificationLog
	store   *paramStore
	channel *transport.Channel
	poller  *poller.Poller

	historyLimit int

	// applyMu serializes every state mutation, whichever channel or command
	// produced it. This is what keeps merge/removal commutative under
	// arbitrary interleaving of the two update channels.
	applyMu sync.Mutex

	paramsMu   sync.RWMutex
	lastParams *domain.GenerationParams

	now func() time.Time
}

func New(opts Options) (*Orchestrator, error) {
	if opts.Engine == nil {
		return nil, errors.New("orchestrator: engine client is required")
	}
	historyLimit := opts.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = 100
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	o := &Orchestrator{
		engine:       opts.Engine,
		logger:       logger,
		jobs:         registry.NewJobRegistry(),
		history:      registry.NewResultHistory(historyLimit),
		status:       newStatusAggregator(),
		notes:        newNotificationLog(0),
		historyLimit: historyLimit,
		now:          time.Now,
	}

	if opts.ParamsPath != "" {
		store, err := newParamStore(opts.ParamsPath)
		if err != nil {
			// Parameter persistence degrades silently.
			logger.Warn().Err(err).Msg("orchestrator: parameter store disabled")
		} else {
			o.store = store
		}
	}

	pushURL, err := transport.DeriveURL(opts.Engine.BaseURL())
	if err != nil {
		return nil, err
	}
	channel, err := transport.New(transport.Options{
		URL:            pushURL,
		ReconnectDelay: opts.ReconnectDelay,
		Logger:         &logger,
	}, o.Ingest)
	if err != nil {
		return nil, err
	}
	o.channel = channel

	o.poller = poller.New(
		poller.Options{Interval: opts.PollInterval, Logger: &logger},
		o.pollJobs,
		o.pollStatus,
		func() bool { return o.jobs.Len() > 0 },
	)

	return o, nil
}

// Start restores persisted parameters, primes the local view with one full
// refresh, opens the push channel and launches the poll loop. The channel
// keeps retrying on its own, so neither a failed refresh nor a failed dial
// is fatal.
func (o *Orchestrator) Start(ctx context.Context) {
	o.restoreParams()
	if err := o.Refresh(ctx, 0); err != nil {
		o.logger.Warn().Err(err).Msg("orchestrator: initial refresh failed")
	}
	_ = o.channel.Connect()
	go o.poller.Run(ctx)
}

// Stop tears down the push channel.
func (o *Orchestrator) Stop() {
	o.channel.Close()
}

// Submit validates and sends a generation request, inserting the new job
// into the registry once the engine acknowledges it. The parameters are
// remembered locally whether or not the engine call succeeds.
func (o *Orchestrator) Submit(ctx context.Context, params domain.GenerationParams) (domain.Job, error) {
	if strings.TrimSpace(params.Prompt) == "" {
		o.notes.Add(LevelError, "Prompt must not be blank.")
		return domain.Job{}, ErrBlankPrompt
	}
	o.rememberParams(params)

	resp, err := o.engine.Submit(ctx, params)
	if err != nil {
		o.notes.Add(LevelError, "Generation request failed: "+err.Error())
		return domain.Job{}, err
	}

	status := domain.JobStatusQueued
	if resp.Status != "" {
		status = domain.ParseJobStatus(resp.Status)
	}
	job := domain.Job{
		ID:        resp.JobID,
		Status:    status,
		Progress:  progress.Normalize(resp.Progress),
		Params:    params,
		CreatedAt: o.now(),
	}

	o.applyMu.Lock()
	o.jobs.Insert(job)
	o.applyMu.Unlock()

	o.logger.Info().Str("job_id", job.ID).Msg("orchestrator: job submitted")
	return job, nil
}

// Cancel abandons a queued or processing job. Jobs outside the cancellable
// set are rejected up front, without an engine call.
func (o *Orchestrator) Cancel(ctx context.Context, jobID string) error {
	job, ok := o.jobs.Get(jobID)
	if !ok || !job.Status.Cancellable() {
		o.notes.Add(LevelWarning, "Job can no longer be cancelled.")
		return ErrNotCancellable
	}

	if err := o.engine.Cancel(ctx, jobID); err != nil {
		o.notes.Add(LevelError, "Cancel failed: "+err.Error())
		return err
	}

	o.applyMu.Lock()
	o.jobs.Remove(jobID)
	o.applyMu.Unlock()

	o.notes.Add(LevelInfo, "Job cancelled.")
	o.logger.Info().Str("job_id", jobID).Msg("orchestrator: job cancelled")
	return nil
}

// ClearQueue cancels every currently-cancellable job. Attempts fan out
// concurrently and fail independently; one engine rejection does not stop
// the others. Returns how many jobs were cancelled.
func (o *Orchestrator) ClearQueue(ctx context.Context) int {
	var wg sync.WaitGroup
	var cancelled atomic.Int32
	for _, job := range o.jobs.Sorted() {
		if !job.Status.Cancellable() {
			continue
		}
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := o.engine.Cancel(ctx, id); err != nil {
				o.logger.Warn().Err(err).Str("job_id", id).Msg("orchestrator: cancel failed")
				o.notes.Add(LevelError, "Cancel failed: "+err.Error())
				return
			}
			o.applyMu.Lock()
			o.jobs.Remove(id)
			o.applyMu.Unlock()
			cancelled.Add(1)
		}(job.ID)
	}
	wg.Wait()
	return int(cancelled.Load())
}

// Refresh forces an immediate pull of jobs, results and status outside the
// regular poll cadence. limit overrides the result page size; zero uses the
// configured history bound.
func (o *Orchestrator) Refresh(ctx context.Context, limit int) error {
	if limit <= 0 {
		limit = o.historyLimit
	}

	jobsErr := o.pollJobs(ctx)

	var resultsErr error
	snapshots, err := o.engine.Results(ctx, limit)
	if err != nil {
		resultsErr = err
	} else {
		results := make([]domain.Result, 0, len(snapshots))
		for _, s := range snapshots {
			results = append(results, s.Result())
		}
		o.applyMu.Lock()
		o.history.Replace(results)
		o.applyMu.Unlock()
	}

	statusErr := o.pollStatus(ctx)
	return errors.Join(jobsErr, resultsErr, statusErr)
}

// DeleteResult removes a retained output from the engine and, on success,
// from the local history.
func (o *Orchestrator) DeleteResult(ctx context.Context, id string) error {
	if err := o.engine.DeleteResult(ctx, id); err != nil {
		o.notes.Add(LevelError, "Delete failed: "+err.Error())
		return err
	}
	o.applyMu.Lock()
	o.history.Delete(id)
	o.applyMu.Unlock()
	return nil
}

// Ingest applies one push event. It is also the entry point for decoded
// poll payloads, so both channels share identical merge semantics.
func (o *Orchestrator) Ingest(evt transport.Event) {
	o.applyMu.Lock()
	defer o.applyMu.Unlock()

	switch e := evt.(type) {
	case *transport.ProgressEvent:
		o.applyProgress(e)
	case *transport.StartedEvent:
		o.logger.Info().Str("job_id", e.JobID).Msg("orchestrator: generation started")
	case *transport.CompleteEvent:
		o.applyComplete(e)
	case *transport.ErrorEvent:
		o.applyError(e)
	case *transport.QueueUpdateEvent:
		o.replaceJobs(e.Jobs)
	case *transport.StatusEvent:
		o.status.Apply(e.StatusPatch)
	default:
		o.logger.Debug().Msgf("orchestrator: ignoring event %T", evt)
	}
}

func (o *Orchestrator) applyProgress(e *transport.ProgressEvent) {
	patch := registry.JobPatch{
		CurrentStep: e.CurrentStep,
		TotalSteps:  e.TotalSteps,
	}
	if e.Status != "" {
		status := domain.ParseJobStatus(e.Status)
		patch.Status = &status
	}
	if e.Progress != nil {
		p := progress.Normalize(e.Progress)
		patch.Progress = &p
	}
	if !o.jobs.Merge(e.JobID, patch) {
		// A progress event can outrun the submit response; drop it.
		o.logger.Debug().Str("job_id", e.JobID).Msg("orchestrator: progress for unknown job")
	}
}

func (o *Orchestrator) applyComplete(e *transport.CompleteEvent) {
	job, known := o.jobs.Remove(e.JobID)

	result := domain.Result{
		ID:        e.ResultID,
		JobID:     e.JobID,
		ImageURL:  e.Image(),
		CreatedAt: o.now(),
	}
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if known {
		result.Params = job.Params
	}
	o.history.Append(result)

	o.notes.Add(LevelSuccess, "Generation completed.")
	o.logger.Info().Str("job_id", e.JobID).Msg("orchestrator: job completed")
}

func (o *Orchestrator) applyError(e *transport.ErrorEvent) {
	o.jobs.Remove(e.JobID)
	message := e.Error
	if message == "" {
		message = "generation failed"
	}
	o.notes.Add(LevelError, "Generation failed: "+message)
	o.logger.Warn().Str("job_id", e.JobID).Str("reason", e.Error).Msg("orchestrator: job failed")
}

func (o *Orchestrator) replaceJobs(snapshots []engine.JobSnapshot) {
	jobs := make([]domain.Job, 0, len(snapshots))
	for _, s := range snapshots {
		jobs = append(jobs, s.Job())
	}
	o.jobs.Replace(jobs)
}

// pollJobs fetches the engine's queue snapshot. A fetch failure keeps the
// previous registry contents; stale data beats cleared data.
func (o *Orchestrator) pollJobs(ctx context.Context) error {
	snapshots, err := o.engine.ActiveJobs(ctx)
	if err != nil {
		return err
	}
	o.applyMu.Lock()
	o.replaceJobs(snapshots)
	o.applyMu.Unlock()
	return nil
}

func (o *Orchestrator) pollStatus(ctx context.Context) error {
	patch, err := o.engine.SystemStatus(ctx)
	if err != nil {
		return err
	}
	o.applyMu.Lock()
	o.status.Apply(patch)
	o.applyMu.Unlock()
	return nil
}

func (o *Orchestrator) rememberParams(params domain.GenerationParams) {
	o.paramsMu.Lock()
	o.lastParams = &params
	o.paramsMu.Unlock()
	if o.store == nil {
		return
	}
	if err := o.store.Save(params); err != nil {
		o.logger.Warn().Err(err).Msg("orchestrator: persist parameters failed")
	}
}

func (o *Orchestrator) restoreParams() {
	if o.store == nil {
		return
	}
	params, ok, err := o.store.Load()
	if err != nil {
		o.logger.Warn().Err(err).Msg("orchestrator: restore parameters failed")
		return
	}
	if ok {
		o.paramsMu.Lock()
		o.lastParams = &params
		o.paramsMu.Unlock()
	}
}

// Jobs returns the display-ordered active-job projection.
func (o *Orchestrator) Jobs() []domain.Job {
	return o.jobs.Sorted()
}

// Results returns the retained outputs, newest first.
func (o *Orchestrator) Results() []domain.Result {
	return o.history.Snapshot()
}

// Status returns the aggregated telemetry view.
func (o *Orchestrator) Status() StatusView {
	return StatusView{
		System:    o.status.Snapshot(),
		Transport: o.channel.State(),
	}
}

// Notifications drains the pending notification feed.
func (o *Orchestrator) Notifications() []Notification {
	return o.notes.Drain()
}

// LastParams returns the most recently submitted generation parameters.
func (o *Orchestrator) LastParams() (domain.GenerationParams, bool) {
	o.paramsMu.RLock()
	defer o.paramsMu.RUnlock()
	if o.lastParams == nil {
		return domain.GenerationParams{}, false
	}
	return *o.lastParams, true
}
