package orchestration

import (
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/cpu"

	apperrors "github.com/agbru/montyhall/internal/errors"
	"github.com/agbru/montyhall/internal/logging"
	"github.com/agbru/montyhall/internal/montyhall"
)

const (
	// ProgressBufferMultiplier sizes the progress channel per worker so the
	// sampler rarely drops an update when the display is slow.
	ProgressBufferMultiplier = 5
	// ProgressBatch is the number of trials a worker completes between two
	// publications of its progress counter.
	ProgressBatch = 4096
	// DefaultProgressInterval is how often worker counters are sampled.
	DefaultProgressInterval = 100 * time.Millisecond
)

// Phase is a step of the run lifecycle.
type Phase int

// Run lifecycle, in order. A failed run goes from PhaseJoining straight to
// PhaseDone.
const (
	PhaseIdle Phase = iota
	PhaseDispatching
	PhaseRunning
	PhaseJoining
	PhaseAggregating
	PhaseReporting
	PhaseDone
)

var phaseNames = [...]string{"idle", "dispatching", "running", "joining", "aggregating", "reporting", "done"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// RunReport is the outcome of a successful run.
type RunReport struct {
	RunID     string
	Trials    uint64
	Workers   int
	Seed      uint64
	Partition PartitionMode
	Chunk     uint64
	Tally     montyhall.Tally
	Elapsed   time.Duration
}

// ElapsedSeconds returns the wall-clock duration in seconds.
func (r RunReport) ElapsedSeconds() float64 { return r.Elapsed.Seconds() }

// Rate returns the win percentage of s.
func (r RunReport) Rate(s montyhall.Strategy) float64 { return r.Tally.Rate(s, r.Trials) }

// Option customizes a run.
type Option func(*options)

type options struct {
	logger           logging.Logger
	out              io.Writer
	sink             Sink
	header           bool
	reporter         ProgressReporter
	progressOut      io.Writer
	progressInterval time.Duration
	metrics          MetricsRecorder
	tracer           trace.Tracer
	observer         func(Phase)
	newSource        func(seed uint64) trialSource
}

// trialSource is a montyhall.Source that can be re-keyed per trial.
type trialSource interface {
	montyhall.Source
	Reset(index uint64)
}

func newTrialSource(seed uint64) trialSource { return montyhall.NewTrialSource(seed) }

func defaultOptions() options {
	return options{
		logger:           logging.NewNopLogger(),
		out:              os.Stdout,
		progressOut:      os.Stderr,
		progressInterval: DefaultProgressInterval,
		metrics:          nopRecorder{},
		tracer:           otel.Tracer("montyhall"),
		newSource:        newTrialSource,
	}
}

// WithLogger sets the logger receiving lifecycle events.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithOutput sets where diagnostic lines go when verbose. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithSink replaces the sink built from RunConfig.Sink when verbose. The run
// closes it.
func WithSink(s Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithHeader writes HeaderLine before the first diagnostic line.
func WithHeader(enabled bool) Option {
	return func(o *options) { o.header = enabled }
}

// WithProgress enables progress publication to reporter, which renders on out.
func WithProgress(reporter ProgressReporter, out io.Writer) Option {
	return func(o *options) {
		o.reporter = reporter
		if out != nil {
			o.progressOut = out
		}
	}
}

// WithProgressInterval sets the sampling period of worker counters.
func WithProgressInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.progressInterval = d
		}
	}
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithTracer overrides the OpenTelemetry tracer.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithPhaseObserver registers fn to be called, from the driver goroutine, on
// every phase transition.
func WithPhaseObserver(fn func(Phase)) Option {
	return func(o *options) { o.observer = fn }
}

// withSourceFactory replaces the per-worker draw source.
func withSourceFactory(fn func(seed uint64) trialSource) Option {
	return func(o *options) { o.newSource = fn }
}

// workerCounter is a per-worker progress counter on its own cache line.
type workerCounter struct {
	_ cpu.CacheLinePad
	n atomic.Uint64
	_ cpu.CacheLinePad
}

// runner holds the state of one run. Nothing in it outlives Run.
type runner struct {
	cfg      RunConfig
	opts     options
	seed     uint64
	part     Partitioner
	sink     Sink
	counters []workerCounter
	span     trace.Span
}

// Run executes cfg.Trials trials over cfg.Workers workers and returns the
// aggregated report.
//
// Workers accumulate into private tallies that are merged once every worker
// has returned. The first invariant violation cancels the remaining workers
// and is returned wrapped in an apperrors.SimulationError; no partial report
// is produced. There are no retries and no timeout; ctx cancellation stops
// workers at their next claim.
func Run(ctx context.Context, cfg RunConfig, opts ...Option) (RunReport, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return RunReport{}, err
	}
	cfg = cfg.withDefaults()

	seed := cfg.Seed
	if !cfg.Seeded {
		seed = montyhall.NewSeed()
	}
	part, err := NewPartitioner(cfg.Partition, cfg.Trials, cfg.Workers, cfg.Chunk)
	if err != nil {
		return RunReport{}, apperrors.NewConfigError("%v", err)
	}

	runID := uuid.NewString()
	ctx, span := o.tracer.Start(ctx, "montyhall.run", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.Int64("run.trials", int64(cfg.Trials)),
		attribute.Int("run.workers", cfg.Workers),
		attribute.String("run.partition", string(cfg.Partition)),
		attribute.Int64("run.chunk", int64(cfg.Chunk)),
	))
	defer span.End()

	r := &runner{
		cfg:      cfg,
		opts:     o,
		seed:     seed,
		part:     part,
		sink:     nopSink{},
		counters: make([]workerCounter, cfg.Workers),
		span:     span,
	}
	r.opts.logger = logging.WithFields(o.logger, logging.String("run_id", runID))

	report, err := r.run(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.opts.logger.Error("run aborted", err, logging.Uint64("seed", seed))
		return RunReport{}, err
	}
	report.RunID = runID
	r.opts.logger.Info("run complete",
		logging.Uint64("trials", report.Trials),
		logging.Int("workers", report.Workers),
		logging.Uint64("seed", report.Seed),
		logging.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

func (r *runner) setPhase(p Phase) {
	r.span.AddEvent(p.String())
	r.opts.logger.Debug("phase", logging.String("phase", p.String()))
	if r.opts.observer != nil {
		r.opts.observer(p)
	}
}

func (r *runner) run(ctx context.Context) (RunReport, error) {
	r.setPhase(PhaseDispatching)
	start := time.Now()

	if r.cfg.Verbose {
		if r.opts.header {
			if err := WriteHeader(r.opts.out); err != nil {
				r.setPhase(PhaseDone)
				return RunReport{}, apperrors.WrapError(err, "writing diagnostic header")
			}
		}
		r.sink = r.opts.sink
		if r.sink == nil {
			r.sink = NewSink(r.cfg.Sink, r.opts.out, r.cfg.Workers)
		}
	}

	stopProgress := r.startProgress()

	g, gctx := errgroup.WithContext(ctx)
	tallies := make([]montyhall.Tally, r.cfg.Workers)
	for i := 0; i < r.cfg.Workers; i++ {
		id := i
		g.Go(func() error {
			r.opts.metrics.WorkerStarted()
			defer r.opts.metrics.WorkerStopped()
			t, err := r.work(gctx, id)
			tallies[id] = t
			return err
		})
	}
	r.setPhase(PhaseRunning)

	r.setPhase(PhaseJoining)
	runErr := g.Wait()
	stopProgress()
	sinkErr := r.sink.Close()

	if runErr != nil {
		r.opts.metrics.RunFinished(montyhall.Tally{}, 0, time.Since(start), runErr)
		r.setPhase(PhaseDone)
		return RunReport{}, runErr
	}
	if sinkErr != nil {
		r.opts.metrics.RunFinished(montyhall.Tally{}, 0, time.Since(start), sinkErr)
		r.setPhase(PhaseDone)
		return RunReport{}, apperrors.WrapError(sinkErr, "writing diagnostic lines")
	}

	r.setPhase(PhaseAggregating)
	total := montyhall.Merge(tallies...)

	r.setPhase(PhaseReporting)
	elapsed := time.Since(start)
	report := RunReport{
		Trials:    r.cfg.Trials,
		Workers:   r.cfg.Workers,
		Seed:      r.seed,
		Partition: r.cfg.Partition,
		Chunk:     r.cfg.Chunk,
		Tally:     total,
		Elapsed:   elapsed,
	}
	r.opts.metrics.RunFinished(total, r.cfg.Trials, elapsed, nil)
	r.span.SetAttributes(
		attribute.Int64("run.wins.stick", int64(total.Stick)),
		attribute.Int64("run.wins.random", int64(total.RandomSwitch)),
		attribute.Int64("run.wins.swap", int64(total.AlwaysSwap)),
	)
	r.setPhase(PhaseDone)
	return report, nil
}

// work is the hot loop of one worker: claim a range, then for each index
// re-key the source, play the trial, record it and optionally emit it.
func (r *runner) work(ctx context.Context, id int) (montyhall.Tally, error) {
	var tally montyhall.Tally
	src := r.opts.newSource(r.seed)
	label := WorkerLabel(id)
	emit := r.cfg.Verbose
	counter := &r.counters[id].n
	var pending uint64

	flush := func() {
		if pending > 0 {
			counter.Add(pending)
			r.opts.metrics.TrialsCompleted(pending)
			pending = 0
		}
	}
	defer flush()

	for {
		if err := ctx.Err(); err != nil {
			return tally, err
		}
		rg, ok := r.part.Claim(id)
		if !ok {
			return tally, nil
		}
		for i := rg.First; ; i++ {
			src.Reset(i)
			t, err := montyhall.Play(i, src)
			if err != nil {
				return tally, apperrors.SimulationError{Worker: label, Cause: err}
			}
			tally.Record(t)
			if emit {
				r.sink.Emit(t, label)
			}
			if pending++; pending == ProgressBatch {
				flush()
			}
			if i == rg.Last {
				break
			}
		}
	}
}

// startProgress launches the reporter and the sampler. The returned func
// publishes final counts, closes the channel and waits for the reporter.
func (r *runner) startProgress() func() {
	if r.opts.reporter == nil {
		return func() {}
	}
	ch := make(chan ProgressUpdate, r.cfg.Workers*ProgressBufferMultiplier)
	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go r.opts.reporter.DisplayProgress(&displayWg, ch, r.cfg.Workers, r.cfg.Trials, r.opts.progressOut)

	stop := make(chan struct{})
	var samplerWg sync.WaitGroup
	samplerWg.Add(1)
	go func() {
		defer samplerWg.Done()
		ticker := time.NewTicker(r.opts.progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				for i := range r.counters {
					select {
					case ch <- ProgressUpdate{Worker: i, Done: r.counters[i].n.Load()}:
					default:
					}
				}
			}
		}
	}()

	return func() {
		close(stop)
		samplerWg.Wait()
		for i := range r.counters {
			ch <- ProgressUpdate{Worker: i, Done: r.counters[i].n.Load()}
		}
		close(ch)
		displayWg.Wait()
	}
}
