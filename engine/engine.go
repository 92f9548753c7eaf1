package engine

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/skillsenselab/flowkit/component"
	"github.com/skillsenselab/flowkit/config"
	"github.com/skillsenselab/flowkit/errors"
	"github.com/skillsenselab/flowkit/graph"
	"github.com/skillsenselab/flowkit/logger"
	"github.com/skillsenselab/flowkit/observability"
	"github.com/skillsenselab/flowkit/resilience"
)

// Engine executes graphs. The zero value is usable: unbounded concurrency,
// no default timeout, fail-fast policy, events discarded.
type Engine struct {
	// MaxConcurrent limits in-flight vertex executions per run
	// (0 = unbounded). Ready vertices beyond the limit queue in FIFO order.
	MaxConcurrent int
	// DefaultTimeout applies to vertices that declare no timeout of their
	// own (0 = no deadline).
	DefaultTimeout time.Duration
	// Policy selects how a run reacts to a vertex failure. Empty means FailFast.
	Policy FailurePolicy
	// Sink receives the run's ordered progress events. Nil discards them.
	Sink EventSink
	// Metrics records vertex and run instruments when set.
	Metrics *observability.Metrics
	// Log overrides the engine's logger. Nil uses the global logger.
	Log *logger.Logger
}

// FromConfig builds an Engine from loaded configuration.
func FromConfig(cfg config.EngineConfig) *Engine {
	return &Engine{
		MaxConcurrent:  cfg.MaxConcurrent,
		DefaultTimeout: cfg.DefaultVertexTimeout,
		Policy:         FailurePolicy(cfg.FailurePolicy),
	}
}

// run holds one execution's mutable state. All fields are owned by the
// scheduling loop; vertex goroutines read outputs only for vertices whose
// results were recorded before they were dispatched.
type run struct {
	id      string
	g       *graph.Graph
	tracker *tracker
	outputs map[string]component.Outputs
	results map[string]*VertexResult
}

// outputLookup resolves an upstream output slot value for input resolution.
func (r *run) outputLookup(vertexID, slot string) (any, bool) {
	outs, ok := r.outputs[vertexID]
	if !ok {
		return nil, false
	}
	val, ok := outs[slot]
	return val, ok
}

// vertexOutcome is sent on the completion channel by vertex goroutines.
type vertexOutcome struct {
	id        string
	outputs   component.Outputs
	err       *errors.FlowError
	startedAt time.Time
	duration  time.Duration
	attempts  int
}

// Execute runs the graph to a terminal state and returns the per-vertex
// accounting. Vertex failures and cancellation are reported in the result,
// not as a returned error; the error return covers invalid invocation only.
//
// Cancellation is observed before each dispatch: in-flight vertices finish
// (or abort per their own contract), their results are recorded, and no
// further vertices start.
func (e *Engine) Execute(ctx context.Context, g *graph.Graph) (*RunResult, error) {
	if g == nil {
		return nil, errors.InvalidDefinition("graph is required")
	}

	runID := uuid.NewString()
	log := e.logger().WithFields(map[string]interface{}{logger.FieldRunID: runID})
	sink := e.sink()

	ctx, span := observability.StartSpan(ctx, observability.SpanRun)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrRunID, runID)

	r := &run{
		id:      runID,
		g:       g,
		tracker: newTracker(g),
		outputs: make(map[string]component.Outputs, g.Size()),
		results: make(map[string]*VertexResult, g.Size()),
	}

	limit := e.MaxConcurrent
	if limit <= 0 {
		limit = g.Size()
	}
	bulkhead := resilience.NewBulkhead(limit)
	completions := make(chan vertexOutcome)

	queue := append([]string(nil), r.tracker.initialReady()...)
	inflight := 0
	halted := false
	cancelled := false
	startedAt := time.Now()

	log.Info("run started", logger.Fields(
		"vertices", g.Size(),
		"max_concurrent", limit,
		"policy", string(e.policy()),
	))

	for {
		// Dispatch phase: fill free slots from the FIFO ready queue. Skipped
		// entirely once the failure policy halted the run or cancellation
		// was observed.
		for !halted && !cancelled && len(queue) > 0 {
			if ctx.Err() != nil {
				cancelled = true
				break
			}
			id := queue[0]
			if r.tracker.stateOf(id) != VertexReady {
				queue = queue[1:]
				continue
			}
			if !bulkhead.TryAcquire() {
				break
			}
			queue = queue[1:]

			v, _ := g.VertexByID(id)
			r.tracker.markRunning(id)
			inflight++
			sink.Publish(Event{
				Type: EventVertexStarted, RunID: runID, VertexID: id, Timestamp: time.Now(),
			})
			log.Debug("vertex dispatched", logger.Fields(
				logger.FieldVertexID, id, "component", v.ComponentType(),
			))
			go e.executeVertex(ctx, r, v, completions)
		}

		if inflight == 0 {
			break
		}

		outcome := <-completions
		inflight--
		bulkhead.Release()
		if ctx.Err() != nil {
			cancelled = true
		}
		newlyReady := e.onCompletion(r, outcome, sink, log, &halted)
		queue = append(queue, newlyReady...)
	}

	return e.finalize(ctx, r, sink, log, startedAt, cancelled), nil
}

// onCompletion folds one vertex outcome into the run state. It is the single
// point serializing writes to outputs, results, and dependency counters.
func (e *Engine) onCompletion(r *run, out vertexOutcome, sink EventSink, log *logger.Logger, halted *bool) []string {
	v, _ := r.g.VertexByID(out.id)
	res := &VertexResult{
		ID:            out.id,
		ComponentType: v.ComponentType(),
		StartedAt:     out.startedAt,
		Duration:      out.duration,
		Attempts:      out.attempts,
	}
	r.results[out.id] = res

	if out.err == nil {
		res.Status = VertexSuccess
		res.Outputs = out.outputs
		r.outputs[out.id] = out.outputs
		if e.Metrics != nil {
			e.Metrics.RecordVertexEnd(context.Background(), v.ComponentType(), string(VertexSuccess), out.duration)
		}
		sink.Publish(Event{
			Type: EventVertexSucceeded, RunID: r.id, VertexID: out.id,
			Outputs: out.outputs, Timestamp: time.Now(),
		})
		log.Debug("vertex succeeded", logger.Fields(
			logger.FieldVertexID, out.id,
			logger.FieldDuration, out.duration.Milliseconds(),
		))
		return r.tracker.onVertexSucceeded(out.id)
	}

	res.Status = VertexFailed
	res.Error = out.err
	if e.Metrics != nil {
		e.Metrics.RecordVertexEnd(context.Background(), v.ComponentType(), string(VertexFailed), out.duration)
		e.Metrics.RecordError(context.Background(), string(out.err.Code), v.ComponentType())
	}
	sink.Publish(Event{
		Type: EventVertexFailed, RunID: r.id, VertexID: out.id,
		Error: out.err.Error(), Timestamp: time.Now(),
	})

	if out.err.Code == errors.ErrCodeMissingInput {
		// Scheduler invariant violation, not a component failure. Always
		// fatal to the run regardless of policy.
		log.Error("invariant violation: vertex dispatched before predecessors succeeded",
			logger.ErrorFields("resolve_inputs", out.err))
		*halted = true
	} else {
		log.Error("vertex failed", logger.Fields(
			logger.FieldVertexID, out.id,
			logger.FieldError, out.err.Error(),
		))
		if e.policy() == FailFast {
			*halted = true
		}
	}

	for _, skippedID := range r.tracker.onVertexFailed(out.id) {
		sv, _ := r.g.VertexByID(skippedID)
		r.results[skippedID] = &VertexResult{
			ID:             skippedID,
			ComponentType:  sv.ComponentType(),
			Status:         VertexSkipped,
			SkippedBecause: r.tracker.skipCause(skippedID),
		}
		sink.Publish(Event{
			Type: EventVertexSkipped, RunID: r.id, VertexID: skippedID,
			SkippedBecause: r.tracker.skipCause(skippedID), Timestamp: time.Now(),
		})
	}
	return nil
}

// executeVertex resolves inputs and invokes the component, reporting the
// outcome on the completion channel. Runs in its own goroutine; it touches no
// shared run state except the read-only output views of its predecessors.
func (e *Engine) executeVertex(ctx context.Context, r *run, v *graph.Vertex, completions chan<- vertexOutcome) {
	startedAt := time.Now()

	ctx, span := observability.StartSpan(ctx, observability.SpanVertex)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrVertexID, v.ID())
	observability.SetSpanAttribute(ctx, observability.AttrComponentType, v.ComponentType())
	if e.Metrics != nil {
		e.Metrics.RecordVertexStart(ctx)
	}

	inputs, err := v.ResolveInputs(r.outputLookup)
	if err != nil {
		var fe *errors.FlowError
		if !stderrors.As(err, &fe) {
			fe = errors.ExecutionFailed(v.ID(), err)
		}
		observability.SetSpanError(ctx, fe)
		completions <- vertexOutcome{
			id: v.ID(), err: fe, startedAt: startedAt, duration: time.Since(startedAt),
		}
		return
	}

	execCtx := ctx
	timeout := v.Timeout()
	if timeout == 0 {
		timeout = e.DefaultTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	attempts := 0
	invoke := func() (component.Outputs, error) {
		attempts++
		return v.Component().Execute(execCtx, inputs)
	}

	var outputs component.Outputs
	if p := v.Retry(); p != nil {
		outputs, err = resilience.Retry(execCtx, resilience.RetryConfig{
			MaxAttempts:    p.MaxAttempts,
			InitialBackoff: p.InitialBackoff,
			MaxBackoff:     p.MaxBackoff,
			BackoffFactor:  p.BackoffFactor,
		}, invoke)
	} else {
		outputs, err = invoke()
	}

	duration := time.Since(startedAt)
	outcome := vertexOutcome{
		id: v.ID(), outputs: outputs, startedAt: startedAt, duration: duration, attempts: attempts,
	}
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) || execCtx.Err() == context.DeadlineExceeded {
			outcome.err = errors.Timeout(v.ID(), err)
		} else {
			outcome.err = errors.ExecutionFailed(v.ID(), err)
		}
		outcome.outputs = nil
		observability.SetSpanError(ctx, outcome.err)
	}
	observability.SetSpanAttribute(ctx, observability.AttrDurationMs, duration.Milliseconds())

	completions <- outcome
}

// finalize assigns terminal states to not-started vertices, determines the
// run status, and emits the trailing RunCompleted event.
func (e *Engine) finalize(ctx context.Context, r *run, sink EventSink, log *logger.Logger, startedAt time.Time, cancelled bool) *RunResult {
	result := &RunResult{
		RunID:     r.id,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Vertices:  make(map[string]VertexResult, r.g.Size()),
	}

	anyFailed := false
	for _, v := range r.g.Vertices() {
		if res, ok := r.results[v.ID()]; ok {
			result.Vertices[v.ID()] = *res
			if res.Status == VertexFailed {
				anyFailed = true
				if result.Err == nil {
					result.Err = res.Error
				}
			}
			continue
		}
		// Never dispatched: the run was cancelled or halted first. Reported
		// with its scheduling state so callers can account for every vertex.
		result.Vertices[v.ID()] = VertexResult{
			ID:            v.ID(),
			ComponentType: v.ComponentType(),
			Status:        r.tracker.stateOf(v.ID()),
		}
	}

	switch {
	case cancelled:
		result.Status = RunCancelled
		result.Err = errors.RunCancelled(r.id).WithCause(ctx.Err())
	case anyFailed:
		result.Status = RunFailed
	default:
		result.Status = RunCompleted
	}

	if e.Metrics != nil {
		e.Metrics.RecordRun(context.Background(), string(result.Status), result.Duration)
	}
	observability.SetSpanAttribute(ctx, observability.AttrStatus, string(result.Status))

	sink.Publish(Event{
		Type: EventRunCompleted, RunID: r.id, Status: result.Status, Timestamp: time.Now(),
	})
	log.Info("run finished", logger.Fields(
		logger.FieldStatus, string(result.Status),
		logger.FieldDuration, result.Duration.Milliseconds(),
	))

	return result
}

func (e *Engine) policy() FailurePolicy {
	if e.Policy == "" {
		return FailFast
	}
	return e.Policy
}

func (e *Engine) sink() EventSink {
	if e.Sink == nil {
		return NopSink{}
	}
	return e.Sink
}

func (e *Engine) logger() *logger.Logger {
	if e.Log != nil {
		return e.Log
	}
	return logger.WithComponent("engine")
}
