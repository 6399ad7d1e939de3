package stream

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/wehubfusion/Daedalus/pkg/errors"
	"github.com/wehubfusion/Daedalus/pkg/promise"
)

// UnitFunc is the per-unit callback. It receives the shared accumulator, the
// delivered unit, its zero-based ordinal, and the source. The returned result
// may be a *promise.Promise; while it is outstanding the source stays paused
// and no other unit is delivered.
type UnitFunc func(pc *Context, unit interface{}, ordinal int, src Source) (interface{}, error)

// Config holds configuration for paced processing
type Config struct {
	// Logger is the zap logger for unit lifecycle events (optional, silent if nil)
	Logger *zap.Logger

	// DisableTracing turns off the per-unit OpenTelemetry spans
	DisableTracing bool
}

// Process drains the source one unit at a time and resolves with the shared
// Context once the source ends. The source is put into active delivery mode
// at the start regardless of its initial mode. A nil callback installs the
// default accumulator, which appends every unit to the Context's unit list.
//
// While a unit's callback result is pending the source is paused; an end or
// error signal arriving meanwhile takes effect only after the in-flight work
// settles. Any failure (callback error or panic, failed pending result,
// source error) pauses the source and fails the returned promise; the
// operation never partially resolves.
func Process(ctx context.Context, src Source, fn UnitFunc) *promise.Promise {
	return ProcessWithConfig(ctx, src, fn, &Config{})
}

// ProcessWithConfig is Process with explicit configuration
func ProcessWithConfig(ctx context.Context, src Source, fn UnitFunc, config *Config) *promise.Promise {
	if config == nil {
		config = &Config{}
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if fn == nil {
		fn = func(pc *Context, unit interface{}, ordinal int, src Source) (interface{}, error) {
			pc.AppendUnit(unit)
			return nil, nil
		}
	}

	run := &processRun{
		pc:             NewContext(),
		src:            src,
		fn:             fn,
		logger:         logger,
		tracer:         otel.Tracer("daedalus/stream"),
		disableTracing: config.DisableTracing,
	}

	return promise.New(func(resolve func(interface{}), reject func(error)) {
		run.resolve = resolve
		run.reject = reject

		src.Deliver(Handlers{
			Data:  func(unit interface{}) { run.onData(ctx, unit) },
			Error: run.onError,
			End:   run.onEnd,
		})
		src.Resume()
	})
}

// processRun carries the state of one Process invocation. The source
// delivers signals serially, so the mutable fields need no locking.
type processRun struct {
	pc             *Context
	src            Source
	fn             UnitFunc
	logger         *zap.Logger
	tracer         trace.Tracer
	disableTracing bool
	resolve        func(interface{})
	reject         func(error)
	ordinal        int
	failed         bool
}

func (p *processRun) onData(ctx context.Context, unit interface{}) {
	if p.failed {
		return
	}

	ordinal := p.ordinal
	p.ordinal++

	p.logger.Debug("processing unit",
		zap.String("context_id", p.pc.ID),
		zap.Int("ordinal", ordinal))

	unitCtx := ctx
	var span trace.Span
	if !p.disableTracing {
		unitCtx, span = p.tracer.Start(ctx, "stream.process_unit",
			trace.WithAttributes(
				attribute.String("context.id", p.pc.ID),
				attribute.Int("unit.ordinal", ordinal)))
	}

	finish := func(err error) {
		if span == nil {
			return
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}

	result, err := p.invoke(unit, ordinal)
	if err != nil {
		finish(err)
		p.fail(errors.NewCallbackFailed(fmt.Sprintf("unit %d", ordinal), err))
		return
	}

	if pending, ok := result.(*promise.Promise); ok {
		p.src.Pause()
		if _, err := pending.Await(unitCtx); err != nil {
			finish(err)
			p.fail(errors.NewCallbackFailed(fmt.Sprintf("unit %d", ordinal), err))
			return
		}
		p.src.Resume()
	}

	finish(nil)
	p.pc.markProcessed()
}

func (p *processRun) onError(err error) {
	if p.failed {
		return
	}
	p.fail(errors.NewSourceFailed("source signaled an error", err))
}

func (p *processRun) onEnd() {
	if p.failed {
		return
	}
	p.logger.Debug("source ended",
		zap.String("context_id", p.pc.ID),
		zap.Int("processed", p.pc.Processed()))
	p.resolve(p.pc)
}

// invoke runs the callback for one unit, converting a panic into an error
func (p *processRun) invoke(unit interface{}, ordinal int) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic recovered: %v", r)
		}
	}()
	return p.fn(p.pc, unit, ordinal, p.src)
}

func (p *processRun) fail(err error) {
	p.failed = true
	p.src.Pause()
	p.logger.Error("processing failed",
		zap.String("context_id", p.pc.ID),
		zap.Error(err))
	p.reject(err)
}
