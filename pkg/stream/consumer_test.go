package stream

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/wehubfusion/Daedalus/pkg/errors"
	"github.com/wehubfusion/Daedalus/pkg/promise"
)

func testConfig() *Config {
	return &Config{DisableTracing: true}
}

func TestProcessEmptySourceResolvesWithoutCallback(t *testing.T) {
	src := NewChannelSource()
	src.End()

	invoked := false
	result, err := ProcessWithConfig(context.Background(), src, func(pc *Context, unit interface{}, ordinal int, s Source) (interface{}, error) {
		invoked = true
		return nil, nil
	}, testConfig()).Await(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if invoked {
		t.Fatal("callback must not run for an empty source")
	}

	pc := result.(*Context)
	if pc.Processed() != 0 || len(pc.Units()) != 0 {
		t.Fatalf("context must be empty: %+v", pc)
	}
	if pc.ID == "" {
		t.Fatal("context must carry an ID")
	}
}

func TestProcessDefaultAccumulatorCollectsUnits(t *testing.T) {
	src := NewChannelSource()
	src.Push("a")
	src.Push("b")
	src.Push("c")
	src.End()

	result, err := ProcessWithConfig(context.Background(), src, nil, testConfig()).Await(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	units := result.(*Context).Units()
	if len(units) != 3 || units[0].(string) != "a" || units[2].(string) != "c" {
		t.Fatalf("unexpected units: %v", units)
	}
}

func TestProcessOrdinalsStartAtZero(t *testing.T) {
	src := NewChannelSource()
	src.Push("x")
	src.Push("y")
	src.End()

	var ordinals []int
	_, err := ProcessWithConfig(context.Background(), src, func(pc *Context, unit interface{}, ordinal int, s Source) (interface{}, error) {
		ordinals = append(ordinals, ordinal)
		return nil, nil
	}, testConfig()).Await(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ordinals) != 2 || ordinals[0] != 0 || ordinals[1] != 1 {
		t.Fatalf("unexpected ordinals: %v", ordinals)
	}
}

func TestProcessCallbacksNeverOverlap(t *testing.T) {
	src := NewChannelSource()
	for i := 0; i < 4; i++ {
		src.Push(i)
	}
	src.End()

	inFlight := 0
	_, err := ProcessWithConfig(context.Background(), src, func(pc *Context, unit interface{}, ordinal int, s Source) (interface{}, error) {
		inFlight++
		if inFlight != 1 {
			t.Errorf("unit %d started while another was in flight", ordinal)
		}
		return promise.Go(func() (interface{}, error) {
			time.Sleep(10 * time.Millisecond)
			inFlight--
			return nil, nil
		}), nil
	}, testConfig()).Await(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProcessPausesSourceWhileAwaiting(t *testing.T) {
	src := NewChannelSource()
	src.Push("only")
	src.End()

	paused := make(chan bool, 1)
	_, err := ProcessWithConfig(context.Background(), src, func(pc *Context, unit interface{}, ordinal int, s Source) (interface{}, error) {
		return promise.Go(func() (interface{}, error) {
			time.Sleep(5 * time.Millisecond)
			paused <- s.IsPaused()
			return nil, nil
		}), nil
	}, testConfig()).Await(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !<-paused {
		t.Fatal("source must be paused while per-unit work is outstanding")
	}
}

func TestProcessSynchronousCallbackError(t *testing.T) {
	src := NewChannelSource()
	src.Push("bad")

	_, err := ProcessWithConfig(context.Background(), src, func(pc *Context, unit interface{}, ordinal int, s Source) (interface{}, error) {
		return nil, stderrors.New("boom")
	}, testConfig()).Await(context.Background())

	if !errors.IsCallbackFailed(err) {
		t.Fatalf("expected callback failure, got %v", err)
	}
	if !src.IsPaused() {
		t.Fatal("source must be paused after a failure")
	}
}

func TestProcessCallbackPanicBecomesFailure(t *testing.T) {
	src := NewChannelSource()
	src.Push("bad")

	_, err := ProcessWithConfig(context.Background(), src, func(pc *Context, unit interface{}, ordinal int, s Source) (interface{}, error) {
		panic("kaboom")
	}, testConfig()).Await(context.Background())

	if !errors.IsCallbackFailed(err) {
		t.Fatalf("expected callback failure, got %v", err)
	}
}

func TestProcessPendingResultFailure(t *testing.T) {
	src := NewChannelSource()
	src.Push("bad")

	_, err := ProcessWithConfig(context.Background(), src, func(pc *Context, unit interface{}, ordinal int, s Source) (interface{}, error) {
		return promise.Reject(stderrors.New("deferred boom")), nil
	}, testConfig()).Await(context.Background())

	if !errors.IsCallbackFailed(err) {
		t.Fatalf("expected callback failure, got %v", err)
	}
}

func TestProcessSourceErrorFailsOperation(t *testing.T) {
	src := NewChannelSource()
	src.Push("ok")
	src.Fail(stderrors.New("upstream broke"))

	_, err := ProcessWithConfig(context.Background(), src, nil, testConfig()).Await(context.Background())

	if !errors.IsSourceFailed(err) {
		t.Fatalf("expected source failure, got %v", err)
	}
}

func TestProcessDeferredErrorAfterTwoOfFourUnits(t *testing.T) {
	src := NewChannelSource()
	src.Push(1)
	src.Push(2)

	var pc *Context
	done := make(chan struct{})

	p := ProcessWithConfig(context.Background(), src, func(c *Context, unit interface{}, ordinal int, s Source) (interface{}, error) {
		pc = c
		c.AppendUnit(unit)
		if ordinal == 1 {
			// while this unit's work is pending, the source fails; the error
			// must be deferred until the work settles
			return promise.Go(func() (interface{}, error) {
				src.Fail(stderrors.New("mid-stream error"))
				src.Push(3)
				src.Push(4)
				time.Sleep(20 * time.Millisecond)
				close(done)
				return nil, nil
			}), nil
		}
		return nil, nil
	}, testConfig())

	_, err := p.Await(context.Background())
	<-done

	if !errors.IsSourceFailed(err) {
		t.Fatalf("expected source failure, got %v", err)
	}
	if pc.Processed() != 2 {
		t.Fatalf("context must reflect exactly 2 processed units, got %d", pc.Processed())
	}
	if len(pc.Units()) != 2 {
		t.Fatalf("expected 2 accumulated units, got %v", pc.Units())
	}
}

func TestProcessSharedContextIdentity(t *testing.T) {
	src := NewChannelSource()
	src.Push("a")
	src.Push("b")
	src.End()

	var seen []*Context
	result, err := ProcessWithConfig(context.Background(), src, func(pc *Context, unit interface{}, ordinal int, s Source) (interface{}, error) {
		seen = append(seen, pc)
		pc.Set(unit.(string), ordinal)
		return nil, nil
	}, testConfig()).Await(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pc := result.(*Context)
	for _, s := range seen {
		if s != pc {
			t.Fatal("every invocation must receive the same context instance")
		}
	}
	if v, ok := pc.Get("b"); !ok || v.(int) != 1 {
		t.Fatalf("unexpected context values: %v", pc.Snapshot())
	}
}

func TestChannelSourcePauseResume(t *testing.T) {
	src := NewChannelSource()
	if !src.IsPaused() {
		t.Fatal("a fresh source must start paused")
	}

	delivered := make(chan interface{}, 2)
	src.Deliver(Handlers{
		Data: func(unit interface{}) { delivered <- unit },
		End:  func() { close(delivered) },
	})

	src.Push(1)
	select {
	case <-delivered:
		t.Fatal("paused source must not deliver")
	case <-time.After(20 * time.Millisecond):
	}

	src.Resume()
	if v := <-delivered; v.(int) != 1 {
		t.Fatalf("unexpected unit: %v", v)
	}

	src.End()
	if _, open := <-delivered; open {
		t.Fatal("expected end signal")
	}
}
