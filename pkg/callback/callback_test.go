package callback

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/wehubfusion/Daedalus/pkg/errors"
)

func TestPromisifyResolvesWithResult(t *testing.T) {
	join := Promisify(func(args []interface{}, done Done) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.(string)
		}
		done(nil, strings.Join(parts, "-"))
	})

	value, err := join("a", "b", "c").Await(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value.(string) != "a-b-c" {
		t.Fatalf("unexpected value: %v", value)
	}
}

func TestPromisifyRejectsOnCallbackError(t *testing.T) {
	boom := stderrors.New("boom")
	failing := Promisify(func(args []interface{}, done Done) {
		done(boom, nil)
	})

	_, err := failing().Await(context.Background())
	if !errors.IsAdaptedCall(err) {
		t.Fatalf("expected adapted call failure, got %v", err)
	}
	if !stderrors.Is(err, boom) {
		t.Fatalf("cause must be preserved, got %v", err)
	}
}

func TestPromisifyErrorWinsOverResult(t *testing.T) {
	failing := Promisify(func(args []interface{}, done Done) {
		done(stderrors.New("boom"), "ignored result")
	})

	value, err := failing().Await(context.Background())
	if err == nil {
		t.Fatalf("expected failure, got %v", value)
	}
}

type counter struct {
	n int
}

func TestPromisifyBoundForwardsReceiver(t *testing.T) {
	c := &counter{n: 10}

	increment := PromisifyBound(c, func(recv interface{}, args []interface{}, done Done) {
		r := recv.(*counter)
		r.n += args[0].(int)
		done(nil, r.n)
	})

	value, err := increment(5).Await(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value.(int) != 15 || c.n != 15 {
		t.Fatalf("receiver not forwarded: %v, %d", value, c.n)
	}
}
