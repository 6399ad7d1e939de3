package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := NewError("SOME_CODE", "something broke", stderrors.New("cause"))
	msg := err.Error()
	if !strings.Contains(msg, "SOME_CODE") || !strings.Contains(msg, "cause") {
		t.Fatalf("unexpected message: %s", msg)
	}

	bare := NewError("BARE", "no cause", nil)
	if strings.Contains(bare.Error(), "<nil>") {
		t.Fatalf("nil cause must not appear: %s", bare.Error())
	}
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	cause := stderrors.New("root cause")

	cases := []struct {
		err   error
		check func(error) bool
	}{
		{NewUnsupportedContainer("bad shape"), IsUnsupportedContainer},
		{NewElementResolution("element 3", cause), IsElementResolution},
		{NewCallbackFailed("element 3", cause), IsCallbackFailed},
		{NewSourceFailed("stream", cause), IsSourceFailed},
		{NewAdaptedCall("wrapped fn", cause), IsAdaptedCall},
	}
	for _, c := range cases {
		if !c.check(c.err) {
			t.Fatalf("sentinel lost for %v", c.err)
		}
	}
}

func TestCauseIsPreserved(t *testing.T) {
	cause := stderrors.New("root cause")
	err := NewCallbackFailed("element 0", cause)
	if !stderrors.Is(err, cause) {
		t.Fatalf("cause must unwrap: %v", err)
	}
	if !stderrors.Is(err, ErrCallbackFailed) {
		t.Fatalf("taxonomy sentinel must unwrap: %v", err)
	}
}
