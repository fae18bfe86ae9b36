package stegoerr

import (
	"errors"
	"testing"
)

func TestExitCodes(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{ArgError, 2},
		{RuntimeError, 3},
		{IOError, 4},
		{IntegrityError, 5},
	}
	for _, tc := range cases {
		if got := tc.kind.ExitCode(); got != tc.want {
			t.Errorf("%s.ExitCode() = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestExitCodeUntypedErrorFallsBackToRuntime(t *testing.T) {
	if got := ExitCode(errors.New("boom")); got != 3 {
		t.Errorf("ExitCode(untyped) = %d, want 3", got)
	}
	if got := ExitCode(nil); got != 0 {
		t.Errorf("ExitCode(nil) = %d, want 0", got)
	}
}

func TestIsPredicates(t *testing.T) {
	err := Integrity("marker not found")
	if !IsIntegrity(err) {
		t.Errorf("IsIntegrity(%v) = false, want true", err)
	}
	if IsArg(err) || IsIO(err) || IsRuntime(err) {
		t.Errorf("unexpected Is* match for %v", err)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("tag mismatch")
	err := IntegrityWrap(cause, "aead open failed")
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is did not find wrapped cause")
	}
}

func TestCapacityError(t *testing.T) {
	err := CapacityError(1024, 512)
	if !IsRuntime(err) {
		t.Fatalf("CapacityError should be a RuntimeError")
	}
	var nec *NotEnoughCapacity
	if !errors.As(err, &nec) {
		t.Fatalf("errors.As did not unwrap to *NotEnoughCapacity")
	}
	if nec.Required != 1024 || nec.Available != 512 {
		t.Errorf("unexpected NotEnoughCapacity fields: %+v", nec)
	}
}
