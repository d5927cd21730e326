package protocol

import "testing"

func TestIsKnownCode(t *testing.T) {
	for _, code := range []string{
		ErrBadRequest,
		ErrOutOfBounds,
		ErrNoResource,
		ErrNotFound,
		ErrUnknownAction,
		ErrInternal,
		"",
	} {
		if !IsKnownCode(code) {
			t.Fatalf("IsKnownCode(%q)=false", code)
		}
	}
	if IsKnownCode("E_MADE_UP") {
		t.Fatalf("unknown code accepted")
	}
}
