package protocol

const (
	// Protocol/transport validation.
	ErrBadRequest = "E_BAD_REQUEST"

	// Action resolution.
	ErrOutOfBounds   = "E_OUT_OF_BOUNDS"
	ErrNoResource    = "E_NO_RESOURCE"
	ErrNotFound      = "E_NOT_FOUND"
	ErrUnknownAction = "E_UNKNOWN_ACTION"

	ErrInternal = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrBadRequest:    {},
	ErrOutOfBounds:   {},
	ErrNoResource:    {},
	ErrNotFound:      {},
	ErrUnknownAction: {},
	ErrInternal:      {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
