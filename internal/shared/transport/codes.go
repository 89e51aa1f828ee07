package transport

// Wire level result codes shared by the WS and HTTP surfaces.
const (
	OK             = 0
	InvalidParam   = 1
	SessionInvalid = 2
	NotFound       = 3
	Rejected       = 4
	SystemError    = 500
)
