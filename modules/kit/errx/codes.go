package errx

// System error codes shared by every service.
//
// Only system/technical codes live here so alerting and cross service
// debugging can rely on them. Business domain codes (e.g. WORLD_NOT_OWNER)
// must be defined by the owning business area, never centralized in kit.

const (
	// CodeInternal is the fallback for unexpected internal errors.
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable covers unavailable dependencies (DB, downstream, network).
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout covers request or dependency call timeouts.
	CodeTimeout Code = "TIMEOUT"
	// CodeRateLimited covers throttling and overload protection.
	CodeRateLimited Code = "RATE_LIMITED"
	// CodeMaintenance is returned while the service is down for maintenance.
	CodeMaintenance Code = "MAINTENANCE"
	// CodeReqParamError covers malformed request parameters.
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
)

// Shared system sentinel errors. WithData/WithCause derive new values.
var (
	ErrInternal    = NewSys(CodeInternal, "internal server error")
	ErrUnavailable = NewSys(CodeUnavailable, "service unavailable")
	ErrTimeout     = NewSys(CodeTimeout, "request timed out")
	ErrRateLimited = NewSys(CodeRateLimited, "too many requests")
	ErrMaintenance = NewSys(CodeMaintenance, "service under maintenance")
	ErrReqParamERR = NewSys(CodeReqParamError, "invalid request parameter")
)
