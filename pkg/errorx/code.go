package errorx

import "net/http"

type Code int

var Unknown = Error{Code: Internal, Message: "Request failed"}

const (
	// Common codes
	BadRequest       Code = 100001
	BadResponse      Code = 100002
	PermissionDenied Code = 100003
	NotFound         Code = 100004
	Unauthenticated  Code = 100005
	AlreadyExists    Code = 100006
	Internal         Code = 100007
	Unavailable      Code = 100008
	NotImplemented   Code = 100009
	TooManyRequests  Code = 100010
	BadGateway       Code = 100011

	// Session codes
	TokenExpired Code = 200002

	// Mission codes
	AlreadyCheckedIn   Code = 300001
	ThresholdNotMet    Code = 300002
	VerificationFailed Code = 300003
)

// HTTPStatus maps an error code to the status written by the router.
func (c Code) HTTPStatus() int {
	switch c {
	case BadRequest, AlreadyCheckedIn, ThresholdNotMet, VerificationFailed:
		return http.StatusBadRequest
	case Unauthenticated, TokenExpired:
		return http.StatusUnauthorized
	case PermissionDenied:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case AlreadyExists:
		return http.StatusConflict
	case TooManyRequests:
		return http.StatusTooManyRequests
	case Unavailable:
		return http.StatusServiceUnavailable
	case BadGateway, BadResponse:
		return http.StatusBadGateway
	case NotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
