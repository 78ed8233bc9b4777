package xerr

const (
	SERVER_COMMON_ERROR = 100001
	REQUEST_PARAM_ERROR = 100002
	DB_ERROR            = 100004

	ErrInternalServer = 500 // HTTP 500

	ErrBadRequest       = 400 // HTTP 400
	ErrInvalidInput     = 400
	ErrMissingParameter = 400

	ErrUnauthenticated = 401 // HTTP 401

	ErrNotFound = 404 // HTTP 404
)
