package typefetch

import "fmt"

// ClientError is returned for the two request failure modes: the transport
// call itself failed, or the response status did not match the expected one.
// ResponseStatus and ResponseBody are set only on a status mismatch; the
// wrapped cause is set only on a transport failure.
type ClientError struct {
	Message        string
	ResponseStatus int
	ResponseBody   any

	cause error
}

func (e *ClientError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// Unwrap exposes the transport error, when any, to errors.Is and errors.As.
func (e *ClientError) Unwrap() error {
	return e.cause
}

func newTransportError(err error) *ClientError {
	return &ClientError{
		Message: "fail to execute request : " + err.Error(),
		cause:   err,
	}
}

func newStatusError(expected int, uri string, status int, body any) *ClientError {
	return &ClientError{
		Message:        fmt.Sprintf("expecting status <%d> calling <%s>, got <%d>", expected, uri, status),
		ResponseStatus: status,
		ResponseBody:   body,
	}
}
