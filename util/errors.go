package util

type Error struct {
	Message string
}

func (err *Error) Error() string {
	return err.Message
}

var (
	ErrUnavailable       = &Error{Message: "this content is unavailable"}
	ErrTimeout           = &Error{Message: "timeout error when fetching. try again"}
	ErrUnsupportedURL    = &Error{Message: "no extractor matches this url"}
	ErrExtractorDisabled = &Error{Message: "this extractor is disabled on this instance"}
	ErrTooManyRedirects  = &Error{Message: "exceeded maximum number of redirects"}
)
