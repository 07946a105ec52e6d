package conversation

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySubmission is returned when a submission has neither text nor a file.
	ErrEmptySubmission = errors.New("message text is empty and no file is attached")
	// ErrSubmissionPending is returned while another submission is in flight.
	ErrSubmissionPending = errors.New("a submission is already pending")
)

// UploadError reports a failed file upload. The submission is aborted and
// nothing is appended to the log.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload file: %v", e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// QueryError reports a failed agent query. It is masked by the fallback reply.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query agent: %v", e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
