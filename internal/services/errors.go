package services

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat   = errors.New("unsupported file format")
	ErrDecode              = errors.New("failed to decode text")
	ErrLabelLengthMismatch = errors.New("ground truth length does not match batch size")
	ErrInvalidLabel        = errors.New("ground truth labels must be 0 or 1")
	ErrNoSkills            = errors.New("candidate has no matched skills")
	ErrQueueFull           = errors.New("job queue is full")
	ErrIndexDisabled       = errors.New("candidate index is not configured")
)

// ServiceError marks a failure of the generation backend, as opposed to a
// failure to interpret its reply.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("generation service %s failed: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}
