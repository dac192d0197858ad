package market

import (
	"errors"
	"fmt"
)

var (
	ErrUpstreamStatus   = errors.New("unexpected upstream status")
	ErrChainUnavailable = errors.New("no chain reader configured")
	ErrNoHeadTag        = errors.New("no head tag found")
)

// MetadataStatusError is a non-2xx answer from the frame app
type MetadataStatusError struct {
	Status int
}

func (e *MetadataStatusError) Error() string {
	return fmt.Sprintf("frame app returned %d", e.Status)
}
