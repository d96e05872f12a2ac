package hubspot

import (
	"errors"
	"fmt"
)

// ErrConfigurationMissing is returned when required settings are absent,
// such as a pipeline id or name.
var ErrConfigurationMissing = errors.New("configuration missing")

// StatusError is a non-2xx response from the HubSpot API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("hubspot: unexpected status %d: %s", e.StatusCode, e.Body)
}

// PipelineNotFoundError reports that no fetched pipeline matched the hint.
type PipelineNotFoundError struct {
	ID   string
	Name string
}

func (e *PipelineNotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("hubspot: pipeline id %q not found", e.ID)
	}
	return fmt.Sprintf("hubspot: pipeline %q not found; set the pipeline id or fix the name", e.Name)
}

// CountFetchError reports that counting one stage failed. No partial total
// is returned alongside it.
type CountFetchError struct {
	StageID string
	Cause   error
}

func (e *CountFetchError) Error() string {
	return fmt.Sprintf("hubspot: count stage %s: %v", e.StageID, e.Cause)
}

func (e *CountFetchError) Unwrap() error {
	return e.Cause
}

// PageLimitError reports that a search kept returning cursors past the
// configured page bound.
type PageLimitError struct {
	StageID  string
	MaxPages int
}

func (e *PageLimitError) Error() string {
	return fmt.Sprintf("hubspot: stage %s exceeded %d search pages", e.StageID, e.MaxPages)
}
