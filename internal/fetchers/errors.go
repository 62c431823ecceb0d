package fetchers

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable matches any failure to obtain the dataset document
	ErrDataUnavailable = errors.New("dataset unavailable")
	// ErrMalformedDataset matches a document that was fetched but could not be parsed
	ErrMalformedDataset = errors.New("malformed dataset")
)

// DataUnavailableError reports a transport failure or a non-success status
type DataUnavailableError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *DataUnavailableError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("dataset %s unavailable: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("dataset %s unavailable: %v", e.URL, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

func (e *DataUnavailableError) Is(target error) bool { return target == ErrDataUnavailable }

// MalformedDatasetError reports a document that is not a valid dataset
type MalformedDatasetError struct {
	URL string
	Err error
}

func (e *MalformedDatasetError) Error() string {
	return fmt.Sprintf("dataset %s is malformed: %v", e.URL, e.Err)
}

func (e *MalformedDatasetError) Unwrap() error { return e.Err }

func (e *MalformedDatasetError) Is(target error) bool { return target == ErrMalformedDataset }
