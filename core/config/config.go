// Package config defines the job descriptor contract and its validation.
package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Job is the descriptor a caller submits to run the pipeline once.
type Job struct {
	JobName           string         `json:"job_name" validate:"required"`
	Environment       string         `json:"environment" validate:"omitempty,oneof=dev staging prod"`
	SourceType        string         `json:"source_type" validate:"required"`
	SourceURL         string         `json:"source_url" validate:"required,url"`
	SourceParams      map[string]any `json:"source_params"`
	DestinationBucket string         `json:"destination_bucket" validate:"required"`
	DestinationPath   string         `json:"destination_path" validate:"required"`
	ExecutionDate     string         `json:"execution_date" validate:"omitempty,datetime=2006-01-02"`
}

// ValidationError marks a job descriptor that failed the contract. It is
// always fatal before any I/O happens.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid job: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Parse decodes a job descriptor from JSON, applies defaults and validates
// it.
func Parse(data []byte) (Job, error) {
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return Job{}, &ValidationError{Err: fmt.Errorf("decoding job JSON: %w", err)}
	}
	if err := job.Validate(); err != nil {
		return Job{}, err
	}
	return job, nil
}

// Validate normalizes the job in place and checks the contract: job_name is
// lower-cased and must carry no whitespace, environment defaults to dev,
// execution_date defaults to the current UTC date.
func (j *Job) Validate() error {
	j.JobName = strings.ToLower(j.JobName)
	if strings.IndexFunc(j.JobName, unicode.IsSpace) >= 0 {
		return &ValidationError{Err: fmt.Errorf("job_name %q must not contain whitespace", j.JobName)}
	}
	if j.Environment == "" {
		j.Environment = "dev"
	}
	if j.ExecutionDate == "" {
		j.ExecutionDate = time.Now().UTC().Format("2006-01-02")
	}
	if err := validate.Struct(j); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// ParamString reads a string parameter from source_params.
func (j *Job) ParamString(key string) string {
	if s, ok := j.SourceParams[key].(string); ok {
		return s
	}
	return ""
}

// ParamInt reads an integer parameter from source_params. JSON numbers
// decode as float64, so both forms are accepted.
func (j *Job) ParamInt(key string) int {
	switch v := j.SourceParams[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// DatasetName returns the mandatory stable dataset name parameter, or ""
// when absent.
func (j *Job) DatasetName() string {
	return j.ParamString("dataset_name")
}

// MaxFiles returns the candidate cap, 0 meaning unlimited.
func (j *Job) MaxFiles() int {
	return j.ParamInt("max_files")
}

// CaptureDate is the partition date for this run, taken from the execution
// date so re-runs on the same date stay idempotent on storage keys.
func (j *Job) CaptureDate() time.Time {
	t, err := time.Parse("2006-01-02", j.ExecutionDate)
	if err != nil {
		return time.Now().UTC()
	}
	return t
}
