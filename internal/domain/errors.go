package domain

import "errors"

var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidPayload   = errors.New("invalid document payload")
	ErrEscalationFailed = errors.New("escalation to external validator failed")
	ErrExportFailed     = errors.New("export generation failed")
	ErrUploadFailed     = errors.New("artifact upload to storage failed")
)
