package domain

import "errors"

const (
	FieldTypeString  = "string"
	FieldTypeNumber  = "number"
	FieldTypeBoolean = "boolean"
)

var (
	MessageSuccessDictation = "form fields updated from dictation"
	MessageFailedDictation  = "could not understand the dictation, please try again or fill the form manually"

	ErrDictationFailed      = errors.New("dictation could not be parsed")
	ErrDictationUnavailable = errors.New("dictation service is not configured")
	ErrUnknownDictationKind = errors.New("dictation kind must be distillation or bottling")
	ErrEmptyCompletion      = errors.New("empty completion")
)

type (
	DictationField struct {
		Name        string
		Type        string
		Description string
	}

	DictationRequest struct {
		Transcript string         `json:"transcript" validate:"required"`
		Current    map[string]any `json:"current"`
	}

	DictationResponse struct {
		Kind     string         `json:"kind"`
		Fields   map[string]any `json:"fields"`
		Updated  []string       `json:"updated"`
		Attempts int            `json:"attempts"`
	}
)
