package domain

import (
	"errors"
	"time"

	"stillhouse/entities"
)

const LogPageSize = 10

var (
	MessageSuccessGetLogs = "logs retrieved successfully"
	MessageFailedGetLogs  = "failed to retrieve logs"

	ErrInvalidPage = errors.New("page must be a positive integer")
)

type (
	LogEntry struct {
		Kind         string                    `json:"kind"`
		Date         string                    `json:"date"`
		Timestamp    time.Time                 `json:"timestamp"`
		Distillation *entities.DistillationLog `json:"distillation,omitempty"`
		Bottling     *entities.BottlingLog     `json:"bottling,omitempty"`
	}

	LogPage struct {
		Entries    []LogEntry `json:"entries"`
		Page       int        `json:"page"`
		PageSize   int        `json:"page_size"`
		Total      int        `json:"total"`
		TotalPages int        `json:"total_pages"`
	}
)
