package domain

import (
	"errors"
)

const (
	RoleUser = "user"

	DefaultPage  = 1
	DefaultLimit = 20
)

var (
	MessageUnauthorized      = "unauthorized"
	MessageFailedBodyRequest = "failed to parse request body"

	ErrParseUUID = errors.New("failed to parse UUID")
)

type PaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func NewPaginationResponse(page, limit int, total int64) PaginationResponse {
	return PaginationResponse{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}
}
