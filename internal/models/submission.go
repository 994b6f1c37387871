package models

import "time"

// TimeLayout is the ISO 8601 layout used for submission timestamps.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

type Submission struct {
	ID        string         `json:"id"`
	FormID    string         `json:"formId"`
	Data      map[string]any `json:"data"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt"`
}

// CreatedTime parses CreatedAt. Unparsable values sort as the zero time.
func (s Submission) CreatedTime() time.Time {
	t, err := time.Parse(time.RFC3339Nano, s.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatTime renders t the way submission timestamps are stored.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

type CreateSubmissionPayload struct {
	FormID string         `json:"formId"`
	Data   map[string]any `json:"data"`
}

type CreateSubmissionResult struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"`
}

type PaginationMeta struct {
	Page            int  `json:"page"`
	Limit           int  `json:"limit"`
	Total           int  `json:"total"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// NewPaginationMeta derives the pagination block for one page of a query.
func NewPaginationMeta(page, limit, total int) PaginationMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return PaginationMeta{
		Page:            page,
		Limit:           limit,
		Total:           total,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

type SubmissionPage struct {
	Submissions []Submission   `json:"submissions"`
	Pagination  PaginationMeta `json:"pagination"`
}
