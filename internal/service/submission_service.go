package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/s4sachin/dynamic-form-builder/internal/models"
	"github.com/s4sachin/dynamic-form-builder/internal/repository"
	"github.com/s4sachin/dynamic-form-builder/internal/validation"
)

// SubmissionIDPrefix starts every generated submission id.
const SubmissionIDPrefix = "sub_"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// SortOrder orders submissions by creation time.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListQuery is a validated request for one page of submissions.
type ListQuery struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder SortOrder
}

// ParseListQuery turns raw query values into a ListQuery. Empty values take
// their defaults.
func ParseListQuery(page, limit, sortBy, sortOrder string) (ListQuery, error) {
	q := ListQuery{Page: DefaultPage, Limit: DefaultLimit, SortBy: "createdAt", SortOrder: SortDesc}
	errs := validation.FieldErrors{}

	if page = strings.TrimSpace(page); page != "" {
		n, err := strconv.Atoi(page)
		switch {
		case err != nil:
			errs.Add("page", "Expected number")
		case n < 1:
			errs.Add("page", "Page must be at least 1")
		default:
			q.Page = n
		}
	}
	if limit = strings.TrimSpace(limit); limit != "" {
		n, err := strconv.Atoi(limit)
		switch {
		case err != nil:
			errs.Add("limit", "Expected number")
		case n < 1:
			errs.Add("limit", "Limit must be at least 1")
		case n > MaxLimit:
			errs.Add("limit", fmt.Sprintf("Limit must be at most %d", MaxLimit))
		default:
			q.Limit = n
		}
	}
	if sortBy = strings.TrimSpace(sortBy); sortBy != "" && sortBy != "createdAt" {
		errs.Add("sortBy", "Invalid sort field")
	}
	switch SortOrder(strings.TrimSpace(sortOrder)) {
	case "":
	case SortAsc:
		q.SortOrder = SortAsc
	case SortDesc:
		q.SortOrder = SortDesc
	default:
		errs.Add("sortOrder", "Sort order must be asc or desc")
	}

	if len(errs) > 0 {
		return ListQuery{}, &ValidationError{Fields: errs}
	}
	return q, nil
}

type validatorSource interface {
	Validator(ctx context.Context) (*validation.FormValidator, error)
}

// SubmissionService validates, stores and pages form submissions.
type SubmissionService struct {
	forms validatorSource
	store repository.SubmissionStore

	now   func() time.Time
	newID func() string
}

func NewSubmissionService(forms validatorSource, store repository.SubmissionStore) *SubmissionService {
	return &SubmissionService{
		forms: forms,
		store: store,
		now:   time.Now,
		newID: func() string { return SubmissionIDPrefix + uuid.NewString() },
	}
}

// Create validates payload against the form schema and stores it. Nothing
// is persisted when validation fails.
func (s *SubmissionService) Create(ctx context.Context, payload models.CreateSubmissionPayload) (*models.CreateSubmissionResult, error) {
	v, err := s.forms.Validator(ctx)
	if err != nil {
		return nil, err
	}

	res := v.Validate(payload.Data)
	errs := res.Errors
	if strings.TrimSpace(payload.FormID) == "" {
		if errs == nil {
			errs = validation.FieldErrors{}
		}
		errs.Add("formId", "formId is required")
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	now := models.FormatTime(s.now())
	sub := models.Submission{
		ID:        s.newID(),
		FormID:    payload.FormID,
		Data:      res.Data,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Append(ctx, sub); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	slog.Info("submission created", "id", sub.ID, "formId", sub.FormID)
	return &models.CreateSubmissionResult{ID: sub.ID, CreatedAt: sub.CreatedAt}, nil
}

// List returns one page of submissions ordered by creation time. Records
// with equal timestamps keep their store order.
func (s *SubmissionService) List(ctx context.Context, page, limit int, order SortOrder) (*models.SubmissionPage, error) {
	if page < 1 {
		return nil, newValidationError("page", "Page must be at least 1")
	}
	if limit < 1 || limit > MaxLimit {
		return nil, newValidationError("limit", fmt.Sprintf("Limit must be between 1 and %d", MaxLimit))
	}

	all, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	slices.SortStableFunc(all, func(a, b models.Submission) int {
		c := a.CreatedTime().Compare(b.CreatedTime())
		if order == SortAsc {
			return c
		}
		return -c
	})

	meta := models.NewPaginationMeta(page, limit, len(all))
	items := []models.Submission{}
	if page <= meta.TotalPages {
		start := (page - 1) * limit
		items = all[start:min(start+limit, len(all))]
	}
	return &models.SubmissionPage{Submissions: items, Pagination: meta}, nil
}
