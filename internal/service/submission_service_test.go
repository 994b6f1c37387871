package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s4sachin/dynamic-form-builder/internal/models"
	"github.com/s4sachin/dynamic-form-builder/internal/repository"
)

var idPattern = regexp.MustCompile(`^sub_[0-9a-f-]{36}$`)

func newTestSubmissionService(t *testing.T, store repository.SubmissionStore) *SubmissionService {
	t.Helper()
	forms := NewFormService(&countingSource{schema: testSchema()})
	return NewSubmissionService(forms, store)
}

func validPayload() models.CreateSubmissionPayload {
	return models.CreateSubmissionPayload{
		FormID: "f1",
		Data:   map[string]any{"firstName": "Ada", "department": "eng", "switchField": true},
	}
}

type failingStore struct{ repository.SubmissionStore }

func (failingStore) Append(context.Context, models.Submission) error {
	return errors.New("disk full")
}

func (failingStore) ReadAll(context.Context) ([]models.Submission, error) {
	return nil, errors.New("disk gone")
}

func TestCreateThenList(t *testing.T) {
	ctx := context.Background()
	svc := newTestSubmissionService(t, repository.NewMemoryStore())

	res, err := svc.Create(ctx, validPayload())
	require.NoError(t, err)
	assert.Regexp(t, idPattern, res.ID)

	page, err := svc.List(ctx, 1, 1, SortDesc)
	require.NoError(t, err)
	require.Len(t, page.Submissions, 1)
	sub := page.Submissions[0]
	assert.Equal(t, res.ID, sub.ID)
	assert.Equal(t, res.CreatedAt, sub.CreatedAt)
	assert.Equal(t, sub.CreatedAt, sub.UpdatedAt)
	assert.Equal(t, "f1", sub.FormID)
}

func TestCreateRejectsInvalidPayload(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := newTestSubmissionService(t, store)

	_, err := svc.Create(ctx, models.CreateSubmissionPayload{
		FormID: "",
		Data:   map[string]any{"switchField": "yes"},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"firstName is required"}, verr.Fields["firstName"])
	assert.Equal(t, []string{"department is required"}, verr.Fields["department"])
	assert.Equal(t, []string{"Expected boolean"}, verr.Fields["switchField"])
	assert.Equal(t, []string{"formId is required"}, verr.Fields["formId"])

	subs, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestCreateStripsUnknownKeys(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := newTestSubmissionService(t, store)

	p := validPayload()
	p.Data["extra"] = "ignored"
	_, err := svc.Create(ctx, p)
	require.NoError(t, err)

	subs, err := store.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.NotContains(t, subs[0].Data, "extra")
}

func TestCreateStorageFailure(t *testing.T) {
	svc := newTestSubmissionService(t, failingStore{})
	_, err := svc.Create(context.Background(), validPayload())
	require.ErrorIs(t, err, ErrStorage)

	_, err = svc.List(context.Background(), 1, 10, SortDesc)
	require.ErrorIs(t, err, ErrStorage)
}

func TestCreateSchemaUnavailable(t *testing.T) {
	forms := NewFormService(&countingSource{err: errors.New("missing")})
	svc := NewSubmissionService(forms, repository.NewMemoryStore())
	_, err := svc.Create(context.Background(), validPayload())
	require.ErrorIs(t, err, ErrSchemaUnavailable)
}

func TestCreateUsesClock(t *testing.T) {
	svc := newTestSubmissionService(t, repository.NewMemoryStore())
	svc.now = func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 891_000_000, time.FixedZone("x", 3600)) }

	res, err := svc.Create(context.Background(), validPayload())
	require.NoError(t, err)
	assert.Equal(t, "2025-03-04T04:06:07.891Z", res.CreatedAt)
}

func seedSubmissions(t *testing.T, store repository.SubmissionStore, n int) {
	t.Helper()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		ts := models.FormatTime(base.Add(time.Duration(i) * time.Minute))
		require.NoError(t, store.Append(context.Background(), models.Submission{
			ID: fmt.Sprintf("sub_%02d", i), FormID: "f1", Data: map[string]any{},
			CreatedAt: ts, UpdatedAt: ts,
		}))
	}
}

func TestListPaginates(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	seedSubmissions(t, store, 25)
	svc := newTestSubmissionService(t, store)

	for _, tc := range []struct {
		page    int
		size    int
		hasNext bool
		hasPrev bool
	}{
		{page: 1, size: 10, hasNext: true, hasPrev: false},
		{page: 2, size: 10, hasNext: true, hasPrev: true},
		{page: 3, size: 5, hasNext: false, hasPrev: true},
		{page: 4, size: 0, hasNext: false, hasPrev: true},
	} {
		t.Run(fmt.Sprintf("page %d", tc.page), func(t *testing.T) {
			got, err := svc.List(ctx, tc.page, 10, SortDesc)
			require.NoError(t, err)
			assert.Len(t, got.Submissions, tc.size)
			assert.NotNil(t, got.Submissions)
			assert.Equal(t, 25, got.Pagination.Total)
			assert.Equal(t, 3, got.Pagination.TotalPages)
			assert.Equal(t, tc.hasNext, got.Pagination.HasNextPage)
			assert.Equal(t, tc.hasPrev, got.Pagination.HasPreviousPage)
		})
	}
}

func TestListOrdering(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	seedSubmissions(t, store, 3)
	tie := models.Submission{ID: "sub_tie", FormID: "f1", Data: map[string]any{},
		CreatedAt: "2025-01-01T00:01:00.000Z", UpdatedAt: "2025-01-01T00:01:00.000Z"}
	require.NoError(t, store.Append(ctx, tie))
	svc := newTestSubmissionService(t, store)

	ids := func(p *models.SubmissionPage) []string {
		out := make([]string, 0, len(p.Submissions))
		for _, s := range p.Submissions {
			out = append(out, s.ID)
		}
		return out
	}

	asc, err := svc.List(ctx, 1, 10, SortAsc)
	require.NoError(t, err)
	assert.Equal(t, []string{"sub_00", "sub_01", "sub_tie", "sub_02"}, ids(asc))

	desc, err := svc.List(ctx, 1, 10, SortDesc)
	require.NoError(t, err)
	assert.Equal(t, []string{"sub_02", "sub_01", "sub_tie", "sub_00"}, ids(desc))
}

func TestListRejectsBadBounds(t *testing.T) {
	svc := newTestSubmissionService(t, repository.NewMemoryStore())
	var verr *ValidationError
	_, err := svc.List(context.Background(), 0, 10, SortDesc)
	require.ErrorAs(t, err, &verr)
	_, err = svc.List(context.Background(), 1, 101, SortDesc)
	require.ErrorAs(t, err, &verr)
}

func TestParseListQuery(t *testing.T) {
	q, err := ParseListQuery("", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, ListQuery{Page: 1, Limit: 10, SortBy: "createdAt", SortOrder: SortDesc}, q)

	q, err = ParseListQuery("3", "25", "createdAt", "asc")
	require.NoError(t, err)
	assert.Equal(t, ListQuery{Page: 3, Limit: 25, SortBy: "createdAt", SortOrder: SortAsc}, q)

	for _, tc := range []struct {
		name                         string
		page, limit, sortBy, sortOrd string
		field                        string
	}{
		{name: "page not a number", page: "abc", field: "page"},
		{name: "page zero", page: "0", field: "page"},
		{name: "limit zero", limit: "0", field: "limit"},
		{name: "limit too large", limit: "101", field: "limit"},
		{name: "bad sort field", sortBy: "name", field: "sortBy"},
		{name: "bad sort order", sortOrd: "sideways", field: "sortOrder"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseListQuery(tc.page, tc.limit, tc.sortBy, tc.sortOrd)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Fields[tc.field])
		})
	}
}
