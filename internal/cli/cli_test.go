package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s4sachin/dynamic-form-builder/internal/client"
	"github.com/s4sachin/dynamic-form-builder/internal/config"
	"github.com/s4sachin/dynamic-form-builder/internal/models"
	"github.com/s4sachin/dynamic-form-builder/internal/service"
	"github.com/s4sachin/dynamic-form-builder/internal/tui"
)

var configEnv = []string{
	"APP_STAGE", "PORT", "CORS_ORIGIN", "LOG_LEVEL", "DATA_DIR", "DATABASE_URL",
	"SCHEMA_PATH", "GELF_ADDR", "ENABLE_ADMIN", "RATE_LIMIT_REDIS_ADDR",
	"RATE_LIMIT_REDIS_PASSWORD", "RATE_LIMIT_PER_MINUTE",
}

// isolate runs the test in an empty directory with a file store under it.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, k := range configEnv {
		t.Setenv(k, "")
	}
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DATA_DIR", filepath.Join(dir, "data"))
	return dir
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "formbuilder dev\n", out)
}

func TestSchemaOutputs(t *testing.T) {
	isolate(t)

	out, _, err := run(t, "", "schema")
	require.NoError(t, err)
	var schema models.FormSchema
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, "employee-onboarding", schema.ID)

	out, _, err = run(t, "", "schema", "--output", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "id: employee-onboarding")
	assert.Contains(t, out, "name: firstName")

	_, _, err = run(t, "", "schema", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestSchemaFromConfiguredPath(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "form.yaml", `
id: feedback
title: Feedback
description: Tell us
fields:
  - id: f1
    name: comment
    type: textarea
    label: Comment
    required: true
`)
	t.Setenv("SCHEMA_PATH", path)

	out, _, err := run(t, "", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "feedback"`)
}

func TestOpenAPI(t *testing.T) {
	isolate(t)

	out, _, err := run(t, "", "openapi")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
	assert.Contains(t, doc["paths"], "/api/submissions")
}

func TestSubmitAndList(t *testing.T) {
	dir := isolate(t)
	file := writeFile(t, dir, "sub.json", `{
		"firstName": "Ada",
		"department": "engineering",
		"startDate": "2025-02-01",
		"remote": true
	}`)

	out, _, err := run(t, "", "submit", "--file", file)
	require.NoError(t, err)
	var res models.CreateSubmissionResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, strings.HasPrefix(res.ID, service.SubmissionIDPrefix))

	// Second submission from stdin with an explicit form id.
	_, _, err = run(t, `{"firstName":"Grace","department":"design","startDate":"2025-03-01"}`,
		"submit", "-f", "-", "--form-id", "custom-form")
	require.NoError(t, err)

	out, _, err = run(t, "", "submissions", "--sort", "asc", "--limit", "1")
	require.NoError(t, err)
	var page models.SubmissionPage
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Len(t, page.Submissions, 1)
	assert.Equal(t, res.ID, page.Submissions[0].ID)
	assert.Equal(t, "employee-onboarding", page.Submissions[0].FormID)
	assert.Equal(t, 2, page.Pagination.Total)
	assert.True(t, page.Pagination.HasNextPage)

	out, _, err = run(t, "", "submissions", "--page", "2", "--limit", "1", "--sort", "asc")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Len(t, page.Submissions, 1)
	assert.Equal(t, "custom-form", page.Submissions[0].FormID)
}

func TestSubmitRejectsInvalidData(t *testing.T) {
	dir := isolate(t)
	file := writeFile(t, dir, "sub.json", `{"firstName": "A", "startDate": "2025-02-01"}`)

	_, stderr, err := run(t, "", "submit", "--file", file)
	require.Error(t, err)
	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, exitUserError, exitCode(err))
	assert.Contains(t, stderr, "department: department is required")
	assert.Contains(t, stderr, "firstName: Minimum 2 characters")

	out, _, err := run(t, "", "submissions")
	require.NoError(t, err)
	assert.Contains(t, out, `"total": 0`)
}

func TestSubmitBadFile(t *testing.T) {
	dir := isolate(t)

	_, _, err := run(t, "", "submit")
	require.Error(t, err)

	_, _, err = run(t, "", "submit", "--file", filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open submission file")

	_, _, err = run(t, "[1,2]", "submit", "--file", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode submission file")

	_, _, err = run(t, "null", "submit", "--file", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must contain a JSON object")
}

func TestSubmissionsRejectsBadQuery(t *testing.T) {
	isolate(t)

	_, stderr, err := run(t, "", "submissions", "--limit", "500", "--sort", "sideways")
	require.Error(t, err)
	assert.Contains(t, stderr, "limit: Limit must be at most 100")
	assert.Contains(t, stderr, "sortOrder: Sort order must be asc or desc")
}

func TestInvalidConfig(t *testing.T) {
	isolate(t)
	t.Setenv("APP_STAGE", "staging")

	_, _, err := run(t, "", "schema")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app_stage")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &service.ValidationError{Fields: map[string][]string{"a": {"bad"}}}, exitUserError},
		{"wrapped validation", fmt.Errorf("submit: %w", &service.ValidationError{}), exitUserError},
		{"api 400", &client.APIError{Status: http.StatusBadRequest, Message: "Validation failed"}, exitUserError},
		{"api 429", &client.APIError{Status: http.StatusTooManyRequests}, exitUserError},
		{"api 500", &client.APIError{Status: http.StatusInternalServerError}, exitSysError},
		{"storage", fmt.Errorf("%w: disk full", service.ErrStorage), exitSysError},
		{"schema", fmt.Errorf("%w: bad json", service.ErrSchemaUnavailable), exitSysError},
		{"open store", fmt.Errorf("open submission store: %w", errors.New("connection refused")), exitSysError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestUnreachableStoreIsSystemError(t *testing.T) {
	isolate(t)
	t.Setenv("DATABASE_URL", "redis://127.0.0.1:1")

	_, _, err := run(t, "", "submissions")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open submission store")
	assert.Equal(t, exitSysError, exitCode(err))
}

type scriptedDriver struct {
	inputs  []string
	selects []int
	multi   [][]int
	text    []string
	confirm []bool
	aborted bool
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	if d.aborted {
		return "", tui.ErrAborted
	}
	v := d.inputs[0]
	d.inputs = d.inputs[1:]
	return v, nil
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	v := d.confirm[0]
	d.confirm = d.confirm[1:]
	return v, nil
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	v := d.selects[0]
	d.selects = d.selects[1:]
	return v, nil
}

func (d *scriptedDriver) MultiSelect(context.Context, tui.SelectConfig) ([]int, error) {
	v := d.multi[0]
	d.multi = d.multi[1:]
	return v, nil
}

func (d *scriptedDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	v := d.text[0]
	d.text = d.text[1:]
	return v, nil
}

func (d *scriptedDriver) Info(context.Context, string) error { return nil }

func useDriver(t *testing.T, d *scriptedDriver) {
	t.Helper()
	prev := newPromptDriver
	newPromptDriver = func() tui.PromptDriver { return d }
	t.Cleanup(func() { newPromptDriver = prev })
}

func onboardingAnswers() *scriptedDriver {
	return &scriptedDriver{
		// firstName, lastName, email, age, startDate
		inputs:  []string{"Ada", "", "", "36", "2025-02-01"},
		selects: []int{0},
		multi:   [][]int{{0, 2}},
		text:    []string{""},
		confirm: []bool{true},
	}
}

func TestFillDryRun(t *testing.T) {
	isolate(t)
	useDriver(t, onboardingAnswers())

	out, _, err := run(t, "", "fill", "--dry-run")
	require.NoError(t, err)
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	assert.Equal(t, "Ada", data["firstName"])
	assert.Equal(t, "engineering", data["department"])
	assert.Equal(t, []any{"go", "sql"}, data["skills"])
	assert.EqualValues(t, 36, data["age"])
	assert.Equal(t, true, data["remote"])
}

func TestFillSubmits(t *testing.T) {
	isolate(t)
	useDriver(t, onboardingAnswers())

	out, _, err := run(t, "", "fill")
	require.NoError(t, err)
	assert.Contains(t, out, service.SubmissionIDPrefix)

	out, _, err = run(t, "", "submissions")
	require.NoError(t, err)
	assert.Contains(t, out, `"total": 1`)
}

func TestFillAborted(t *testing.T) {
	isolate(t)
	useDriver(t, &scriptedDriver{aborted: true})

	_, stderr, err := run(t, "", "fill")
	require.NoError(t, err)
	assert.Contains(t, stderr, "aborted")
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestServeAndRemoteCommands(t *testing.T) {
	dir := isolate(t)
	port := freePort(t)
	t.Setenv("PORT", strconv.Itoa(port))
	t.Setenv("DATABASE_URL", "memory://")

	cfg, err := config.Load("")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, cfg) }()

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/api/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	out, _, err := run(t, "", "--server", base, "schema")
	require.NoError(t, err)
	assert.Contains(t, out, "employee-onboarding")

	file := writeFile(t, dir, "sub.json", `{"firstName":"Ada","department":"sales","startDate":"2025-02-01"}`)
	_, _, err = run(t, "", "--server", base, "submit", "--file", file)
	require.NoError(t, err)

	bad := writeFile(t, dir, "bad.json", `{"firstName":"Ada"}`)
	_, stderr, err := run(t, "", "--server", base, "submit", "--file", bad)
	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))
	assert.Contains(t, stderr, "department")

	out, _, err = run(t, "", "--server", base, "submissions")
	require.NoError(t, err)
	assert.Contains(t, out, `"total": 1`)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
