package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/s4sachin/dynamic-form-builder/internal/client"
	"github.com/s4sachin/dynamic-form-builder/internal/config"
	"github.com/s4sachin/dynamic-form-builder/internal/repository"
	"github.com/s4sachin/dynamic-form-builder/internal/service"
)

// app wires the local services for one command invocation.
type app struct {
	forms *service.FormService
	subs  *service.SubmissionService
	store repository.SubmissionStore
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	store, err := repository.Open(ctx, cfg.DatabaseURL, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open submission store: %w", err)
	}
	forms := service.NewFormService(repository.NewSchemaSource(cfg.SchemaPath))
	return &app{
		forms: forms,
		subs:  service.NewSubmissionService(forms, store),
		store: store,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// exitCode returns exitUserError for rejected input (validation failures and
// 4xx API responses) and exitSysError for everything else.
func exitCode(err error) int {
	var verr *service.ValidationError
	var apiErr *client.APIError
	switch {
	case errors.As(err, &verr):
		return exitUserError
	case errors.As(err, &apiErr) && apiErr.Status < 500:
		return exitUserError
	default:
		return exitSysError
	}
}
