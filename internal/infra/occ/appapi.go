package occ

import (
	"context"
	"errors"

	"visionatrix-exapp/internal/domain/model"
	"visionatrix-exapp/internal/domain/repository"
	"visionatrix-exapp/pkg/log"
	"visionatrix-exapp/pkg/metrics"
)

const (
	unregisterCommand = "app_api:app:unregister"
	registerCommand   = "app_api:app:register"
)

type appAPIRepository struct {
	runner repository.OCCRunner
}

var _ repository.AppAPIRepository = (*appAPIRepository)(nil)

// NewAppAPIRepository drives AppAPI registration through runner.
func NewAppAPIRepository(runner repository.OCCRunner) repository.AppAPIRepository {
	return &appAPIRepository{runner: runner}
}

func (r *appAPIRepository) Unregister(ctx context.Context, appID string) error {
	if appID == "" {
		return errors.New("app id is required")
	}
	return r.run(ctx, UnregisterArgs(appID))
}

func (r *appAPIRepository) Register(ctx context.Context, appID, daemon string, d *model.Descriptor) error {
	args, err := RegisterArgs(appID, daemon, d)
	if err != nil {
		return err
	}
	return r.run(ctx, args)
}

func (r *appAPIRepository) run(ctx context.Context, args []string) error {
	res, err := r.runner.Run(ctx, args...)
	metrics.OCCInvocationsTotal.WithLabelValues(args[0], metrics.Status(err)).Inc()
	if err != nil {
		return err
	}
	log.Debug("[OCC] done", "command", args[0], "output", res.Output)
	return nil
}

// UnregisterArgs are the occ arguments removing appID.
func UnregisterArgs(appID string) []string {
	return []string{unregisterCommand, appID, "--silent", "--force"}
}

// RegisterArgs are the occ arguments registering appID on daemon. With a nil
// descriptor AppAPI takes the metadata from the app store.
func RegisterArgs(appID, daemon string, d *model.Descriptor) ([]string, error) {
	if appID == "" || daemon == "" {
		return nil, errors.New("app id and daemon are required")
	}
	args := []string{registerCommand, appID, daemon}
	if d != nil {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		payload, err := d.JSON()
		if err != nil {
			return nil, err
		}
		args = append(args, "--json-info", payload)
	}
	return append(args, "--force-scopes", "--wait-finish"), nil
}
