// internal/core/usecases/target_task.go
package usecases

import (
	"context"

	"hermesx/internal/core/domain"
)

// enrichTask adapts one record's pipeline to workerpool.Task.
type enrichTask struct {
	enricher *Enricher
	business *domain.Business
	batch    int
}

func (t *enrichTask) Name() string {
	if t.business.Name != "" {
		return t.business.Name
	}
	return t.business.Website
}

func (t *enrichTask) Execute(ctx context.Context) error {
	t.enricher.processOne(ctx, t.business)
	t.enricher.progress(t.batch)
	return nil
}
