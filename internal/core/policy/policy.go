package policy

import (
	"context"

	"infa-monitor/internal/core/notify"
)

type Policy interface {
	Evaluate(ctx context.Context, event notify.Event) (*notify.Event, error)
}
