package httpapi

import (
	"context"
	"sync/atomic"
	"time"

	"vocab-engine/internal/config"
	"vocab-engine/internal/events"
	"vocab-engine/internal/store"
	"vocab-engine/internal/workflow"
)

type Deps struct {
	DB  *store.DB
	Hub *events.Hub

	// CfgVal stores config.Config; handlers always read the latest copy.
	CfgVal *atomic.Value

	// Overlay persistence
	OverlayPath string
	LoadCfg     func() (config.Config, error)

	// RunSend performs one send cycle with the given config.
	RunSend func(ctx context.Context, cfg config.Config, dryRun bool) (workflow.Result, error)

	// NextRun reports the next scheduled run; nil when no scheduler runs.
	NextRun func() time.Time

	Sessions *SessionStore
}
