package server

import (
	"context"

	"ttx-service/internal/archive"
)

// Sweeper defines the minimal archive sweeper behavior needed by the server.
type Sweeper interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() archive.Status
}

// noopSweeper stands in when archiving is disabled.
type noopSweeper struct{}

func (noopSweeper) Start(context.Context)      {}
func (noopSweeper) Stop(context.Context) error { return nil }
func (noopSweeper) Status() archive.Status     { return archive.Status{} }
