package store

import "context"

// HealthPinger is implemented by store drivers that can report connectivity.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}
