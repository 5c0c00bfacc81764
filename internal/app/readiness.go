package app

import (
	"context"
	"fmt"
)

// Pinger is the minimal interface for a dependency capable of Ping.
type Pinger interface{ Ping(ctx context.Context) error }

// BuildReadinessChecks returns the db and redis readiness checks. redis may
// be nil when cross-replica invalidation is not configured; its check then
// reports not-configured and the router omits it.
func BuildReadinessChecks(pool, redis Pinger) (
	func(ctx context.Context) error,
	func(ctx context.Context) error,
) {
	dbCheck := func(ctx context.Context) error {
		if pool == nil {
			return fmt.Errorf("db not configured")
		}
		return pool.Ping(ctx)
	}
	var redisCheck func(ctx context.Context) error
	if redis != nil {
		redisCheck = func(ctx context.Context) error {
			return redis.Ping(ctx)
		}
	}
	return dbCheck, redisCheck
}
