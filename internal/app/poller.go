package app

import (
	"context"
	"time"

	"github.com/five82/liftoff/internal/favorites"
)

const (
	defaultListingInterval = 5 * time.Minute
	listingRetryBase       = 2 * time.Second
	maxBackoff             = 30 * time.Second
)

// StartSync forwards favorites writes made by other processes to
// Favorites.Sync until the App closes. It returns immediately.
func (a *App) StartSync() error {
	changes, err := a.KV.Watch(a.ctx)
	if err != nil {
		return err
	}
	a.goBackground(func(ctx context.Context) {
		for key := range changes {
			if key != favorites.Key {
				continue
			}
			a.Favorites.Sync(ctx)
		}
	})
	return nil
}

// StartListingRefresher keeps Listing in step with the favorite set. It
// refetches whenever a newly added id is missing from the listing and at
// least every interval otherwise; failures back off exponentially.
func (a *App) StartListingRefresher(interval time.Duration) {
	if interval <= 0 {
		interval = defaultListingInterval
	}
	kick := make(chan struct{}, 1)
	cancel := a.Favorites.Subscribe(func(set *favorites.Set) {
		if !a.Listing.Snapshot().Stale(set) {
			return
		}
		select {
		case kick <- struct{}{}:
		default:
		}
	})

	a.goBackground(func(ctx context.Context) {
		defer cancel()
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			case <-kick:
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
			}

			wait := interval
			if err := a.RefreshListing(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				wait = calculateBackoff(a.Listing.Snapshot().ConsecutiveFailures, listingRetryBase)
				a.Logger.Warn("favorites listing refresh failed", "err", err, "retry_in", wait)
			}
			timer.Reset(wait)
		}
	})
}

// RefreshListing fetches the launches for the current favorite ids and
// records the outcome in Listing.
func (a *App) RefreshListing(ctx context.Context) error {
	ids := a.Favorites.Snapshot().IDs()
	launches, err := a.API.QueryLaunchesByIDs(ctx, ids)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.Listing.Update(nil, nil, err)
		return err
	}
	a.Listing.Update(ids, launches, nil)
	return nil
}

// calculateBackoff doubles base for each consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return min(base, maxBackoff)
	}
	wait := base
	for range failures {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}
