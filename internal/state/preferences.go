package state

import (
	"context"
	"encoding/json"

	"github.com/RHgrive/Study-Plus/internal/domain"
	domainerrors "github.com/RHgrive/Study-Plus/internal/errors"
	"github.com/RHgrive/Study-Plus/internal/events"
)

// ErrClosed is returned by UpdatePreferences once Close has been called.
var ErrClosed = domainerrors.Internalf("state container is closed")

// loadPreferences merges defaults, the durable copy in the store and the
// fast-path cache, in that order. The cache wins because it is written first.
// Unreadable copies are logged and skipped; only a store failure is returned.
func (c *Container) loadPreferences(ctx context.Context) error {
	prefs := domain.DefaultPreferences()

	raw, err := c.repo.GetMeta(ctx, domain.MetaPreferences)
	switch {
	case err == nil:
		var patch domain.PreferencesPatch
		if jsonErr := json.Unmarshal([]byte(raw), &patch); jsonErr != nil {
			c.logger.Warn("ignoring unreadable stored preferences", "error", jsonErr)
		} else {
			prefs = prefs.Apply(patch)
		}
	case domainerrors.Is(err, domainerrors.ErrNotFound):
	default:
		return err
	}

	cached, err := c.cache.Load()
	if err != nil {
		c.logger.Warn("ignoring unreadable preferences cache", "error", err)
	} else if cached != nil {
		prefs = prefs.Apply(*cached)
	}

	if err := prefs.Validate(); err != nil {
		c.logger.Warn("stored preferences invalid, using defaults", "error", err)
		prefs = domain.DefaultPreferences()
	}

	c.prefsMu.Lock()
	defer c.prefsMu.Unlock()

	c.stateMu.Lock()
	c.prefs = prefs
	c.stateMu.Unlock()
	return nil
}

// UpdatePreferences merges patch into the current preferences. The fast-path
// cache is written before the change is applied; the durable copy in the store
// is written in the background and flushed by Close. Emits PreferencesChanged.
func (c *Container) UpdatePreferences(patch domain.PreferencesPatch) (domain.Preferences, error) {
	c.prefsMu.Lock()
	defer c.prefsMu.Unlock()

	if c.prefsClosed {
		return c.Preferences(), ErrClosed
	}

	next := c.Preferences().Apply(patch)
	if err := next.Validate(); err != nil {
		return c.Preferences(), err
	}

	if err := c.cache.Save(next); err != nil {
		return c.Preferences(), c.fail("update preferences", err)
	}

	c.stateMu.Lock()
	c.prefs = next
	c.stateMu.Unlock()

	c.bus.Emit(events.PreferencesChanged{Preferences: next})

	c.prefsSeq++
	c.persistPreferences(next, c.prefsSeq)
	return next, nil
}

// persistPreferences writes the durable copy without blocking the caller.
// Writes are serialised and a stale write never overwrites a newer one.
func (c *Container) persistPreferences(prefs domain.Preferences, seq uint64) {
	c.persistWG.Add(1)
	go func() {
		defer c.persistWG.Done()
		c.writeDurablePreferences(prefs, seq)
	}()
}

func (c *Container) writeDurablePreferences(prefs domain.Preferences, seq uint64) error {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	if seq <= c.persistedSeq {
		return nil
	}

	data, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	if err := c.repo.SetMeta(context.Background(), domain.MetaPreferences, string(data)); err != nil {
		c.logger.Warn("failed to persist preferences", "error", err)
		return err
	}
	c.persistedSeq = seq
	return nil
}

// Close waits for pending preference writes and makes sure the latest
// preferences reached the store. It does not close the store. Preference
// updates after Close fail with ErrClosed.
func (c *Container) Close() error {
	c.prefsMu.Lock()
	c.prefsClosed = true
	seq := c.prefsSeq
	prefs := c.Preferences()
	c.prefsMu.Unlock()

	c.persistWG.Wait()

	if err := c.writeDurablePreferences(prefs, seq); err != nil {
		return c.fail("flush preferences", err)
	}
	return nil
}
