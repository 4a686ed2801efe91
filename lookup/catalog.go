// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/mentoria/models"
)

// Cache keys.
const (
	SpecialtiesKey = "mentoria:lookup:especialidades"
	PlansKey       = "mentoria:lookup:planes"
)

// ErrNotLoaded is returned by reads before the first successful Load.
var ErrNotLoaded = errors.New("lookup catalog not loaded")

// Source is where the lookup sets come from. *students.Store satisfies it.
type Source interface {
	Specialties(ctx context.Context) ([]models.Specialty, error)
	Plans(ctx context.Context) ([]models.StudyPlan, error)
}

type Options struct {
	// Cache is optional. Cache failures are logged and fall through to
	// the source.
	Cache Cache
	// TTL is how long a loaded set stays fresh. 0 never expires.
	TTL time.Duration
	Now func() time.Time
}

// Catalog holds the specialty and plan sets for the life of the process.
// Load must succeed before reads; stale sets are refreshed on read.
type Catalog struct {
	src   Source
	cache Cache
	ttl   time.Duration
	now   func() time.Time

	// mu serializes loads; data is guarded by dataMu.
	mu          sync.Mutex
	dataMu      sync.RWMutex
	specialties []models.Specialty
	plans       []models.StudyPlan
	loadedAt    time.Time
}

func NewCatalog(src Source, opts Options) *Catalog {
	c := &Catalog{src: src, cache: opts.Cache, ttl: opts.TTL, now: opts.Now}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Load fills the catalog, preferring cached sets. Both sets are fetched
// concurrently; if either fails the previous contents are kept.
func (c *Catalog) Load(ctx context.Context) error {
	return c.load(ctx, true, time.Time{})
}

// Refresh reloads both sets from the source and rewrites the cache.
func (c *Catalog) Refresh(ctx context.Context) error {
	return c.load(ctx, false, time.Time{})
}

// load skips the fetch when seen is set and another load finished after it.
func (c *Catalog) load(ctx context.Context, useCache bool, seen time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !seen.IsZero() && c.LoadedAt().After(seen) {
		return nil
	}

	var specialties []models.Specialty
	var plans []models.StudyPlan

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		specialties, err = fetch(gctx, c, SpecialtiesKey, useCache, c.src.Specialties)
		if err != nil {
			return fmt.Errorf("load specialties: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		plans, err = fetch(gctx, c, PlansKey, useCache, c.src.Plans)
		if err != nil {
			return fmt.Errorf("load plans: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	c.dataMu.Lock()
	c.specialties = specialties
	c.plans = plans
	c.loadedAt = c.now()
	c.dataMu.Unlock()

	slog.Info("lookup catalog loaded", "specialties", len(specialties), "plans", len(plans))
	return nil
}

func fetch[T any](ctx context.Context, c *Catalog, key string, useCache bool, get func(context.Context) ([]T, error)) ([]T, error) {
	if useCache && c.cache != nil {
		data, ok, err := c.cache.Get(ctx, key)
		switch {
		case err != nil:
			slog.Warn("lookup cache read failed", "key", key, "error", err)
		case ok:
			var out []T
			if err := json.Unmarshal(data, &out); err == nil {
				return out, nil
			}
			slog.Warn("lookup cache entry unreadable", "key", key)
		}
	}

	out, err := get(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}

	if c.cache != nil {
		data, err := json.Marshal(out)
		if err == nil {
			err = c.cache.Set(ctx, key, data, c.ttl)
		}
		if err != nil {
			slog.Warn("lookup cache write failed", "key", key, "error", err)
		}
	}
	return out, nil
}

// LoadedAt returns the time of the last successful load.
func (c *Catalog) LoadedAt() time.Time {
	c.dataMu.RLock()
	defer c.dataMu.RUnlock()
	return c.loadedAt
}

// Specialties returns the specialty set sorted by name.
func (c *Catalog) Specialties(ctx context.Context) ([]models.Specialty, error) {
	if err := c.ensureFresh(ctx); err != nil {
		return nil, err
	}
	c.dataMu.RLock()
	defer c.dataMu.RUnlock()
	return append([]models.Specialty(nil), c.specialties...), nil
}

// Plans returns the distinct plan codes in ascending order.
func (c *Catalog) Plans(ctx context.Context) ([]models.StudyPlan, error) {
	if err := c.ensureFresh(ctx); err != nil {
		return nil, err
	}
	c.dataMu.RLock()
	defer c.dataMu.RUnlock()
	return append([]models.StudyPlan(nil), c.plans...), nil
}

// ensureFresh refreshes expired sets. A failed refresh keeps serving the
// stale copy.
func (c *Catalog) ensureFresh(ctx context.Context) error {
	loadedAt := c.LoadedAt()
	if loadedAt.IsZero() {
		return ErrNotLoaded
	}
	if c.ttl <= 0 || c.now().Sub(loadedAt) < c.ttl {
		return nil
	}
	if err := c.load(ctx, false, loadedAt); err != nil {
		slog.Warn("lookup refresh failed, serving stale sets", "error", err)
	}
	return nil
}
