// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package lookup keeps the specialty and study plan sets the dashboard's
select boxes are built from.

The server loads the Catalog once before it starts serving:

	catalog := lookup.NewCatalog(store, lookup.Options{Cache: cache, TTL: cfg.LookupTTL})
	if err := catalog.Load(ctx); err != nil {
		log.Fatal(err)
	}

Load fetches both sets concurrently. Reads before the first successful
Load return ErrNotLoaded. Once a set is older than TTL the next read
refreshes it from the source; if that fails the stale set is served and the
failure is logged.

# Caches

A Cache lets several API processes share one copy of the sets:

  - MemoryCache: process local, mostly for tests
  - RedisCache: shared, keyed by SpecialtiesKey and PlansKey

Cache errors never fail a load; the catalog falls back to the source.
*/
package lookup
