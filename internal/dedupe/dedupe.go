package dedupe

// Package dedupe provides shared singleflight groups used to deduplicate
// concurrent catalog reads. Using a centralized singleflight.Group ensures
// that only one database query runs for a given key while other callers
// wait for the result.

import "golang.org/x/sync/singleflight"

// CatalogGroup deduplicates creature catalog lookups keyed by query
// (e.g. "creatures" for the full list, "creature:<name>" for one entry).
var CatalogGroup singleflight.Group

// LeaderboardGroup deduplicates leaderboard queries keyed by the requested
// limit (e.g. "top:10").
var LeaderboardGroup singleflight.Group
