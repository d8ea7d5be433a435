// Package cache persists computed estimates on disk so repeated runs over
// the same project files skip recomputation.
//
// Entries are JSON files under the cache directory (default
// ~/.loadcalc/cache), named by a SHA-256 fingerprint of the normalized
// project state and the coefficient tables that produced them. Each entry
// carries its own expiry; expired entries are reported as misses and removed.
package cache
