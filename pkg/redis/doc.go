// Package redis provides connection helpers for the go-redis client.
//
// Connect parses a redis:// URL, retries until the server answers a ping,
// and returns a ready *redis.Client. Healthcheck wraps the same ping as a
// probe function for readiness endpoints.
package redis
