// Package cache provides a generic, thread-safe TTL cache.
//
// Entries expire a fixed duration after insertion and are dropped lazily on
// access; no background sweeper goroutine is started. The zero TTL is valid
// and makes every lookup a miss, which effectively disables caching without
// changing call sites.
//
// Basic usage:
//
//	c := cache.New[string, int](time.Minute)
//	c.Put("answer", 42)
//
//	if v, ok := c.Get("answer"); ok {
//	    fmt.Println(v) // 42, for up to a minute
//	}
//
// The clock is injectable via SetClock, which lets tests advance time
// deterministically instead of sleeping.
package cache
