// Package pg provides PostgreSQL connection helpers built on pgx.
//
// It covers the plumbing the persistent stores in this module need: a
// retrying pool constructor, error classification helpers (not found,
// duplicate key, foreign key violation), a goose-based migration runner, and
// a healthcheck closure for readiness probes.
//
// Configuration comes from the environment via the Config struct:
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//	    return err
//	}
package pg
