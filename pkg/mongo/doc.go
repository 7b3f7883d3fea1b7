// Package mongo provides connection helpers for the official MongoDB driver.
//
// Connect applies pool sizing and retry settings from Config and verifies the
// connection with a ping before returning. ConnectDatabase is a shortcut when
// a single database handle is all the caller needs.
package mongo
