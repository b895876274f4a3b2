/*
Package log provides structured logging for fabricsync using zerolog.

A single global logger is initialized once via Init and filtered by
level. Child loggers carry the fields every sync log line should have:

	syncLog := log.WithComponent("session")
	syncLog.Info().Str("region", "RegionOne").Msg("sync started")

JSON output is the production default; console output is for
development. Per-region and per-request-id child helpers exist because
those two fields are how operators correlate a sync session across the
adapter and the controller's own audit log.
*/
package log
