/*
Package log provides structured logging for Agent Docs using zerolog.

It wraps zerolog to give every component (store, lock manager, event bus,
rate limiter, auth guard, API façade) a consistently-tagged child logger,
with a single global Logger initialized once via Init.

# Usage

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stdout,
	})

	log.Info("agentdocs starting")

	storeLog := log.WithComponent("store")
	storeLog.Info().Str("workspace_id", ws.ID).Msg("workspace created")

	wsLog := log.WithWorkspace(ws.ID)
	wsLog.Warn().Msg("rate limit exceeded for IP")

# Do / Don't

Do use typed fields (.Str, .Int, .Err) so logs stay queryable. Don't log
manage keys, secrets, or document content — only IDs and metadata.
*/
package log
