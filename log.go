package amd

import "github.com/rs/zerolog"

// logModuleExecuting, logModuleExecuted, logModuleFailed and
// logTopLevelTurn mirror danmuck/edgectl/internal/observability's
// status-based event leveling: a plain info line for the happy path, a
// warn/error line when something failed, one structured event per state
// transition rather than free-text logging.

func (l *Loader) logModuleExecuting(m *Module) {
	l.logger.Debug().Str("url", m.url).Msg("module executing")
}

func (l *Loader) logModuleExecuted(m *Module) {
	l.logger.Info().Str("url", m.url).Msg("module executed")
}

func (l *Loader) logModuleFailed(m *Module) {
	l.logger.Error().Str("url", m.url).Err(m.err).Msg("module failed")
}

func (l *Loader) logTopLevelTurn(m *Module) {
	l.logger.Debug().Str("url", m.url).Msg("top-level module taking its turn")
}

func (l *Loader) logFetchIssued(url string) {
	l.logger.Debug().Str("url", url).Msg("fetch issued")
}

func (l *Loader) logFetchFailed(url string, err error) {
	l.logger.Warn().Str("url", url).Err(err).Msg("fetch failed")
}

// nopLogger is the default Loader logger: spec.md §6 has no logging
// surface of its own, so a Loader built without WithLogger stays silent.
func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}
