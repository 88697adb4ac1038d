package logging

import (
	rhllog "github.com/msto63/rhl/foundation/core/log"
)

// Profile runs fn and, when debug logging is enabled, logs
// "<name> completed" with its duration. A failing fn is logged as
// "<name> failed". fn's error is returned unchanged.
func Profile(logger *rhllog.Logger, name string, fn func() error) error {
	if logger == nil || !logger.IsLevelEnabled(rhllog.LevelDebug) {
		return fn()
	}

	timer := logger.StartTimer(name)
	if err := fn(); err != nil {
		timer.StopWithError(err)
		return err
	}
	timer.Stop()
	return nil
}
