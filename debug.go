package bloom

import "time"

// debugStats holds per-frame timing. Only populated in debug mode.
type debugStats struct {
	frame       uint64
	stampTime   time.Duration
	presentTime time.Duration
	stopTime    float64
	fade        float64
}

// debugLog writes frame stats at debug level.
func (d *Driver) debugLog(stats debugStats) {
	if !d.debug {
		return
	}
	Logger().Debug("frame",
		"n", stats.frame,
		"stamp", stats.stampTime,
		"present", stats.presentTime,
		"total", stats.stampTime+stats.presentTime,
		"stopTime", stats.stopTime,
		"fade", stats.fade,
	)
}
