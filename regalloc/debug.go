package regalloc

import "github.com/sirupsen/logrus"

// This file centralizes the debug knobs for the allocator, the way
// wazevoapi.debug_consts.go does for wazero's backend: instead of scattering
// "where do we log this?" decisions across every pass, they live here.
//
// Unlike compile-time debug consts, LoggingEnabled is a variable because the
// CLI in cmd/tacalloc flips it on with a --verbose flag; ValidationEnabled
// stays a const since there is no runtime knob for it and the extra checks
// are cheap relative to the rest of the allocator.

// LoggingEnabled gates the structured trace emitted by the simplify/spill
// loop and the coloring pass. Disabled by default; enable for debugging.
var LoggingEnabled = false

// ValidationEnabled gates the internal consistency check that no two
// interfering, non-spilled registers share a color (validateColoring), which
// is cheap enough to leave on unconditionally.
const ValidationEnabled = true

var log = logrus.WithField("component", "regalloc")

func logTrace(format string, args ...interface{}) {
	if LoggingEnabled {
		log.Debugf(format, args...)
	}
}
