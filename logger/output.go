package logger

// OutputCategory is a kind of CLI output that can be enabled or disabled
// by verbosity, independent of log severity.
//
//	0 (default) - final status
//	1 (-v)      - + files expanded, watcher events
//	2 (-vv)     - + config loaded, timing, field classification
//	3 (-vvv)    - + formatter invocations, generated code echoed to the log
type OutputCategory int

const (
	OutputStatus OutputCategory = iota

	OutputProgress
	OutputWatch

	OutputConfig
	OutputTiming
	OutputClassification

	OutputFormatter
	OutputGenerated
)

var categoryLevels = map[OutputCategory]int{
	OutputStatus: VerbosityUser,

	OutputProgress: VerbosityInfo,
	OutputWatch:    VerbosityInfo,

	OutputConfig:         VerbosityDebug,
	OutputTiming:         VerbosityDebug,
	OutputClassification: VerbosityDebug,

	OutputFormatter: VerbosityTrace,
	OutputGenerated: VerbosityTrace,
}

// ShouldOutput returns true if category should be shown at verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}
