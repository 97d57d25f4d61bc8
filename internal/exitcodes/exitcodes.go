package exitcodes

// Exit codes for rm-rfp
// These codes form the operational contract with scripts and wrappers
const (
	Success         = 0 // Successful execution
	UsageError      = 2 // Bad flags, arguments, or configuration
	SafetyViolation = 3 // Path validator refused a root argument
	RuntimeError    = 4 // Unrecoverable failure during the run
)
