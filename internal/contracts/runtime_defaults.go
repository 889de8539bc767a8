package contracts

import "time"

const (
	DefaultWorkspaceDir   = ".plandoc"
	DefaultHistoryPath    = ".plandoc/history.jsonl"
	DefaultConfigFilePath = ".plandoc/config.yaml"
	DefaultRulesFilePath  = ".plandoc/rules.yaml"
	DefaultLockFilePath   = ".plandoc/lock"
)

const (
	// DefaultContextLines is the number of unchanged lines captured around
	// each conflict range.
	DefaultContextLines = 3

	// DefaultColumnWidth is the per-column width for side-by-side rendering.
	DefaultColumnWidth = 80
)

const (
	DefaultLockStaleAfter     = 15 * time.Minute
	DefaultLockAcquireTimeout = 30 * time.Second
	DefaultLockPollInterval   = 200 * time.Millisecond
)

type CommandName string

const (
	CommandMerge   CommandName = "merge"
	CommandResolve CommandName = "resolve"
	CommandHistory CommandName = "history"
	CommandUndo    CommandName = "undo"
	CommandReplay  CommandName = "replay"
	CommandDiff    CommandName = "diff"
)

type LockRequirement string

const (
	LockRequirementNone      LockRequirement = "none"
	LockRequirementExclusive LockRequirement = "exclusive"
)

// CommandLockPolicy freezes lock requirements per command. Only commands
// that append to the shared history file take the exclusive lock.
var CommandLockPolicy = map[CommandName]LockRequirement{
	CommandMerge:   LockRequirementNone,
	CommandResolve: LockRequirementExclusive,
	CommandHistory: LockRequirementNone,
	CommandUndo:    LockRequirementExclusive,
	CommandReplay:  LockRequirementExclusive,
	CommandDiff:    LockRequirementNone,
}

func RequiresLock(command CommandName) bool {
	return CommandLockPolicy[command] == LockRequirementExclusive
}
