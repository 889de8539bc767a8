package contracts

// ReasonCode is a stable machine-readable code attached to per-file results.
type ReasonCode string

const (
	ReasonCodeConflictLinesChangedBoth ReasonCode = "conflict_lines_changed_both"
	ReasonCodeConflictModifyDelete     ReasonCode = "conflict_modify_delete"
	ReasonCodeConflictBinaryContent    ReasonCode = "conflict_binary_content"
	ReasonCodeStrategyInvalid          ReasonCode = "strategy_invalid"
	ReasonCodeStrategyManualRequired   ReasonCode = "strategy_manual_required"
	ReasonCodeTimestampsUnavailable    ReasonCode = "timestamps_unavailable"
	ReasonCodeHistoryIDNotFound        ReasonCode = "history_id_not_found"
	ReasonCodeValidationFailed         ReasonCode = "validation_failed"
	ReasonCodeLockAcquireFailed        ReasonCode = "lock_acquire_failed"
	ReasonCodeLockStaleRecovered       ReasonCode = "lock_stale_recovered"
)

// StableReasonCodes freezes the contract taxonomy and ordering.
var StableReasonCodes = []ReasonCode{
	ReasonCodeConflictLinesChangedBoth,
	ReasonCodeConflictModifyDelete,
	ReasonCodeConflictBinaryContent,
	ReasonCodeStrategyInvalid,
	ReasonCodeStrategyManualRequired,
	ReasonCodeTimestampsUnavailable,
	ReasonCodeHistoryIDNotFound,
	ReasonCodeValidationFailed,
	ReasonCodeLockAcquireFailed,
	ReasonCodeLockStaleRecovered,
}

func IsStableReasonCode(code ReasonCode) bool {
	for _, stable := range StableReasonCodes {
		if stable == code {
			return true
		}
	}
	return false
}
