package engine

import (
	"time"

	"github.com/tscheck-dev/tscheck/internal/diagnostics"
)

// Aggregate merges per-group outcomes into one CheckResult.
//
// Diagnostics are concatenated across groups and sorted by (file, line,
// column) so output is deterministic regardless of group completion order.
// checkedFiles is the full original input set, never the subset that reached
// a compiler.
func Aggregate(groups []GroupResult, checkedFiles []string, duration time.Duration) *CheckResult {
	var all []diagnostics.Diagnostic
	for i := range groups {
		if groups[i].Err != nil {
			groups[i].ErrMessage = groups[i].Err.Error()
		}
		all = append(all, groups[i].Diagnostics...)
	}
	diagnostics.Sort(all)

	errCount, warnCount := diagnostics.Count(all)

	result := &CheckResult{
		ErrorCount:   errCount,
		WarningCount: warnCount,
		Diagnostics:  all,
		Duration:     duration,
		CheckedFiles: append([]string(nil), checkedFiles...),
		Groups:       groups,
	}
	result.Success = errCount == 0 && !result.HasGroupFault()
	return result
}
