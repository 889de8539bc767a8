package contracts

import "strings"

// Git-style conflict markers embedded in merged output. Tooling that
// understands Git conflict syntax must be able to parse these verbatim.
const (
	ConflictMarkerLocal     = "<<<<<<< LOCAL"
	ConflictMarkerSeparator = "======="
	ConflictMarkerRemote    = ">>>>>>> REMOTE"
)

type NormalizationRule string

const (
	NormalizationIdentity             NormalizationRule = "identity"
	NormalizationNormalizeLineEndings NormalizationRule = "normalize_line_endings"
	NormalizationTrimOuterWhitespace  NormalizationRule = "trim_outer_whitespace"
)

func NormalizeSingleValue(rule NormalizationRule, value string) string {
	switch rule {
	case NormalizationNormalizeLineEndings:
		return strings.ReplaceAll(value, "\r\n", "\n")
	case NormalizationTrimOuterWhitespace:
		return strings.TrimSpace(value)
	default:
		return value
	}
}
