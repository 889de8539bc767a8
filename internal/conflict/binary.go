package conflict

// binarySniffLen bounds the detection scan so large documents stay cheap.
const binarySniffLen = 8000

// binaryRatioThreshold is the fraction of non-text bytes in the sniff window
// above which content is treated as binary.
const binaryRatioThreshold = 0.3

// IsBinary reports whether content should not be line-merged: any NUL byte,
// or a high ratio of non-text bytes in the leading window.
func IsBinary(content string) bool {
	if content == "" {
		return false
	}

	window := content
	if len(window) > binarySniffLen {
		window = window[:binarySniffLen]
	}

	nonText := 0
	for i := 0; i < len(window); i++ {
		b := window[i]
		if b == 0 {
			return true
		}
		if b < 0x08 || (b > 0x0d && b < 0x20) || b == 0x7f {
			nonText++
		}
	}

	return float64(nonText)/float64(len(window)) > binaryRatioThreshold
}
