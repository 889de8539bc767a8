package conflict

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// Fingerprint derives a stable identity for a conflict from its range and the
// three text snapshots. Sidecar metadata (timestamps, audit history) keys off
// this value.
func (c Conflict) Fingerprint() string {
	hash := sha256.New()
	fmt.Fprintf(hash, "%d:%d:%d\n", c.StartLine, c.EndLine, len(c.BaseText))
	writeLenPrefixed(hash, c.LocalText)
	writeLenPrefixed(hash, c.RemoteText)
	writeLenPrefixed(hash, c.BaseText)
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

func writeLenPrefixed(w io.Writer, value string) {
	fmt.Fprintf(w, "%d:", len(value))
	io.WriteString(w, value)
	io.WriteString(w, "\n")
}
