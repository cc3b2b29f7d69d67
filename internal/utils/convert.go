package utils

import (
	"encoding/hex"
	"strings"
	"time"
)

// ByteToHex converts a byte slice to an upper-case hexadecimal string, the form validator keys
// and ADNL addresses take in elections data.
func ByteToHex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

// Milliseconds returns d as fractional milliseconds.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
