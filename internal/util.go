package internal

// TruncateRightWithSuffix keeps the first n runes of s, replacing the rest with suffix.
//
// The suffix counts towards n, so the result never has more than n runes. If s has no more than n runes, s is
// returned as-is.
func TruncateRightWithSuffix(s string, n int, suffix string) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}

	keep := n - len([]rune(suffix))
	if keep <= 0 {
		return string([]rune(suffix)[:n])
	}

	return string(rs[:keep]) + suffix
}
