package utils

// Min returns the smaller of a or b
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// ClampLimit bounds a page size to [1, max], using def when unset.
func ClampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	return Min(limit, max)
}
