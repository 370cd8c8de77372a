package util

// FalseIfNil returns *b, or false if b is nil — for optional boolean
// flags (e.g. a CLI's --with-runtime) that default to off.
func FalseIfNil(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}
