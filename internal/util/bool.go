package util

func FalseIfNil(b *bool) bool {
	if b == nil {
		return false
	}

	return *b
}
