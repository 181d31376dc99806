package utils

// StringPtr convert string thành *string (helper cho nullable fields)
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref trả về value của pointer hoặc zero value nếu nil
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
