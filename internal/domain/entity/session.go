package entity

// Session is the identity supplied by the authentication provider.
// A nil session means the user has no cloud identity; offline operations remain available.
type Session struct {
	UserID string
	Email  string
	Valid  bool
}

// HasCloudIdentity reports whether the session can be used for remote operations.
func (s *Session) HasCloudIdentity() bool {
	return s != nil && s.Valid && s.UserID != ""
}
