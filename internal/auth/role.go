package auth

// Authorize succeeds iff the identity's role is one of allowed.
func Authorize(id Identity, allowed ...string) error {
	for _, role := range allowed {
		if id.Role == role {
			return nil
		}
	}
	return ErrForbidden
}
