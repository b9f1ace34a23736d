package domain

// Actor is the authenticated caller as seen by services.
type Actor struct {
	UserID string
	Role   Role
}

func (a Actor) IsHR() bool {
	return a.Role == RoleHR
}

// CanView reports whether the actor may read records owned by ownerID.
func (a Actor) CanView(ownerID string) bool {
	return a.IsHR() || a.UserID == ownerID
}
