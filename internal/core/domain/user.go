package domain

import "time"

// Role is the privilege level carried by a user account.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// ReservedUsername is the path segment used for self-service endpoints and
// can never be registered as a username.
const ReservedUsername = "me"

// User models an account in the identity store.
type User struct {
	ID               int64
	Username         string
	Email            string
	FirstName        string
	LastName         string
	Bio              string
	Role             Role
	IsStaff          bool
	IsSuperuser      bool
	ConfirmationCode string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsAdmin reports administrative privileges: the admin role or either of the
// staff/superuser flags.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.IsStaff || u.IsSuperuser
}

func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}
