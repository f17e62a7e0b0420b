package domain

// Role represents the caller's role resolved by the identity middleware
type Role string

const (
	RoleBuyer    Role = "buyer"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// IsValid returns true if the role is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleBuyer, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

// Actor идентичность вызывающего, извлечённая из заголовков запроса
type Actor struct {
	UserID int64
	Role   Role
}

// IsAdmin returns true for administrators
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanActForBuyer returns true if the actor may act on behalf of the buyer
func (a Actor) CanActForBuyer(buyerID int64) bool {
	return a.IsAdmin() || (a.Role == RoleBuyer && a.UserID == buyerID)
}

// CanActForProvider returns true if the actor may act on behalf of the provider
func (a Actor) CanActForProvider(providerID int64) bool {
	return a.IsAdmin() || (a.Role == RoleProvider && a.UserID == providerID)
}
