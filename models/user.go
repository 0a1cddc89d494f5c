package models

// User is the signed-in shopper as asserted by the access token. Accounts
// themselves are managed by the identity provider.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	IsStaff  bool   `json:"is_staff"`
}

// Username is what the payment metadata records for the user.
func (u *User) Username() string {
	if u == nil || u.ID == "" {
		return "AnonymousUser"
	}
	return u.ID
}
