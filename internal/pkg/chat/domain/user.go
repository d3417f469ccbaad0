package chat

// UserProfile is the denormalized identity shape attached to broadcasts so
// receivers need no extra directory lookups. Identity itself is resolved by
// an external directory; this package never mutates users.
type UserProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Color     string `json:"color"`
	Avatar    string `json:"avatar"`
}
