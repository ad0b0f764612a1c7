package domain

// User is an external identity entity consumed read-only for reviewer
// attribution. Account management lives outside this service.
type User struct {
	ID         string `json:"id"`
	Login      string `json:"login"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	MiddleName string `json:"middle_name,omitempty"`
}

// DisplayName returns the name shown next to a review.
func (u *User) DisplayName() string {
	switch {
	case u.LastName != "" && u.FirstName != "":
		return u.LastName + " " + u.FirstName
	case u.LastName != "":
		return u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Login
	}
}
