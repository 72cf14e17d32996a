package domain

// User is a registered storefront account. Passwords are kept as entered.
type User struct {
	ID               int    `json:"id"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	FavoriteToyTypes []int  `json:"favoriteToyTypes"`
	Username         string `json:"username"`
	Password         string `json:"password"`
}

// SessionUser is the reduced record stored as a client's current user.
type SessionUser struct {
	ID               int    `json:"id"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	FavoriteToyTypes []int  `json:"favoriteToyTypes"`
	Username         string `json:"username"`
}

// SessionRecord strips the password from u.
func (u User) SessionRecord() SessionUser {
	types := make([]int, len(u.FavoriteToyTypes))
	copy(types, u.FavoriteToyTypes)
	return SessionUser{
		ID:               u.ID,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Email:            u.Email,
		Phone:            u.Phone,
		Address:          u.Address,
		FavoriteToyTypes: types,
		Username:         u.Username,
	}
}

// Session identifies one storefront client. UserID is zero when nobody is logged in.
type Session struct {
	ID     string
	UserID int
}

// LoggedIn reports whether the session carries a current user.
func (s Session) LoggedIn() bool {
	return s.UserID != 0
}
