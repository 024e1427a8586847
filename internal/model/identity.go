package model

// Identity is the resolved session state of a request: either anonymous or
// authenticated as a stored user. The zero value is anonymous.
type Identity struct {
	user *User
}

func Anonymous() Identity {
	return Identity{}
}

func Authenticated(u User) Identity {
	return Identity{user: &u}
}

func (i Identity) IsAuthenticated() bool {
	return i.user != nil
}

// User returns the authenticated user and false for anonymous identities.
func (i Identity) User() (User, bool) {
	if i.user == nil {
		return User{}, false
	}
	return *i.user, true
}
