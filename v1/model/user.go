package model

import "fmt"

// User is a document of the users collection.
type User struct {
	ID    int64
	Name  string
	Email string
}

// NewUser returns an unsaved user.
func NewUser(name, email string) User {
	return User{Name: name, Email: email}
}

// Persisted reports whether the user has been assigned an identifier.
func (u User) Persisted() bool {
	return u.ID != 0
}

func (u User) String() string {
	return fmt.Sprintf("#%d %s <%s>", u.ID, u.Name, u.Email)
}
