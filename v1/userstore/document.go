package userstore

import "github.com/Aleph-Alpha/storemanager/v1/model"

// usersCollection is the collection backing the DAO. It is also the name of
// its sequence in the counters collection.
const usersCollection = "users"

type userDocument struct {
	ID    int64  `bson:"_id"`
	Name  string `bson:"name"`
	Email string `bson:"email"`
}

func toDocument(u model.User) userDocument {
	return userDocument{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (d userDocument) toModel() model.User {
	return model.User{ID: d.ID, Name: d.Name, Email: d.Email}
}
