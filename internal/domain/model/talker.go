// Package model contains domain models passed between layers.
package model

// Talk describes the talk a speaker gave and its rating.
type Talk struct {
	WatchedAt string `json:"watchedAt"` // dd/mm/yyyy
	Rate      int    `json:"rate"`      // 1..5
}

// Talker is a conference-speaker record as persisted in the store.
type Talker struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age"`
	Talk Talk   `json:"talk"`
}

// TalkerFields carries everything a client may set on a talker; the id is
// always assigned by the service.
type TalkerFields struct {
	Name string
	Age  int
	Talk Talk
}

// WithID builds the record stored for id.
func (f TalkerFields) WithID(id int) Talker {
	return Talker{ID: id, Name: f.Name, Age: f.Age, Talk: f.Talk}
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
