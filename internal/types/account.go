package types

import "golang.org/x/oauth2"

// Account is a Google account known to the program. Name is the account's
// e-mail address.
type Account struct {
	Name string `json:"name"`
}

type StoredAccount struct {
	Name  string        `json:"name"`
	Token *oauth2.Token `json:"token,omitempty"`
}

func (a *StoredAccount) Account() Account {
	return Account{Name: a.Name}
}

type Preferences struct {
	Account  string    `json:"account,omitempty"`
	Playlist *Playlist `json:"playlist,omitempty"`
}
