package models

// Admin is the single operator allowed into the management pages. It comes
// from a credential store and is never written to the members database.
type Admin struct {
	Email        string
	PasswordHash string
}
