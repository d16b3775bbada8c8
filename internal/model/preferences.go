package model

// Preferences are the two user-facing settings the app persists.
type Preferences struct {
	RemindersEnabled bool
	StorageMethod    string
}
