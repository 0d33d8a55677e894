package repositories

import "fmt"

// KeySet names the storage keys used by one page dialect
type KeySet struct {
	Name    string
	Users   string
	Session string
}

var (
	// KeySetTB is used by the dashboard pages (email-keyed accounts with roles)
	KeySetTB = KeySet{Name: "tb", Users: "tb_users", Session: "tb_session"}
	// KeySetLegacy is used by the older username-keyed pages
	KeySetLegacy = KeySet{Name: "legacy", Users: "users", Session: "loggedInUser"}
)

// KeySetByName returns the key set registered under "name"
func KeySetByName(name string) (KeySet, error) {
	switch name {
	case KeySetTB.Name:
		return KeySetTB, nil
	case KeySetLegacy.Name:
		return KeySetLegacy, nil
	default:
		return KeySet{}, fmt.Errorf("unknown key set: %s, must be 'tb' or 'legacy'", name)
	}
}

// sessionKey returns the session slot of a client profile.
// An empty profile maps to the bare key, i.e. a single browser profile.
func (k KeySet) sessionKey(profileID string) string {
	if profileID == "" {
		return k.Session
	}
	return k.Session + ":" + profileID
}
