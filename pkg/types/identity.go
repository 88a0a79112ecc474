package types

// GuestName is the display name of the synthetic guest identity.
const GuestName = "Guest"

// Identity is the opaque player identity supplied by the auth provider.
// The activity log treats every non-nil identity the same way.
type Identity struct {
	DisplayName string `json:"displayName"`
}

// GuestIdentity returns the identity used when nobody is signed in.
func GuestIdentity() *Identity {
	return &Identity{DisplayName: GuestName}
}
