/*
Package identity contains the resolved user identity attached to every
connection and the resolver that produces it from a credential token or
client-supplied hints.
*/
package identity

import "strings"

// Provider tags recorded on resolved identities.
const (
	// ProviderVerified marks identities backed by a verified credential token.
	ProviderVerified = "verified"

	// ProviderUnverified marks identities built from client hints in permissive mode.
	ProviderUnverified = "unverified"
)

// AnonymousEmail is the placeholder email used when a permissive-mode client
// supplies no hints at all.
const AnonymousEmail = "anonymous@local"

// Identity represents the resolved user reference attached to a connection.
// Email is the de facto unique key used throughout presence and persistence.
type Identity struct {
	// Subject is the credential subject id. Empty for non-token flows.
	Subject string `json:"subject,omitempty"`

	// Email is the primary human-readable key; always non-empty after resolution.
	Email string `json:"email"`

	// DisplayName is the name shown in the chat room.
	DisplayName string `json:"displayName"`

	// AvatarURL points at the user's avatar, if any.
	AvatarURL string `json:"avatarUrl,omitempty"`

	// Provider records how the identity was established.
	Provider string `json:"provider"`
}

// Hints carries the client-supplied identity fields accepted in permissive mode.
type Hints struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

// Verified reports whether the identity came from a verified credential token.
func (id Identity) Verified() bool {
	return id.Provider == ProviderVerified
}

// displayNameOrLocalPart falls back to the local part of the email when no
// display name is available.
func displayNameOrLocalPart(name, email string) string {
	if name != "" {
		return name
	}
	if email != "" {
		if local, _, found := strings.Cut(email, "@"); found && local != "" {
			return local
		}
	}
	return "User"
}
