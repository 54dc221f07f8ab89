package entity

import "github.com/google/uuid"

// CallerIdentity is the resolved identity of a cart operation's caller:
// either an authenticated user id or an opaque guest session token. It is
// constructed once at the delivery boundary and passed explicitly into
// every cart and payment operation; nothing below the handler layer reads
// ambient request state.
type CallerIdentity struct {
	userID    uuid.UUID
	sessionID string
	authed    bool
}

// AuthenticatedCaller builds the identity of a logged-in user. Any guest
// session token the request also carried is dropped here: an authenticated
// caller's cart is keyed by user id only.
func AuthenticatedCaller(userID uuid.UUID) CallerIdentity {
	return CallerIdentity{userID: userID, authed: true}
}

// GuestCaller builds the identity of an anonymous caller from its session
// token. The token may be empty; cart operations reject that case.
func GuestCaller(sessionID string) CallerIdentity {
	return CallerIdentity{sessionID: sessionID}
}

// IsAuthenticated reports whether the caller is a logged-in user.
func (c CallerIdentity) IsAuthenticated() bool {
	return c.authed
}

// UserID returns the authenticated user id. The second return is false for
// guests.
func (c CallerIdentity) UserID() (uuid.UUID, bool) {
	return c.userID, c.authed
}

// SessionID returns the guest session token, empty for authenticated
// callers.
func (c CallerIdentity) SessionID() string {
	if c.authed {
		return ""
	}

	return c.sessionID
}

// OwnsCart reports whether the caller owns the given cart: an authenticated
// caller must match the cart's user id, a guest must present the cart's
// exact session token.
func (c CallerIdentity) OwnsCart(cart *Cart) bool {
	if cart == nil {
		return false
	}
	if c.authed {
		return cart.UserID != nil && *cart.UserID == c.userID
	}

	return c.sessionID != "" && cart.SessionID != nil && *cart.SessionID == c.sessionID
}
