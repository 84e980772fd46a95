// Package gateway is the sole pathway for remote data access. It centralizes
// bearer-auth attachment and error normalization so handlers never build
// outbound requests themselves.
//
// Error Handling:
// Operations return sentinel or typed errors wrapped with context via
// fmt.Errorf("%w"). Handlers dispatch on them:
//
//	switch {
//	case errors.Is(err, gateway.ErrUnauthenticated):
//	    // no valid session; send the user to login
//	case errors.As(err, &remoteErr):
//	    // backend-reported fault; remoteErr.Message is display-safe
//	default:
//	    // transport failure; show a generic message
//	}
package gateway

import "errors"

// ErrUnauthenticated indicates an authenticated operation was attempted with
// no valid session. Raised before any network attempt.
var ErrUnauthenticated = errors.New("authentication required")

// RemoteError is a fault reported by the remote endpoint in its response
// envelope. Message is the first error's message; the rest are discarded,
// which is the documented contract, not an oversight.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return "graphql request failed"
	}
	return e.Message
}
