// Package delivery defines the contract every transport (HTTP server,
// background worker) fulfills so the binaries can start them uniformly.
package delivery

import "context"

// Delivery is a long-running serving surface started by the binary.
type Delivery interface {
	Serve(ctx context.Context) error
}
