// Package delivery defines the contract that every transport adapter
// (HTTP today, possibly others later) satisfies so main can start them
// uniformly.
package delivery

import "context"

// Delivery is a long-running transport serving the application.
// Serve blocks until the server stops or fails.
type Delivery interface {
	Serve(ctx context.Context) error
}
