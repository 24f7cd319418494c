// Package upload defines the collaborator that relays local files to the
// external media host.
package upload

import (
	"context"
)

// Uploader relays a local file to the media host and returns the hosted URL.
// Implementations own the local file once handed a path: it is removed
// regardless of the upload outcome.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (string, error)
}
