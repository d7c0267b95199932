package ports

import (
	"context"
	"io"
)

// FileStore abstracts document/image storage. The hosted deployment points
// this at a bucket service; the local adapter writes to disk.
type FileStore interface {
	// Put stores content under bucket/key and returns the storage path.
	Put(ctx context.Context, bucket, key string, content io.Reader) (string, error)

	// Open returns a reader for a previously stored object.
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, bucket, key string) error

	// PublicURL returns the externally reachable URL for an object.
	PublicURL(bucket, key string) string
}

// MailMessage is an outbound email handed to the Mailer collaborator.
type MailMessage struct {
	To      string
	Subject string
	Body    string
}

// Mailer abstracts outbound email delivery. Delivery failures are logged and
// never block the triggering operation.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}
