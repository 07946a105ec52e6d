package conversation

import "context"

// Transport carries uploads and queries to the gateway. Implementations report
// every failure as an error and never retry.
type Transport interface {
	Upload(ctx context.Context, file File) (*Attachment, error)
	Query(ctx context.Context, query Query) (*Reply, error)
}
