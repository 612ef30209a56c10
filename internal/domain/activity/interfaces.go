package activity

import "context"

// Repository reads the activity log. Entries are written by the session
// store in the same transaction as the transition they describe.
type Repository interface {
	List(ctx context.Context, ownerID string, opts ListActivityOptions) ([]ActivityEntry, error)
}
