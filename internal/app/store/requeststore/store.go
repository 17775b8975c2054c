// internal/app/store/requeststore/store.go
package requeststore

import (
	"context"

	"github.com/jowpereira/mcp-server/internal/domain/models"
)

// Store persists access requests. The history is append-only: requests
// are inserted once and updated in place when reviewed, never removed.
// The workflow service serializes mutations; implementations only make
// each call atomic.
type Store interface {
	List(ctx context.Context) ([]models.AccessRequest, error)
	Insert(ctx context.Context, req models.AccessRequest) error
	Update(ctx context.Context, req models.AccessRequest) error
}
