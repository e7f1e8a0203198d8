package driven

import (
	"context"

	"github.com/Kub3rn3tesofficial/test-infra/internal/domain/model"
)

// StatusSource supplies the opaque CI status map for a head commit. The
// classifier core never fetches this itself; the map is handed to it as-is.
type StatusSource interface {
	CombinedStatus(ctx context.Context, repoFullName, ref string) (map[string]model.CheckStatus, error)
}
