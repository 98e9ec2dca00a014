package identity

import (
	"context"
	"net/http"

	"monitoreo-service/internal/models"
)

// Identity is who the upstream auth service says is calling. Tokens are
// verified at the edge; by the time a request reaches this service the
// caller's id and role arrive as trusted headers.
type Identity struct {
	UserID string
	Role   models.Role
}

func (id Identity) IsAdmin() bool {
	return id.Role == models.RoleAdmin
}

type ctxKey struct{}

const (
	HeaderUserID = "X-User-Id"
	HeaderRole   = "X-User-Role"
)

// FromHeaders extracts the caller identity into the request context.
func FromHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Identity{
			UserID: r.Header.Get(HeaderUserID),
			Role:   models.RoleUser,
		}

		if r.Header.Get(HeaderRole) == string(models.RoleAdmin) {
			id.Role = models.RoleAdmin
		}

		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), id)))
	})
}

func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(ctxKey{}).(Identity)
	return id
}
