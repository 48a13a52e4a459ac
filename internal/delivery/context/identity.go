package context

import (
	"gatehouse/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Identity describes the authenticated caller attached to a request after
// the access token has been verified and the user reloaded from storage.
type Identity struct {
	ID    uuid.UUID
	Email string
	Name  string
	Role  entity.Role
}

// SetIdentity stores the authenticated identity in echo.Context.
func SetIdentity(c echo.Context, identity *Identity) {
	c.Set(string(KeyIdentity), identity)
}

// GetIdentity extracts the authenticated identity from echo.Context.
// The boolean reports whether an identity was attached.
func GetIdentity(c echo.Context) (*Identity, bool) {
	identity, ok := c.Get(string(KeyIdentity)).(*Identity)
	if !ok || identity == nil {
		return nil, false
	}

	return identity, true
}
