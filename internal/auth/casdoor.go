package auth

import (
	"fmt"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"

	"github.com/campus-portal/portal-service/internal/config"
	"github.com/campus-portal/portal-service/internal/models"
)

// Identity is what an external identity provider asserts about a caller.
// The portal account is matched by email.
type Identity struct {
	Email string
	Name  string
	Role  models.UserRole
}

// ExternalVerifier checks tokens the portal did not issue itself.
type ExternalVerifier interface {
	Verify(token string) (*Identity, error)
}

// CasdoorVerifier validates Casdoor-issued JWTs against the configured certificate.
type CasdoorVerifier struct {
	client *casdoorsdk.Client
}

func NewCasdoorVerifier(cfg config.CasdoorConfig) *CasdoorVerifier {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Organization,
		cfg.Application,
	)
	return &CasdoorVerifier{client: client}
}

func (v *CasdoorVerifier) Verify(token string) (*Identity, error) {
	claims, err := v.client.ParseJwtToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email := strings.TrimSpace(claims.User.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: token carries no email", ErrInvalidToken)
	}

	return &Identity{
		Email: strings.ToLower(email),
		Name:  claims.User.DisplayName,
		Role:  MapCasdoorType(claims.User.Type),
	}, nil
}

// MapCasdoorType maps a Casdoor user type to a portal role. Unknown types
// get the least privileged role.
func MapCasdoorType(casdoorType string) models.UserRole {
	switch strings.ToLower(strings.TrimSpace(casdoorType)) {
	case "admin", "administrator":
		return models.RoleAdmin
	case "teacher", "instructor", "faculty", "educator":
		return models.RoleFaculty
	default:
		return models.RoleStudent
	}
}
