package models

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// PersonKind is derived from the id prefix and never stored separately.
type PersonKind string

const (
	KindClient PersonKind = "client"
	KindAdmin  PersonKind = "admin"
)

// AdminRole is the closed set of staff roles.
type AdminRole string

const (
	RoleMechanic      AdminRole = "mechanic"
	RoleRentalManager AdminRole = "rental_manager"
	RoleAdministrator AdminRole = "administrator"
)

func (r AdminRole) Valid() bool {
	switch r {
	case RoleMechanic, RoleRentalManager, RoleAdministrator:
		return true
	}
	return false
}

type Person struct {
	ID        string    `json:"id" validate:"required,person_id"`
	Name      string    `json:"name" validate:"required"`
	BirthDate time.Time `json:"birthDate" validate:"required"`

	// PasswordHash is a bcrypt hash. Login against it is a convenience for
	// the console session, not a security boundary.
	PasswordHash string `json:"-"`

	// Role is set for admins only.
	Role AdminRole `json:"role,omitempty" validate:"omitempty,admin_role"`

	// RegisteredPlates is the client-side vehicle association, distinct
	// from rentals. Clients only.
	RegisteredPlates []string `json:"registeredPlates,omitempty"`
}

// NewClient validates and returns a client. The id must start with "C".
func NewClient(id, name string, birthDate time.Time) (*Person, error) {
	p := Person{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name), BirthDate: birthDate}
	if err := validate.Struct(&p); err != nil {
		return nil, fmt.Errorf("invalid client: %w", err)
	}
	if p.Kind() != KindClient {
		return nil, fmt.Errorf("client id must start with 'C': %s", p.ID)
	}
	return &p, nil
}

// NewAdmin validates and returns an admin. The id must start with "A" and
// the role must be one of the known staff roles.
func NewAdmin(id, name string, birthDate time.Time, role AdminRole) (*Person, error) {
	p := Person{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name), BirthDate: birthDate, Role: role}
	if err := validate.Struct(&p); err != nil {
		return nil, fmt.Errorf("invalid admin: %w", err)
	}
	if p.Kind() != KindAdmin {
		return nil, fmt.Errorf("admin id must start with 'A': %s", p.ID)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("invalid admin role: %s", role)
	}
	return &p, nil
}

// Validate re-checks the construction rules. Aggregate insertion calls it
// so a Person built without NewClient/NewAdmin cannot slip in.
func (p *Person) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid person: %w", err)
	}
	if p.IsAdmin() && !p.Role.Valid() {
		return fmt.Errorf("invalid admin role: %q", p.Role)
	}
	return nil
}

// Kind reports the person category encoded in the id prefix.
func (p *Person) Kind() PersonKind {
	if strings.HasPrefix(p.ID, "A") {
		return KindAdmin
	}
	return KindClient
}

func (p *Person) IsAdmin() bool {
	return p.Kind() == KindAdmin
}

// CanRent reports whether this person may take rentals at all. Staff
// accounts manage the fleet but never rent from it.
func (p *Person) CanRent() bool {
	return !p.IsAdmin()
}

// RegisterPlate associates a vehicle with a client. Duplicate plates are
// rejected.
func (p *Person) RegisterPlate(plate string) bool {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	for _, existing := range p.RegisteredPlates {
		if existing == plate {
			return false
		}
	}
	p.RegisteredPlates = append(p.RegisteredPlates, plate)
	return true
}

// UnregisterPlate removes a vehicle association. Returns false when the
// plate was not registered.
func (p *Person) UnregisterPlate(plate string) bool {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	for i, existing := range p.RegisteredPlates {
		if existing == plate {
			p.RegisteredPlates = append(p.RegisteredPlates[:i], p.RegisteredPlates[i+1:]...)
			return true
		}
	}
	return false
}

// SetPassword hashes and stores the password.
func (p *Person) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	p.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares the password against the stored hash.
func (p *Person) CheckPassword(password string) bool {
	if p.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) == nil
}
