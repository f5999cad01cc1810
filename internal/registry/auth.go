package registry

import "fleet-rental/internal/models"

// Authenticate checks a person's credentials. This is a console-session
// convenience: failures are indistinguishable between an unknown id and a
// wrong password.
func (r *Registry) Authenticate(id, password string) (*models.Person, error) {
	p, ok := r.people[id]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if !p.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return p, nil
}
