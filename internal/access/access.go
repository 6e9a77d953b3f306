// Package access resolves the logged-in user's roles and gates dashboard
// sections on them. Roles always come from the backend; the decoded token
// email only selects which user record to ask for.
package access

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/avelasquez/northwind-admin/internal/models"
)

// ErrNoRoles means the account has no roles assigned. The caller is
// expected to clear the session and send the user back to login.
var ErrNoRoles = errors.New("no roles assigned")

// Sections of the dashboard.
const (
	SectionHome      = "inicio"
	SectionClients   = "clientes"
	SectionSales     = "ventas"
	SectionProducts  = "productos"
	SectionOrders    = "ordenes"
	SectionUsers     = "usuarios"
	SectionAuditLogs = "logs"
)

var adminRoles = map[string]bool{
	"Administrator": true,
	"ReadAdmin":     true,
}

// limitedSections is what any non-admin role may open.
var limitedSections = map[string]bool{
	SectionHome:     true,
	SectionClients:  true,
	SectionSales:    true,
	SectionProducts: true,
}

type UserAPI interface {
	UserByEmail(ctx context.Context, email string) (models.User, error)
}

type Access struct {
	Roles []string
	Admin bool
}

// Resolve looks the user up by email and derives the access level from
// its roles. No resolvable roles is an auth failure, not a degraded mode.
func Resolve(ctx context.Context, api UserAPI, email string) (Access, error) {
	user, err := api.UserByEmail(ctx, email)
	if err != nil {
		return Access{}, fmt.Errorf("fetch user by email: %w", err)
	}

	roles := RoleNames(user)
	if len(roles) == 0 {
		return Access{}, ErrNoRoles
	}

	a := Access{Roles: roles}
	for _, r := range roles {
		if adminRoles[r] {
			a.Admin = true
			break
		}
	}
	return a, nil
}

// RoleNames normalizes the polymorphic roles field: a plain string array,
// an array of objects with a name, or a single loose role property.
func RoleNames(u models.User) []string {
	if len(u.Roles) > 0 {
		var names []string
		if err := json.Unmarshal(u.Roles, &names); err == nil && len(names) > 0 {
			return names
		}

		var objs []struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(u.Roles, &objs); err == nil {
			names = names[:0]
			for _, o := range objs {
				if o.Name != "" {
					names = append(names, o.Name)
				}
			}
			if len(names) > 0 {
				return names
			}
		}
	}

	if u.Role != "" {
		return []string{u.Role}
	}
	return nil
}

// CanOpen reports whether the user may open a dashboard section. Admins
// open everything; everyone else gets the limited set.
func (a Access) CanOpen(section string) bool {
	if a.Admin {
		return true
	}
	return limitedSections[section]
}

// DefaultSection is where the user lands after login.
func (a Access) DefaultSection() string {
	if a.Admin {
		return SectionHome
	}
	return SectionClients
}
