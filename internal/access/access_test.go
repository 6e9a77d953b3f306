package access

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/avelasquez/northwind-admin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserAPI struct {
	users map[string]models.User
}

func (f *fakeUserAPI) UserByEmail(_ context.Context, email string) (models.User, error) {
	return f.users[email], nil
}

func TestRoleNames(t *testing.T) {
	t.Parallel()

	strs := models.User{Roles: json.RawMessage(`["Administrator","DataEntry"]`)}
	assert.Equal(t, []string{"Administrator", "DataEntry"}, RoleNames(strs))

	objs := models.User{Roles: json.RawMessage(`[{"id":"r1","name":"DataEntry"}]`)}
	assert.Equal(t, []string{"DataEntry"}, RoleNames(objs))

	loose := models.User{Role: "Seller"}
	assert.Equal(t, []string{"Seller"}, RoleNames(loose))

	assert.Nil(t, RoleNames(models.User{}))
	assert.Nil(t, RoleNames(models.User{Roles: json.RawMessage(`[]`)}))
}

func TestResolve(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	api := &fakeUserAPI{users: map[string]models.User{
		"admin@nw.ec":  {Email: "admin@nw.ec", Roles: json.RawMessage(`["Administrator"]`)},
		"reader@nw.ec": {Email: "reader@nw.ec", Roles: json.RawMessage(`["ReadAdmin"]`)},
		"seller@nw.ec": {Email: "seller@nw.ec", Roles: json.RawMessage(`[{"name":"DataEntry"}]`)},
		"none@nw.ec":   {Email: "none@nw.ec"},
	}}

	admin, err := Resolve(ctx, api, "admin@nw.ec")
	require.NoError(t, err)
	assert.True(t, admin.Admin)

	reader, err := Resolve(ctx, api, "reader@nw.ec")
	require.NoError(t, err)
	assert.True(t, reader.Admin)

	seller, err := Resolve(ctx, api, "seller@nw.ec")
	require.NoError(t, err)
	assert.False(t, seller.Admin)

	_, err = Resolve(ctx, api, "none@nw.ec")
	require.ErrorIs(t, err, ErrNoRoles)
}

func TestCanOpen(t *testing.T) {
	t.Parallel()

	admin := Access{Roles: []string{"Administrator"}, Admin: true}
	limited := Access{Roles: []string{"DataEntry"}}

	for _, section := range []string{
		SectionHome, SectionClients, SectionSales, SectionProducts,
		SectionOrders, SectionUsers, SectionAuditLogs,
	} {
		assert.True(t, admin.CanOpen(section), section)
	}

	assert.True(t, limited.CanOpen(SectionClients))
	assert.True(t, limited.CanOpen(SectionSales))
	assert.False(t, limited.CanOpen(SectionOrders))
	assert.False(t, limited.CanOpen(SectionUsers))
	assert.False(t, limited.CanOpen(SectionAuditLogs))

	assert.Equal(t, SectionHome, admin.DefaultSection())
	assert.Equal(t, SectionClients, limited.DefaultSection())
}
