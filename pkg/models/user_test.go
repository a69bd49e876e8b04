package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserPermissions(t *testing.T) {
	t.Parallel()

	librarian := &User{Role: &Role{
		Name: RoleLibrarian,
		Permissions: []*Permission{
			{Resource: ResourceCatalog, Operation: OperationRead},
			{Resource: ResourceLoans, Operation: OperationWrite},
		},
	}}
	assert.True(t, librarian.HasPermission(ResourceCatalog, OperationRead))
	assert.False(t, librarian.HasPermission(ResourceCatalog, OperationWrite))
	assert.True(t, librarian.IsStaff())
	assert.Equal(t, PermissionLoansWrite, librarian.Role.Permissions[1].Codename())

	noRole := &User{}
	assert.False(t, noRole.HasPermission(ResourceCatalog, OperationRead))
	assert.False(t, noRole.IsStaff())
}
