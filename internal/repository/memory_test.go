package repository

import (
	"context"
	"testing"

	"github.com/adamanr/org_registry/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SaveFindDelete(t *testing.T) {
	ctx := context.Background()
	repos := NewMemory()

	dept := CreateTestDepartment("D100")
	require.NoError(t, repos.Departments.Save(ctx, dept))

	found, err := repos.Departments.FindByID(ctx, "D100")
	require.NoError(t, err)
	assert.Equal(t, dept, found)

	require.NoError(t, repos.Departments.DeleteByID(ctx, "D100"))

	_, err = repos.Departments.FindByID(ctx, "D100")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	repos := NewMemory()

	require.NoError(t, repos.DeptPosRels.Save(ctx, CreateTestDeptPosRel(1, "D100")))

	reassigned := entity.NewDeptPosRel(entity.DeptPosRelParams{UserPid: 1, DeptCode: "D100", PstCode: "P09", Prrk: 2})
	require.NoError(t, repos.DeptPosRels.Save(ctx, reassigned))

	found, err := repos.DeptPosRels.FindByID(ctx, entity.NewDeptPosRelKey(1, "D100"))
	require.NoError(t, err)
	assert.Equal(t, reassigned, found)

	all, err := repos.DeptPosRels.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemory_FindAllOrdered(t *testing.T) {
	ctx := context.Background()
	repos := NewMemory()

	for _, key := range []entity.DeptPosRelKey{{UserPid: 2, DeptCode: "A"}, {UserPid: 1, DeptCode: "B"}, {UserPid: 1, DeptCode: "A"}} {
		require.NoError(t, repos.DeptPosRels.Save(ctx, CreateTestDeptPosRel(key.UserPid, key.DeptCode)))
	}

	all, err := repos.DeptPosRels.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, entity.NewDeptPosRelKey(1, "A"), all[0].Key())
	assert.Equal(t, entity.NewDeptPosRelKey(1, "B"), all[1].Key())
	assert.Equal(t, entity.NewDeptPosRelKey(2, "A"), all[2].Key())

	empty, err := repos.Users.FindAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMemory_EmptyKey(t *testing.T) {
	ctx := context.Background()
	repos := NewMemory()

	assert.ErrorIs(t, repos.Positions.Save(ctx, CreateTestPosition(" ")), ErrEmptyKey)
	assert.ErrorIs(t, repos.Users.Save(ctx, CreateTestUser(0)), ErrEmptyKey)

	_, err := repos.DeptPosRels.FindByID(ctx, entity.NewDeptPosRelKey(1, ""))
	assert.ErrorIs(t, err, ErrEmptyKey)
	assert.ErrorIs(t, repos.Departments.DeleteByID(ctx, ""), ErrEmptyKey)
}

func TestMemory_DeleteMissing(t *testing.T) {
	assert.NoError(t, NewMemory().Users.DeleteByID(context.Background(), 99))
}

func TestMemory_LogicalDeleteIsIndependent(t *testing.T) {
	ctx := context.Background()
	repos := NewMemory()

	audit := CreateTestAudit()
	audit.DeleteFlag = entity.FlagDeleted
	pos := entity.NewPosition(entity.PositionParams{PstCode: "P01", PstName: "Retired", Audit: audit})
	require.NoError(t, repos.Positions.Save(ctx, pos))

	found, err := repos.Positions.FindByID(ctx, "P01")
	require.NoError(t, err)
	assert.True(t, found.IsDeleted())
}
