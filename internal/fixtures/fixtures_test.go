package fixtures

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/leave-engine-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedLeaveTypes(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLeaveTypeRepository()

	types, err := SeedLeaveTypes(ctx, repo)
	require.NoError(t, err)
	require.Len(t, types, 4)

	byCode := map[string]bool{}
	for _, lt := range types {
		assert.NotEmpty(t, lt.ID)
		assert.True(t, lt.IsActive)
		byCode[lt.Code] = true
	}
	assert.True(t, byCode["ANNUAL"])
	assert.True(t, byCode["SICK"])
	assert.True(t, byCode["UNPAID"])
	assert.True(t, byCode["WFH"])

	stored, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 4)

	// Seeding twice trips the code uniqueness check.
	_, err = SeedLeaveTypes(ctx, repo)
	assert.Error(t, err)
}

func TestSeedEmployees(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewEmployeeRepository()

	employees, err := SeedEmployees(ctx, repo)
	require.NoError(t, err)
	require.Len(t, employees, 2)

	var managers, reports int
	for _, e := range employees {
		if e.ManagerID == nil {
			managers++
		} else {
			reports++
			_, err := repo.GetByID(ctx, *e.ManagerID)
			assert.NoError(t, err)
		}
	}
	assert.Equal(t, 1, managers)
	assert.Equal(t, 1, reports)
}
