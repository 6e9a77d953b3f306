package auditlog

import (
	"testing"

	"github.com/avelasquez/northwind-admin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogs = []models.DomainLog{
	{ID: 1, CreatedDate: "2025-11-10T09:00:00", Information: "Customer created", UserName: "admin"},
	{ID: 2, CreatedDate: "2025-11-12T14:30:00", Information: "Order deleted", UserName: "maria"},
	{ID: 3, CreatedDate: "2025-11-11T08:15:00", Information: "Product updated", UserName: "admin"},
	{ID: 77, CreatedDate: "not-a-date", Information: "Orphan entry", UserName: ""},
}

func TestSortByDateDesc(t *testing.T) {
	t.Parallel()

	sorted := SortByDateDesc(testLogs)
	require.Len(t, sorted, 4)
	assert.Equal(t, 2, sorted[0].ID)
	assert.Equal(t, 3, sorted[1].ID)
	assert.Equal(t, 1, sorted[2].ID)
	assert.Equal(t, 77, sorted[3].ID, "unparseable dates sink to the end")

	// Input untouched.
	assert.Equal(t, 1, testLogs[0].ID)
}

func TestDistinctUsers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"admin", "maria"}, DistinctUsers(testLogs))
	assert.Empty(t, DistinctUsers(nil))
}

func TestFilter(t *testing.T) {
	t.Parallel()

	byUser := Filter(testLogs, "admin", "")
	require.Len(t, byUser, 2)

	byText := Filter(testLogs, "", "order")
	require.Len(t, byText, 1)
	assert.Equal(t, 2, byText[0].ID)

	combined := Filter(testLogs, "admin", "product")
	require.Len(t, combined, 1)
	assert.Equal(t, 3, combined[0].ID)

	byID := Filter(testLogs, "", "77")
	require.Len(t, byID, 1)
	assert.Equal(t, 77, byID[0].ID)

	byDate := Filter(testLogs, "", "2025-11-12")
	require.Len(t, byDate, 1)
	assert.Equal(t, 2, byDate[0].ID)

	assert.Len(t, Filter(testLogs, "", ""), 4)
	assert.Empty(t, Filter(testLogs, "nobody", ""))
}
