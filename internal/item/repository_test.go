package item

import (
	"testing"

	"github.com/nekogravitycat/shareit/internal/pkg/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchQuery(t *testing.T) {
	sql, args, err := searchQuery("50%_off", request.Page{From: 20, Size: 10}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "i.is_available = $1")
	assert.Contains(t, sql, "(i.name ILIKE $2 OR i.description ILIKE $3)")
	assert.Contains(t, sql, "ORDER BY i.id ASC")
	assert.Contains(t, sql, "LIMIT 10 OFFSET 20")
	assert.Equal(t, []any{true, `%50\%\_off%`, `%50\%\_off%`}, args)
}
