package database

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchema_ColumnLimits(t *testing.T) {
	column := func(name string) string {
		m := regexp.MustCompile(`(?m)^\s*` + name + `\s+([A-Z]+(\(\d+\))?)`).FindStringSubmatch(schema)
		if m == nil {
			t.Fatalf("column %s not in schema", name)
		}
		return m[1]
	}

	// usernames and titles have no length cap in the API
	assert.Equal(t, "TEXT", column("username"))
	assert.Equal(t, "TEXT", column("title"))
	assert.Equal(t, "VARCHAR(100)", column("description"))
	assert.Equal(t, "VARCHAR(24)", column("id"))
}
