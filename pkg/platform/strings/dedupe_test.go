package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	t.Run("trims, drops empties, and dedupes in order", func(t *testing.T) {
		got := DedupeAndTrim([]string{"  foo ", "bar", "foo", "", "  "})
		assert.Equal(t, []string{"foo", "bar"}, got)
	})

	t.Run("nil input stays nil", func(t *testing.T) {
		assert.Nil(t, DedupeAndTrim(nil))
	})
}
