package export

import (
	"strconv"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "abc", truncateUTF8("abc", 10))
	assert.Equal(t, "ab", truncateUTF8("abc", 2))
	assert.Equal(t, "a", truncateUTF8("aé", 2))
	assert.Empty(t, truncateUTF8("é", 1))
}

func TestDBFValue(t *testing.T) {
	t.Run("numbers are right-aligned to the field size", func(t *testing.T) {
		field := shp.NumberField("population", 18)

		assert.Equal(t, strings.Repeat(" ", 16)+"42", dbfValue(field, int64(42)))
	})

	t.Run("reals keep the field precision", func(t *testing.T) {
		field := shp.FloatField("latitude", 24, 15)

		got := dbfValue(field, -26.20227)
		assert.Len(t, got, 24)
		assert.True(t, strings.HasPrefix(got, " "))
		parsed, err := strconv.ParseFloat(strings.TrimSpace(got), 64)
		require.NoError(t, err)
		assert.InDelta(t, -26.20227, parsed, 1e-12)
	})

	t.Run("text is left-aligned and padded by bytes", func(t *testing.T) {
		field := shp.StringField("name", 10)

		assert.Equal(t, "Ñoño    ", dbfValue(field, "Ñoño"))
		assert.Equal(t, "abcdefghij", dbfValue(field, "abcdefghijkl"))
		assert.Equal(t, strings.Repeat(" ", 10), dbfValue(field, ""))
	})
}
