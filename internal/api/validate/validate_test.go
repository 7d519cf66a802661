package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequired(t *testing.T) {
	assert.Nil(t, Required("title", "1984"))
	assert.NotNil(t, Required("title", ""))
	assert.NotNil(t, Required("title", "   "))
}

func TestMinInt(t *testing.T) {
	assert.Nil(t, MinInt("total_copies", 1, 1))
	assert.NotNil(t, MinInt("total_copies", 0, 1))
}

func TestCollect(t *testing.T) {
	assert.NoError(t, Collect(Required("title", "x"), MinInt("n", 2, 1)))

	err := Collect(Required("title", ""), MinInt("n", 0, 1))
	require.Error(t, err)
	assert.Equal(t, "title: required; n: must be >= 1", err.Error())
}
