package catalog

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestParseCatalogCSV(t *testing.T) {
	input := strings.Join([]string{
		"name,price,quantity,unit,category,description,image_url",
		"Basmati Rice,120.50,10,kg,Grains,Long grain,https://img.example/rice.png",
		",10,5,,,,",
		"Toor Dal,abc,5,,,,",
		"Moong Dal,80,-2,,,,",
		"Sugar,42,20,kg,Essentials,,",
	}, "\n")

	rows, rowErrs, err := parseCatalogCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "Basmati Rice", rows[0].Name)
	assert.True(t, rows[0].Price.Equal(decimalFromString(t, "120.50")))
	assert.Equal(t, 10, rows[0].Quantity)
	assert.Equal(t, "Sugar", rows[1].Name)

	require.Len(t, rowErrs, 3)
	assert.Contains(t, rowErrs[0], "name is required")
	assert.Contains(t, rowErrs[1], "invalid price")
	assert.Contains(t, rowErrs[2], "invalid quantity")
}

func TestParseCatalogCSV_MissingHeader(t *testing.T) {
	_, _, err := parseCatalogCSV(strings.NewReader("name,price\nRice,10"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quantity")
}

func TestParseCatalogCSV_Empty(t *testing.T) {
	_, _, err := parseCatalogCSV(strings.NewReader(""))
	require.Error(t, err)
}
