package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Fresh Farm Store", "fresh-farm-store"},
		{"  Anu's  Dairy!  ", "anu-s-dairy"},
		{"UPPER", "upper"},
		{"already-slugged", "already-slugged"},
		{"store   123", "store-123"},
		{"---", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Make(tc.in), "input %q", tc.in)
	}
}
