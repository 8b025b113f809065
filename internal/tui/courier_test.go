package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourierKey(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"", "unknown"},
		{"CJ대한통운", "cj"},
		{"CJ Logistics", "cj"},
		{"GS Postbox", "cvs"},
		{"CVSnet 편의점택배", "cvs"},
		{"Lotte", "lotte"},
		{"롯데택배", "lotte"},
		{"7-Eleven", "7-eleven"},
		{"Hanjin Express", "hanjin"},
		{"CU Post", "cupost"},
		{"Korea Post", "koreapost"},
		{"EPost", "koreapost"},
		{"FedEx", "unknown"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CourierKey(tc.name), "courier %q", tc.name)
	}
}

func TestCourierBadge(t *testing.T) {
	assert.Equal(t, "HJ", CourierBadge("Hanjin"))
	assert.Equal(t, "??", CourierBadge("mystery courier"))
}
