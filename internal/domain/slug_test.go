package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Shoes", "shoes"},
		{"Men's T-Shirts", "men-s-t-shirts"},
		{"  Summer  Sale!!  ", "summer-sale"},
		{"TPL-001-red", "tpl-001-red"},
		{"---", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}
