package food

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFood(t *testing.T) {
	tests := []struct {
		name string
		term string
		want bool
	}{
		{"specific food", "apple", true},
		{"case insensitive", "Granny Smith APPLE", true},
		{"category", "Dairy product", true},
		{"keyword contains term", "straw", true},
		{"single letter matches long keyword", "a", true},
		{"multi word keyword", "Side Dish", true},
		{"non food", "truck", false},
		{"non food phrase", "steering wheel", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFood(tt.term))
		})
	}
}

func TestIsFoodShortTermsMatchInsideKeywords(t *testing.T) {
	// "car" 是 "carrot" 的子字串
	assert.True(t, IsFood("car"))
	assert.True(t, IsFood("CORN"))
	assert.False(t, IsFood("xyz"))
}
