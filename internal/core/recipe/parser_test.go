package recipe

import (
	"testing"

	"snap-pantry/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const markedRecipes = `Sure! Here you go.
RECIPE_START
Tomato Pasta
Ingredients:
- 200g pasta
- 2 tomatoes
Instructions:
1. Boil the pasta.
2. Add the tomatoes.
Cooking Time: 20 minutes
Difficulty: Easy
RECIPE_END

RECIPE_START
**Cheese Omelette**
Ingredients:
- 3 eggs
- 50g cheese
Instructions:
1. Beat the eggs.
2. Cook with cheese.
RECIPE_END`

func TestParseMarkedBlocks(t *testing.T) {
	recipes := Parse(markedRecipes)
	require.Len(t, recipes, 2)

	assert.Equal(t, common.Recipe{
		Title:        "Tomato Pasta",
		Ingredients:  []string{"200g pasta", "2 tomatoes"},
		Instructions: []string{"Boil the pasta.", "Add the tomatoes."},
		CookingTime:  "20 minutes",
		Difficulty:   "Easy",
	}, recipes[0])

	assert.Equal(t, "Cheese Omelette", recipes[1].Title)
	assert.Equal(t, []string{"3 eggs", "50g cheese"}, recipes[1].Ingredients)
	assert.Equal(t, []string{"Beat the eggs.", "Cook with cheese."}, recipes[1].Instructions)
	assert.Empty(t, recipes[1].CookingTime)
	assert.Empty(t, recipes[1].Difficulty)
}

func TestParseNumberedFallback(t *testing.T) {
	raw := `Here are some ideas.
Recipe 1: Fried Rice
Ingredients:
- 1 cup rice
Steps:
1. Fry the rice.
Recipe 2: Banana Smoothie
Ingredients:
- 2 bananas`

	recipes := Parse(raw)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Fried Rice", recipes[0].Title)
	assert.Equal(t, []string{"1 cup rice"}, recipes[0].Ingredients)
	assert.Equal(t, []string{"Fry the rice."}, recipes[0].Instructions)
	assert.Equal(t, "Banana Smoothie", recipes[1].Title)
	assert.Equal(t, []string{"2 bananas"}, recipes[1].Ingredients)
	assert.Empty(t, recipes[1].Instructions)
}

func TestParseSingleBlock(t *testing.T) {
	raw := `# Title: Veggie Soup
Ingredients
• 2 carrots
• 1 onion
Directions
1. Chop everything.
Preparation time: 10 min : 30 min`

	recipes := Parse(raw)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Veggie Soup", recipes[0].Title)
	assert.Equal(t, []string{"2 carrots", "1 onion"}, recipes[0].Ingredients)
	assert.Equal(t, []string{"Chop everything."}, recipes[0].Instructions)
	assert.Equal(t, "30 min", recipes[0].CookingTime)
}

func TestParseUnstructuredText(t *testing.T) {
	recipes := Parse("Just some chatter\nwith no structure at all")
	assert.NotNil(t, recipes)
	assert.Empty(t, recipes)

	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("   \n\n  "))
}

func TestParseBlock(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *common.Recipe
	}{
		{
			name: "title only",
			text: "Lonely Title",
			want: nil,
		},
		{
			name: "bullets outside any section",
			text: "Snack\n- crackers",
			want: nil,
		},
		{
			name: "non bullet lines dropped",
			text: "Salad\nIngredients:\nlettuce\n- tomato",
			want: &common.Recipe{
				Title:        "Salad",
				Ingredients:  []string{"tomato"},
				Instructions: []string{},
			},
		},
		{
			name: "numbered title",
			text: "2. Garlic Bread\nInstructions:\n- Toast it",
			want: &common.Recipe{
				Title:        "Garlic Bread",
				Ingredients:  []string{},
				Instructions: []string{"Toast it"},
			},
		},
		{
			name: "difficulty without colon",
			text: "Toast\nIngredients:\n- bread\nDifficulty Easy",
			want: &common.Recipe{
				Title:        "Toast",
				Ingredients:  []string{"bread"},
				Instructions: []string{},
				Difficulty:   "Difficulty Easy",
			},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseBlock(tt.text))
		})
	}
}

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "Pancakes", cleanTitle("## **Pancakes**"))
	assert.Equal(t, "Pancakes", cleanTitle("TITLE: Pancakes"))
	assert.Equal(t, "Pancakes", cleanTitle("1. title: Pancakes #"))
	assert.Equal(t, "", cleanTitle("**"))
}
