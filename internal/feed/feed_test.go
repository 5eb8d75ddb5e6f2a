package feed

import (
	"testing"

	"tastebuddin/internal/models"
	"tastebuddin/internal/tokens"

	"github.com/stretchr/testify/assert"
)

func recipe(id int, title string, ingredients, restrictions []string) models.Recipe {
	r := models.Recipe{
		Title:               title,
		Ingredients:         ingredients,
		DietaryRestrictions: restrictions,
	}
	r.ID = id
	return r
}

func catalog() []models.Recipe {
	return []models.Recipe{
		recipe(1, "PB Cookies", []string{"flour", "peanuts"}, nil),
		recipe(2, "Salmon", []string{"salmon"}, []string{"fish", "pescatarian"}),
		recipe(3, "Cake", []string{"flour", "sugar"}, []string{"vegetarian"}),
	}
}

func titles(recipes []models.Recipe) []string {
	result := make([]string, 0, len(recipes))
	for _, r := range recipes {
		result = append(result, r.Title)
	}
	return result
}

func TestEngine_FilterSafe(t *testing.T) {
	engine := New(tokens.Default())

	tests := []struct {
		name      string
		allergens []string
		expected  []string
	}{
		{name: "Peanut and fish allergy keeps only cake", allergens: []string{"peanuts", "fish"}, expected: []string{"Cake"}},
		{name: "No allergens is identity", allergens: nil, expected: []string{"PB Cookies", "Salmon", "Cake"}},
		{name: "Allergens that clean to nothing are ignored", allergens: []string{"", "123"}, expected: []string{"PB Cookies", "Salmon", "Cake"}},
		{name: "Ingredient match after normalization", allergens: []string{"Peanut"}, expected: []string{"Salmon", "Cake"}},
		{name: "Restriction match keeps order", allergens: []string{"VEGETARIAN"}, expected: []string{"PB Cookies", "Salmon"}},
		{name: "Unknown allergen removes nothing", allergens: []string{"kiwi"}, expected: []string{"PB Cookies", "Salmon", "Cake"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, titles(engine.FilterSafe(catalog(), tt.allergens)))
		})
	}
}

func TestEngine_FilterSafe_SynonymVariants(t *testing.T) {
	engine := New(nil)
	recipes := []models.Recipe{
		recipe(1, "Pesto", []string{"basil", "tree_nuts"}, nil),
		recipe(2, "Brittle", []string{"sugar"}, []string{"Tree Nut"}),
		recipe(3, "Salad", []string{"lettuce"}, nil),
	}

	assert.Equal(t, []string{"Salad"}, titles(engine.FilterSafe(recipes, []string{"treenuts"})))
}

func TestEngine_FilterSafe_DoesNotMutateInput(t *testing.T) {
	engine := New(nil)
	recipes := catalog()

	result := engine.FilterSafe(recipes, nil)
	result[0].Title = "changed"

	assert.Equal(t, "PB Cookies", recipes[0].Title)
	assert.NotNil(t, engine.FilterSafe(nil, nil))
}

func TestFilterUnseen(t *testing.T) {
	tests := []struct {
		name     string
		unseen   []int
		expected []string
	}{
		{name: "Single unseen", unseen: []int{3}, expected: []string{"Cake"}},
		{name: "Keeps catalog order", unseen: []int{3, 1}, expected: []string{"PB Cookies", "Cake"}},
		{name: "Empty unseen gives nothing", unseen: []int{}, expected: []string{}},
		{name: "Nil unseen gives nothing", unseen: nil, expected: []string{}},
		{name: "Unknown ids are ignored", unseen: []int{99}, expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FilterUnseen(catalog(), tt.unseen)
			assert.NotNil(t, result)
			assert.Equal(t, tt.expected, titles(result))
		})
	}
}

func TestFilterUnseen_MembershipProperty(t *testing.T) {
	unseen := []int{2, 3}
	result := FilterUnseen(catalog(), unseen)

	included := make(map[int]bool)
	for _, r := range result {
		included[r.ID] = true
	}
	for _, r := range catalog() {
		assert.Equal(t, models.IDList(unseen).Contains(r.ID), included[r.ID], r.Title)
	}
}

func TestEngine_Generate(t *testing.T) {
	engine := New(nil)

	tests := []struct {
		name     string
		user     models.User
		expected []string
	}{
		{
			name:     "Unseen cake without allergens",
			user:     models.User{UnseenRecipes: models.IDList{3}},
			expected: []string{"Cake"},
		},
		{
			name:     "Nothing unseen gives empty feed",
			user:     models.User{Allergens: models.TokenList{"peanuts"}},
			expected: []string{},
		},
		{
			name:     "Unseen then allergen filter",
			user:     models.User{UnseenRecipes: models.IDList{1, 2, 3}, Allergens: models.TokenList{"fish"}},
			expected: []string{"PB Cookies", "Cake"},
		},
		{
			name:     "All unseen recipes unsafe",
			user:     models.User{UnseenRecipes: models.IDList{1}, Allergens: models.TokenList{"peanut"}},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.Generate(catalog(), tt.user)
			assert.NotNil(t, result)
			assert.Equal(t, tt.expected, titles(result))
		})
	}
}

func TestEngine_Generate_Idempotent(t *testing.T) {
	engine := New(nil)
	user := models.User{UnseenRecipes: models.IDList{1, 2, 3}, Allergens: models.TokenList{"fish"}}

	once := engine.Generate(catalog(), user)
	twice := engine.Generate(once, user)

	assert.Equal(t, titles(once), titles(twice))
}

func TestEngine_SafeIDs(t *testing.T) {
	engine := New(nil)

	assert.Equal(t, []int{3}, engine.SafeIDs(catalog(), []string{"peanuts", "fish"}))
	assert.Equal(t, []int{1, 2, 3}, engine.SafeIDs(catalog(), nil))
}

func TestEngine_SafeFor(t *testing.T) {
	engine := New(nil)
	users := []models.User{
		{Username: "nut_free", Allergens: models.TokenList{"peanuts"}},
		{Username: "fish_free", Allergens: models.TokenList{"fish"}},
		{Username: "anything"},
	}

	safe := engine.SafeFor(catalog()[0], users)

	names := make([]string, 0, len(safe))
	for _, u := range safe {
		names = append(names, u.Username)
	}
	assert.Equal(t, []string{"fish_free", "anything"}, names)
}

func TestEngine_GenerateFromAttributes(t *testing.T) {
	engine := New(nil)
	rawRecipes := []any{
		map[string]any{"recipeid": float64(1), "title": "PB Cookies", "ingredients": "['flour', 'peanuts']", "dietaryrestrictions": "[]"},
		map[string]any{"recipeid": float64(2), "title": "Salmon", "ingredients": []any{"salmon"}, "dietaryrestrictions": "fish, pescatarian"},
		map[string]any{"recipeid": float64(3), "title": "Cake", "ingredients": []any{"flour", "sugar"}, "dietaryrestrictions": []any{"vegetarian"}},
	}

	tests := []struct {
		name     string
		profile  any
		expected []string
	}{
		{
			name:     "Single element profile list is unwrapped",
			profile:  []any{map[string]any{"allergens": `["peanuts","fish"]`, "unseen_recipes": "[1, 2, 3]"}},
			expected: []string{"Cake"},
		},
		{
			name:     "Profile as map with camelCase keys",
			profile:  map[string]any{"unseenRecipes": []any{float64(3)}},
			expected: []string{"Cake"},
		},
		{
			name:     "Unrecognized profile shape gives empty feed",
			profile:  42,
			expected: []string{},
		},
		{
			name:     "Multi element profile list gives empty feed",
			profile:  []any{map[string]any{}, map[string]any{}},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, titles(engine.GenerateFromAttributes(rawRecipes, tt.profile)))
		})
	}
}
