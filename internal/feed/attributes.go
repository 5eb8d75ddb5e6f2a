package feed

import (
	"math"
	"strconv"
	"strings"
	"time"

	"tastebuddin/internal/models"
	"tastebuddin/internal/tokens"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type attributes map[string]any

var keyFolder = strings.NewReplacer("_", "", "-", "", " ", "")

// newAttributes folds keys so recipe_id, recipeId and recipeid all match.
func newAttributes(raw map[string]any) attributes {
	attrs := make(attributes, len(raw))
	for key, value := range raw {
		attrs[foldKey(key)] = value
	}
	return attrs
}

func foldKey(key string) string {
	return strings.ToLower(keyFolder.Replace(key))
}

func (a attributes) first(keys ...string) (any, bool) {
	for _, key := range keys {
		if value, ok := a[key]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

func (a attributes) stringAt(keys ...string) string {
	value, ok := a.first(keys...)
	if !ok {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

func (a attributes) intAt(keys ...string) int {
	value, ok := a.first(keys...)
	if !ok {
		return 0
	}
	n, _ := intValue(value)
	return n
}

func (a attributes) listAt(keys ...string) models.TokenList {
	value, _ := a.first(keys...)
	return models.TokenList(tokens.ParseList(value))
}

func (a attributes) idsAt(keys ...string) models.IDList {
	value, _ := a.first(keys...)
	return models.IDList(tokens.ParseIDs(value))
}

func (a attributes) uuidAt(keys ...string) uuid.UUID {
	value, ok := a.first(keys...)
	if !ok {
		return uuid.Nil
	}
	switch v := value.(type) {
	case uuid.UUID:
		return v
	case string:
		if id, err := uuid.Parse(v); err == nil {
			return id
		}
	}
	return uuid.Nil
}

func (a attributes) timeAt(keys ...string) time.Time {
	value, ok := a.first(keys...)
	if !ok {
		return time.Time{}
	}
	return timeValue(value)
}

// DecodeRecipe resolves a recipe attribute map into a Recipe, defaulting any
// missing or malformed field.
func DecodeRecipe(raw map[string]any) models.Recipe {
	attrs := newAttributes(raw)

	recipe := models.Recipe{
		Title:               attrs.stringAt("title"),
		Description:         attrs.stringAt("description"),
		Category:            attrs.stringAt("category"),
		MinutesToComplete:   attrs.intAt("minutestocomplete"),
		Ingredients:         attrs.listAt("ingredients"),
		Directions:          datatypes.JSONSlice[string](attrs.listAt("directions")),
		DietaryRestrictions: attrs.listAt("dietaryrestrictions", "restrictions"),
		Likes:               max(attrs.intAt("likes"), 0),
		AuthorID:            attrs.uuidAt("authorid"),
		AuthorName:          attrs.stringAt("authorname", "author"),
		PhotoPath:           attrs.stringAt("photopath"),
	}
	recipe.ID = attrs.intAt("recipeid", "id")
	recipe.CreatedAt = attrs.timeAt("datecreated", "createdat", "created")

	return recipe
}

// DecodeRecipes accepts a list of attribute maps, a single map, or a JSON
// document of either. Elements that are not maps are skipped.
func DecodeRecipes(raw any) []models.Recipe {
	maps := attributeMaps(raw)
	recipes := make([]models.Recipe, 0, len(maps))
	for _, m := range maps {
		recipes = append(recipes, DecodeRecipe(m))
	}
	return recipes
}

// DecodeProfile resolves a user attribute map. A single-element list is
// unwrapped. Any other shape yields an empty profile: no allergens and nothing
// unseen.
func DecodeProfile(raw any) models.User {
	maps := attributeMaps(raw)
	if len(maps) != 1 {
		return models.User{}
	}
	attrs := newAttributes(maps[0])

	user := models.User{
		Username:        attrs.stringAt("username"),
		Allergens:       attrs.listAt("allergens"),
		UnseenRecipes:   attrs.idsAt("unseenrecipes", "unseen"),
		LikedRecipes:    attrs.idsAt("likedrecipes", "liked"),
		DislikedRecipes: attrs.idsAt("dislikedrecipes", "disliked"),
		TotalLikes:      max(attrs.intAt("totallikes"), 0),
	}
	user.ID = attrs.uuidAt("userid", "id")

	return user
}

func attributeMaps(raw any) []map[string]any {
	switch v := raw.(type) {
	case map[string]any:
		return []map[string]any{v}
	case []map[string]any:
		return v
	case []any:
		maps := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				maps = append(maps, m)
			}
		}
		return maps
	case string:
		return decodeDocument([]byte(v))
	case []byte:
		return decodeDocument(v)
	case json.RawMessage:
		return decodeDocument(v)
	}
	return nil
}

func decodeDocument(data []byte) []map[string]any {
	var document any
	if err := json.Unmarshal(data, &document); err != nil {
		return nil
	}
	if _, ok := document.(string); ok {
		return nil
	}
	return attributeMaps(document)
}

func intValue(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case int32:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n, true
		}
	}
	return 0, false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

func timeValue(value any) time.Time {
	switch v := value.(type) {
	case time.Time:
		return v
	case string:
		text := strings.TrimSpace(v)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, text); err == nil {
				return t
			}
		}
	case float64:
		sec, frac := math.Modf(v)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC()
	case int64:
		return time.Unix(v, 0).UTC()
	case int:
		return time.Unix(int64(v), 0).UTC()
	}
	return time.Time{}
}
