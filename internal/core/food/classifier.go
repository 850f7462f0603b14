package food

import "strings"

// foodCategories 常見的食物類別
var foodCategories = []string{
	"food", "fruit", "vegetable", "meat", "dish", "cuisine",
	"ingredient", "snack", "dessert", "beverage", "drink",
	"meal", "produce", "bread", "dairy", "seafood", "candy",
	"breakfast", "lunch", "dinner", "appetizer", "side dish",
}

// specificFoods 常見的具體食物
var specificFoods = []string{
	"apple", "banana", "orange", "strawberry", "grape", "lemon",
	"chicken", "beef", "pork", "fish", "shrimp", "salmon",
	"rice", "pasta", "noodle", "potato", "tomato", "carrot",
	"broccoli", "lettuce", "spinach", "corn", "cheese", "milk",
	"yogurt", "egg", "bread", "pizza", "burger", "sandwich",
	"cake", "cookie", "ice cream", "chocolate", "coffee", "tea",
	"juice", "soda", "water", "soup", "salad", "sauce",
}

// IsFood 判斷標籤是否代表食物
// 雙向子字串比對：標籤包含關鍵字，或關鍵字包含標籤。
// 短字串（例如 "a"）會因此誤判為食物，這是刻意保留的行為。
func IsFood(term string) bool {
	if term == "" {
		return false
	}
	lower := strings.ToLower(term)
	return matchesAny(lower, foodCategories) || matchesAny(lower, specificFoods)
}

func matchesAny(lower string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) || strings.Contains(keyword, lower) {
			return true
		}
	}
	return false
}
