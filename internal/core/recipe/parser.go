package recipe

import (
	"regexp"
	"strings"

	"snap-pantry/internal/pkg/common"
)

var (
	markerSplit   = regexp.MustCompile(`RECIPE_START|RECIPE_END`)
	numberedSplit = regexp.MustCompile(`Recipe \d+:|RECIPE \d+:`)

	titlePrefix = regexp.MustCompile(`(?i)^(#+|\*+|\d+\.|title:)\s*`)
	titleSuffix = regexp.MustCompile(`[\s*#]+$`)
	bulletRe    = regexp.MustCompile(`^(-|\d+\.|•)`)
)

type section int

const (
	sectionNone section = iota
	sectionIngredients
	sectionInstructions
)

// Parse 將模型回傳的自由文字切成多份食譜
// 依序嘗試 RECIPE_START/RECIPE_END 標記、"Recipe N:" 編號，最後把整段當成一份。
// 無法解析的區塊會被略過，不會回傳錯誤。
func Parse(raw string) []common.Recipe {
	recipes := make([]common.Recipe, 0)

	blocks := splitNonBlank(markerSplit, raw)
	if len(blocks) < 2 {
		blocks = splitNonBlank(numberedSplit, raw)
		if len(blocks) < 2 {
			blocks = []string{raw}
		}
	}

	for _, block := range blocks {
		if r := ParseBlock(block); r != nil {
			recipes = append(recipes, *r)
		}
	}
	return recipes
}

func splitNonBlank(re *regexp.Regexp, text string) []string {
	var out []string
	for _, part := range re.Split(text, -1) {
		if strings.TrimSpace(part) != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseBlock 解析單一食譜區塊，缺少標題或內容時回傳 nil
func ParseBlock(text string) *common.Recipe {
	lines := nonEmptyLines(text)
	if len(lines) == 0 {
		return nil
	}

	r := &common.Recipe{
		Title:        cleanTitle(lines[0]),
		Ingredients:  []string{},
		Instructions: []string{},
	}

	current := sectionNone
	for _, line := range lines[1:] {
		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "ingredient"):
			current = sectionIngredients
			continue
		case strings.Contains(lower, "instruction"),
			strings.Contains(lower, "direction"),
			strings.Contains(lower, "steps"):
			current = sectionInstructions
			continue
		case strings.Contains(lower, "cooking time"),
			strings.Contains(lower, "preparation time"):
			r.CookingTime = afterLastColon(line)
			continue
		case strings.Contains(lower, "difficulty"):
			r.Difficulty = afterLastColon(line)
			continue
		}

		if current == sectionNone || !bulletRe.MatchString(line) {
			continue
		}
		item := strings.TrimSpace(bulletRe.ReplaceAllString(line, ""))
		if current == sectionIngredients {
			r.Ingredients = append(r.Ingredients, item)
		} else {
			r.Instructions = append(r.Instructions, item)
		}
	}

	if r.Title == "" || (len(r.Ingredients) == 0 && len(r.Instructions) == 0) {
		return nil
	}
	return r
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func cleanTitle(line string) string {
	title := strings.TrimSpace(line)
	for {
		stripped := titlePrefix.ReplaceAllString(title, "")
		if stripped == title {
			break
		}
		title = stripped
	}
	return strings.TrimSpace(titleSuffix.ReplaceAllString(title, ""))
}

// afterLastColon 取最後一個冒號之後的文字，沒有冒號時回傳整行
func afterLastColon(line string) string {
	if i := strings.LastIndex(line, ":"); i >= 0 {
		return strings.TrimSpace(line[i+1:])
	}
	return strings.TrimSpace(line)
}
