package recipe

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	unitsLong  = []string{"tablespoons", "tablespoon", "ounces", "ounce", "teaspoons", "teaspoon", "cups", "pounds"}
	unitsShort = []string{"tbsp", "tbsp", "oz", "oz", "tsp", "tsp", "cup", "pound"}

	units = map[string]bool{
		"tbsp": true, "oz": true, "tsp": true, "cup": true, "pound": true,
		"kg": true, "g": true,
	}

	parenthesesRe = regexp.MustCompile(` *\([^)]*\) *`)
)

// ParseIngredients replaces the recipe's ingredients with the structured form
// of the raw ingredient descriptions. Empty descriptions are dropped.
func (r *Recipe) ParseIngredients(raw []string) {
	parsed := make([]Ingredient, 0, len(raw))
	for _, desc := range raw {
		ing, ok := ParseIngredient(desc)
		if !ok {
			continue
		}
		parsed = append(parsed, ing)
	}
	r.Ingredients = parsed
}

// ParseIngredient turns a free-text description like "1 1/2 cups (12 oz) flour"
// into {1.5, "cup", "flour"}.
func ParseIngredient(desc string) (Ingredient, bool) {
	words := normalize(desc)
	if len(words) == 0 {
		return Ingredient{}, false
	}

	unitIndex := -1
	for i, w := range words {
		if units[w] {
			unitIndex = i
			break
		}
	}

	if unitIndex > -1 {
		return Ingredient{
			Count:      sumAmounts(words[:unitIndex]),
			Unit:       words[unitIndex],
			Ingredient: strings.Join(words[unitIndex+1:], " "),
		}, true
	}

	if count, ok := leadingAmount(words[0]); ok && count > 0 {
		return Ingredient{
			Count:      count,
			Ingredient: strings.Join(words[1:], " "),
		}, true
	}

	return Ingredient{
		Count:      1,
		Ingredient: strings.Join(words, " "),
	}, true
}

// normalize lower-cases the description, shortens unit words and strips
// parenthesised text.
func normalize(desc string) []string {
	s := strings.ToLower(desc)
	s = parenthesesRe.ReplaceAllString(s, " ")

	words := strings.Fields(s)
	for i, w := range words {
		for j, long := range unitsLong {
			if w == long {
				words[i] = unitsShort[j]
				break
			}
		}
	}
	return words
}

// sumAmounts adds up the amount words in front of a unit, so "4 1/2" is 4.5.
// Words that are not amounts are skipped.
func sumAmounts(words []string) float64 {
	var total float64
	for _, w := range words {
		if v, ok := parseAmount(w); ok {
			total += v
		}
	}
	return total
}

// leadingAmount reads the amount at the start of a word with no unit after it.
// A range like "2-3" counts as its lower bound.
func leadingAmount(word string) (float64, bool) {
	first, _, _ := strings.Cut(word, "-")
	return parseAmount(first)
}

// parseAmount reads a number, a fraction "a/b", or a hyphenated pair "1-1/2"
// which is taken as a sum.
func parseAmount(word string) (float64, bool) {
	if word == "" {
		return 0, false
	}
	if strings.Contains(word, "-") {
		var total float64
		for _, part := range strings.Split(word, "-") {
			v, ok := parseAmount(part)
			if !ok {
				return 0, false
			}
			total += v
		}
		return total, true
	}
	if num, den, found := strings.Cut(word, "/"); found {
		n, ok := parseNumber(num)
		if !ok {
			return 0, false
		}
		d, ok := parseNumber(den)
		if !ok || d == 0 {
			return 0, false
		}
		return n / d, true
	}
	return parseNumber(word)
}

func parseNumber(word string) (float64, bool) {
	v, err := strconv.ParseFloat(word, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
