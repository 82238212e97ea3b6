package i18n

import (
	"fmt"
	"strings"
)

// M is a map of placeholder values.
type M map[string]any

// ReplacePlaceholders replaces {{name}} placeholders with values from the map.
// Unknown placeholders remain unchanged.
func ReplacePlaceholders(template string, placeholders M) string {
	if len(placeholders) < 1 || !strings.Contains(template, "{{") {
		return template
	}

	result := template
	for key, value := range placeholders {
		result = strings.ReplaceAll(result, "{{"+key+"}}", fmt.Sprintf("%v", value))
	}

	return result
}
