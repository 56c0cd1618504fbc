package expr

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Interpolate replaces every {expression} placeholder in text with its value.
// "{{" and "}}" are literal braces. An unterminated "{" is kept verbatim.
func (s *Scope) Interpolate(text string) (string, error) {
	if !strings.ContainsAny(text, "{}") {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '{' && i+1 < len(text) && text[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '}' && i+1 < len(text) && text[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				b.WriteString(text[i:])
				return b.String(), nil
			}
			source := strings.TrimSpace(text[i+1 : i+1+end])
			if source != "" {
				val, err := s.Eval(source)
				if err != nil {
					return "", err
				}
				b.WriteString(Format(val))
			}
			i += end + 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// Format renders a value the way it appears in passage content.
// Whole numbers are printed without a fractional part and nil prints nothing.
func Format(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any, map[string]any:
		encoded, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(encoded)
	default:
		return fmt.Sprint(val)
	}
}
