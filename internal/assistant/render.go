package assistant

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/genycrm/genycrm/internal/query"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// ptBR formats numbers the way the dashboard's users read them:
// dot-grouped thousands, comma decimals.
var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// listSeparator joins per-row values for list-style answers.
const listSeparator = ", "

// RenderAnswer binds {{name}} placeholders in the explanation to the
// matching columns of the query result. Pure function: no I/O, same
// inputs always yield the same string.
//
// Binding rules per result shape:
//   - no SQL in the reply: explanation returned verbatim;
//   - single row: value at the named key, nil/absent becomes "0" so
//     the sentence stays complete on an empty aggregate;
//   - row sequence: the named value from every row, joined in row
//     order;
//   - bare scalar with exactly one distinct placeholder: bound
//     directly.
//
// Placeholders that cannot be bound stay literal, which makes a
// prompt/SQL alias mismatch visible in the answer.
func RenderAnswer(reply ModelReply, result query.Result) string {
	if strings.TrimSpace(reply.SQL) == "" {
		return reply.Explanation
	}

	explanation := reply.Explanation
	if explanation == "" {
		explanation = "Resultado: {{valor}}"
	}

	distinct := map[string]struct{}{}
	for _, match := range placeholderPattern.FindAllStringSubmatch(explanation, -1) {
		distinct[match[1]] = struct{}{}
	}

	return placeholderPattern.ReplaceAllStringFunc(explanation, func(token string) string {
		name := placeholderPattern.FindStringSubmatch(token)[1]
		if value, ok := resolvePlaceholder(name, result, len(distinct)); ok {
			return value
		}
		return token
	})
}

// UnresolvedPlaceholders counts {{name}} tokens left in a rendered
// answer.
func UnresolvedPlaceholders(answer string) int {
	return len(placeholderPattern.FindAllString(answer, -1))
}

func resolvePlaceholder(name string, result query.Result, distinct int) (string, bool) {
	if result.Value == nil {
		return "0", true
	}

	rows, ok := result.Rows()
	if !ok {
		// Bare scalar: only an unambiguous single-token template can
		// bind it.
		if distinct == 1 {
			return formatValue(result.Value), true
		}
		return "", false
	}

	switch len(rows) {
	case 0:
		return "0", true
	case 1:
		value, present := rows[0][name]
		if !present || value == nil {
			return "0", true
		}
		return formatValue(value), true
	default:
		values := make([]string, 0, len(rows))
		for _, row := range rows {
			if value, present := row[name]; present {
				values = append(values, formatValue(value))
			}
		}
		if len(values) == 0 {
			return "", false
		}
		return strings.Join(values, listSeparator), true
	}
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "0"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return ptBR.Sprintf("%d", i)
		}
		if f, err := v.Float64(); err == nil {
			return formatValue(f)
		}
		return v.String()
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return ptBR.Sprintf("%d", int64(v))
		}
		return formatFloat(v)
	case int:
		return ptBR.Sprintf("%d", v)
	case int64:
		return ptBR.Sprintf("%d", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Fractional values read as money in this domain; whole numbers are
// counts and keep only the grouping.
func formatFloat(f float64) string {
	return ptBR.Sprintf("R$ %.2f", f)
}
