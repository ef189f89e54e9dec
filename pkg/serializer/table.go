package serializer

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// writeTable renders v as a two-column FIELD/VALUE table. Nested structures
// are flattened into dotted paths; slice elements are indexed ("[0].Name").
func writeTable(out io.Writer, v any) error {
	// Round-trip through JSON so the table reflects the same field names
	// and visibility rules as the JSON output.
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to flatten value: %w", err)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("failed to flatten value: %w", err)
	}

	rows := map[string]string{}
	flatten("", generic, rows)

	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%s\n", k, rows[k])
	}
	return tw.Flush()
}

var printer = message.NewPrinter(language.English)

func flatten(prefix string, v any, rows map[string]string) {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(key, child, rows)
		}
	case []any:
		for i, child := range val {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), child, rows)
		}
	case float64:
		// JSON numbers decode as float64; render integers without a
		// fraction and with thousands separators for readability.
		if val == float64(int64(val)) {
			rows[prefix] = printer.Sprintf("%d", int64(val))
		} else {
			rows[prefix] = printer.Sprintf("%.2f", val)
		}
	case nil:
		rows[prefix] = ""
	default:
		rows[prefix] = fmt.Sprintf("%v", val)
	}
}
