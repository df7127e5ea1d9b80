package llm

import (
	"encoding/json"
	"fmt"

	"github.com/minionslab/minions-finance/internal/finance"
)

// SanitizeCalculatorFields normalizes a calculator reply that fails strict
// validation: string results become numbers where finance.ParseAmount accepts
// them (currency symbols, thousands separators, scale words, percent signs),
// unparseable results become null, and operands with non-numeric values are
// dropped. We only touch offending fields so the document can still validate.
func SanitizeCalculatorFields(doc []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, nil, err
	}

	var notes []string

	if v, ok := m["result"]; ok {
		switch t := v.(type) {
		case string:
			if f, _, ok := finance.ParseAmount(t); ok {
				m["result"] = f
				notes = append(notes, "result: coerced string to number")
			} else {
				m["result"] = nil
				notes = append(notes, "result: unparseable, set to null")
			}
		case float64, nil:
			// already fine
		default:
			m["result"] = nil
			notes = append(notes, fmt.Sprintf("result: unexpected type %T, set to null", v))
		}
	}

	if raw, ok := m["operands"].([]any); ok {
		kept := make([]any, 0, len(raw))
		for _, o := range raw {
			obj, ok := o.(map[string]any)
			if !ok {
				notes = append(notes, "operands: dropped non-object entry")
				continue
			}
			switch t := obj["value"].(type) {
			case float64:
				kept = append(kept, obj)
			case string:
				if f, _, ok := finance.ParseAmount(t); ok {
					obj["value"] = f
					kept = append(kept, obj)
				} else {
					notes = append(notes, fmt.Sprintf("operands: dropped %q, non-numeric value", obj["label"]))
				}
			default:
				notes = append(notes, fmt.Sprintf("operands: dropped %q, non-numeric value", obj["label"]))
			}
		}
		m["operands"] = kept
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, nil, err
	}
	return b, notes, nil
}
