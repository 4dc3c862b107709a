/*
Package factory provides JSON to Go settings conversion.

PURPOSE:
  Converts exported settings documents into wage.Inputs and back. This is
  the settings import/export format: a flat JSON object of string fields,
  exactly as the user entered them.

JSON SCHEMA:
  {
    "monthlySalary": "4400",
    "workDaysPerMonth": "22",
    "workStartTime": "09:00",
    "workEndTime": "17:00",
    "celebrationThreshold": "100",
    "decimalPlaces": "2"
  }

VALIDATION (import only):
  - Every field must be present and be a JSON string
  - decimalPlaces must parse to an integer in [0, 20]
  Anything else fails with *wage.ImportError (wraps wage.ErrMalformedImport)
  and the caller keeps its current settings.

USAGE:
  f := NewSettingsFactory()
  data, _ := f.Export(engine.Inputs())
  in, err := f.Parse(data)
  if err != nil {
      // errors.Is(err, wage.ErrMalformedImport)
  }
  engine.LoadSettings(ctx, in)

SEE ALSO:
  - presets.go: Built-in settings documents
  - wage/types.go: Inputs
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/wage-watcher/wage"
)

// =============================================================================
// SETTINGS FACTORY
// =============================================================================

// SettingsFactory converts settings documents to wage.Inputs.
type SettingsFactory struct{}

// NewSettingsFactory creates a new settings factory.
func NewSettingsFactory() *SettingsFactory {
	return &SettingsFactory{}
}

// Parse validates an imported settings document.
func (f *SettingsFactory) Parse(data []byte) (wage.Inputs, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return wage.Inputs{}, &wage.ImportError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if doc == nil {
		return wage.Inputs{}, &wage.ImportError{Reason: "expected a JSON object"}
	}

	in := wage.Inputs{}
	for _, field := range wage.Fields {
		raw, ok := doc[string(field)]
		if !ok {
			return wage.Inputs{}, &wage.ImportError{Field: field, Reason: "missing"}
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil || string(raw) == "null" {
			return wage.Inputs{}, &wage.ImportError{Field: field, Reason: "must be a string"}
		}
		in, _ = in.With(field, value)
	}

	if _, ok := wage.ParseDecimalPlaces(in.DecimalPlaces); !ok {
		return wage.Inputs{}, &wage.ImportError{
			Field:  wage.FieldDecimalPlaces,
			Reason: fmt.Sprintf("must be an integer between %d and %d", wage.MinDecimalPlaces, wage.MaxDecimalPlaces),
		}
	}
	return in, nil
}

// Export renders settings as an indented JSON document.
func (f *SettingsFactory) Export(in wage.Inputs) ([]byte, error) {
	return json.MarshalIndent(in, "", "  ")
}
