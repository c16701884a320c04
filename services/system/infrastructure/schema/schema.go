// Package schema publishes JSON Schemas of the import documents.
package schema

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"

	"github.com/ghuser/stockledger/services/system/domain/models"
)

var (
	decimalType   = reflect.TypeOf(decimal.Decimal{})
	thresholdType = reflect.TypeOf(models.Threshold(0))
)

// mapper describes the types whose JSON form differs from their Go shape.
func mapper(t reflect.Type) *jsonschema.Schema {
	switch t {
	case decimalType:
		return &jsonschema.Schema{Type: "number"}
	case thresholdType:
		return &jsonschema.Schema{OneOf: []*jsonschema.Schema{
			{Type: "integer", Minimum: json.Number("1")},
			{Type: "string", Pattern: `^\s*[0-9]+\s*$`},
		}}
	}
	return nil
}

// Reflect returns the inlined schema of v's type, with id as its $id.
func Reflect(id string, v any) *jsonschema.Schema {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
		Mapper:                    mapper,
	}
	s := r.Reflect(v)
	s.ID = jsonschema.ID(id)
	return s
}
