package catalog

import "github.com/invopop/jsonschema"

// JSONSchema describes Amount as a nullable number.
func (Amount) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "number"},
			{Type: "null"},
		},
	}
}

// JSONSchema describes the wire form of Availability.
func (Availability) JSONSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set("availableInAllStores", &jsonschema.Schema{Type: "boolean"})
	props.Set("specificStoreIds", &jsonschema.Schema{
		Type:  "array",
		Items: &jsonschema.Schema{Type: "string"},
	})
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   []string{"availableInAllStores"},
	}
}
