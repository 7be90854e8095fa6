// Package fixture validates fixture documents before they are decoded.
//
// Three document kinds are known: request pattern files read by
// httpmock.LoadPatterns, and schema and data files read by schema.LoadSchema
// and schema.LoadData. Each kind has an embedded JSON Schema (draft 2020-12).
//
// Documents are validated in their generic decoded form, so YAML and JSON
// fixtures go through the same checks:
//
//	var doc any
//	if err := yaml.Unmarshal(data, &doc); err != nil { ... }
//	if err := fixture.Validate(fixture.KindPatterns, doc); err != nil { ... }
package fixture
