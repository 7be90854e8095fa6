// Package matching selects the registered request pattern that best fits an
// outgoing request.
//
// Every configured constraint of a pattern is evaluated independently and all of
// them must hold:
//
//   - Method: case-insensitive equality
//   - URI: exact path equality, plus scheme and host for absolute URIs
//   - Query parameters: each declared name/value present in the query string
//   - Headers: each declared header present with the exact value
//   - Body: raw content, JSON, form fields or multipart fields, per kind
//   - JSONPath: each expression yields the expected value
//   - Expression: a boolean expr-lang expression over the request
//
// A qualifying pattern is scored by summing the weights in scores.go for each
// constraint it declares, so a pattern that constrains more wins. A pattern with
// no constraints scores zero and only wins when nothing else qualifies. Equal
// scores go to the earliest registered pattern.
//
// When nothing qualifies, Breakdown and CollectNearMisses explain how close each
// pattern came.
package matching
