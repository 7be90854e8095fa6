package matching

// Match score constants for method and URI matching.
const (
	// ScoreMethod is the score for a method match.
	ScoreMethod = 10

	// ScorePathExact is the score for an exact path match.
	// Higher than ScoreMethod so a path-only pattern beats a method-only one.
	ScorePathExact = 15

	// ScoreQueryParam is the score for each query parameter match.
	ScoreQueryParam = 5

	// ScoreHeader is the score for each header match.
	ScoreHeader = 10
)

// Match score constants for body matching.
const (
	// ScoreBodyContent is the score for a raw body equality match.
	ScoreBodyContent = 25

	// ScoreBodyJSON is the score for a structural JSON body match.
	ScoreBodyJSON = 25

	// ScoreFormField is the score for each matched form field.
	ScoreFormField = 5

	// ScoreMultipartField is the score for each matched multipart field.
	ScoreMultipartField = 5

	// ScoreJSONPathCondition is the score per matched JSONPath condition.
	ScoreJSONPathCondition = 15

	// ScoreExpression is the score for a satisfied expression.
	ScoreExpression = 10
)
