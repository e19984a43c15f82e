package httpapi

// Request payload schemas, compiled once at server construction.
func requestSchemas() map[string]map[string]interface{} {
	return map[string]map[string]interface{}{
		"apply": {
			"type":                 "object",
			"required":             []string{"jobId", "candidateId"},
			"additionalProperties": false,
			"properties": map[string]interface{}{
				"jobId":          map[string]interface{}{"type": "string", "minLength": 1},
				"candidateId":    map[string]interface{}{"type": "string", "minLength": 1},
				"resumeText":     map[string]interface{}{"type": "string"},
				"resumeFileName": map[string]interface{}{"type": "string"},
			},
		},
		"advance": {
			"type":                 "object",
			"required":             []string{"status"},
			"additionalProperties": false,
			"properties": map[string]interface{}{
				"status": map[string]interface{}{"type": "string", "minLength": 1},
			},
		},
		"note": {
			"type":                 "object",
			"required":             []string{"text"},
			"additionalProperties": false,
			"properties": map[string]interface{}{
				"authorId":   map[string]interface{}{"type": "string"},
				"authorName": map[string]interface{}{"type": "string"},
				"text":       map[string]interface{}{"type": "string", "minLength": 1},
			},
		},
		"schedule": {
			"type":                 "object",
			"required":             []string{"slots"},
			"additionalProperties": false,
			"properties": map[string]interface{}{
				"slots": map[string]interface{}{
					"type":     "array",
					"minItems": 1,
					"items":    map[string]interface{}{"type": "string", "format": "date-time"},
				},
			},
		},
		"confirm": {
			"type":                 "object",
			"required":             []string{"slot"},
			"additionalProperties": false,
			"properties": map[string]interface{}{
				"slot": map[string]interface{}{"type": "string", "format": "date-time"},
			},
		},
		"assign_assessment": {
			"type":                 "object",
			"required":             []string{"questions"},
			"additionalProperties": false,
			"properties": map[string]interface{}{
				"questions": map[string]interface{}{
					"type":     "array",
					"minItems": 1,
					"items": map[string]interface{}{
						"type":     "object",
						"required": []string{"question", "options", "correctAnswerIndex"},
						"properties": map[string]interface{}{
							"question":           map[string]interface{}{"type": "string", "minLength": 1},
							"options":            map[string]interface{}{"type": "array", "minItems": 2},
							"correctAnswerIndex": map[string]interface{}{"type": "integer", "minimum": 0},
						},
					},
				},
			},
		},
		"submit_assessment": {
			"type":                 "object",
			"required":             []string{"answers"},
			"additionalProperties": false,
			"properties": map[string]interface{}{
				"answers": map[string]interface{}{
					"type":  "array",
					"items": map[string]interface{}{"type": "integer", "minimum": 0},
				},
			},
		},
		"job": {
			"type":                 "object",
			"required":             []string{"title"},
			"additionalProperties": false,
			"properties": map[string]interface{}{
				"title":       map[string]interface{}{"type": "string", "minLength": 1},
				"location":    map[string]interface{}{"type": "string"},
				"salary":      map[string]interface{}{"type": "string"},
				"description": map[string]interface{}{"type": "string"},
				"status":      map[string]interface{}{"type": "string", "enum": []string{"Draft", "Active", "Closed"}},
			},
		},
		"order": {
			"type":                 "object",
			"required":             []string{"service"},
			"additionalProperties": false,
			"properties": map[string]interface{}{
				"service":     map[string]interface{}{"type": "string", "minLength": 1},
				"description": map[string]interface{}{"type": "string"},
			},
		},
		"generate_description": {
			"type":                 "object",
			"required":             []string{"title"},
			"additionalProperties": false,
			"properties": map[string]interface{}{
				"title": map[string]interface{}{"type": "string", "minLength": 1},
			},
		},
	}
}
