package gemini

import "google.golang.org/genai"

// ScamCheckInstruction is the fixed system instruction for the classifier.
const ScamCheckInstruction = "You are an AI that checks if a message is from a scammer. Treat any message about a job offer as a scam."

// verdictSchema constrains the model output to {"scammer": <bool>}.
var verdictSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"scammer": {
			Type:        genai.TypeBoolean,
			Description: "Indicates if the content is from a scammer",
		},
	},
	Required: []string{"scammer"},
}
