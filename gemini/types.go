package gemini

// Request/response shapes for the generateContent endpoint.

// Part is a single piece of prompt or candidate content
type Part struct {
	Text string `json:"text"`
}

// Content groups parts under a conversation role
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerateRequest is the generateContent request payload
type GenerateRequest struct {
	Contents []Content `json:"contents"`
}

// Candidate is a single generated answer
type Candidate struct {
	Content Content `json:"content"`
}

// GenerateResponse is the generateContent response payload
type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// NewTextRequest builds a single-turn user request for the given prompt
func NewTextRequest(prompt string) GenerateRequest {
	return GenerateRequest{
		Contents: []Content{
			{
				Role:  "user",
				Parts: []Part{{Text: prompt}},
			},
		},
	}
}

// FirstText extracts the first candidate's first text part.
// The second return value is false when the response shape is unexpected:
// no candidates, or a candidate without parts.
func (r *GenerateResponse) FirstText() (string, bool) {
	if len(r.Candidates) == 0 {
		return "", false
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", false
	}
	return parts[0].Text, true
}
