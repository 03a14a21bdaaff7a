package gemini

// promptData represents the data passed to the prompt template
type promptData struct {
	Rounds       int
	Pairs        int
	Nuances      []string
	CoreConcepts []string
	Definitions  []string
	Examples     []string
	Notes        string
}

// ResponseSchema represents the expected structure of a Gemini response
type ResponseSchema struct {
	// Games is the batch of generated rounds in play order
	Games []GameSchema `json:"games"`
}

// GameSchema represents a single round in the API response
type GameSchema struct {
	// Pairs maps each term to its association
	Pairs map[string]string `json:"pairs"`

	// Why maps each term to the explanation of its pair
	Why map[string]string `json:"why,omitempty"`
}
