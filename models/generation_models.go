package models

// DecodingParams control how the text-generation backend samples output.
type DecodingParams struct {
	MaxLength         int     `json:"max_length"`
	MinLength         int     `json:"min_length"`
	NumBeams          int     `json:"num_beams"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
	TopK              int     `json:"top_k"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
	LengthPenalty     float64 `json:"length_penalty"`
	NoRepeatNgramSize int     `json:"no_repeat_ngram_size"`
	EarlyStopping     bool    `json:"early_stopping"`
	DoSample          bool    `json:"do_sample"`
}

// DefaultDecodingParams favours long, varied explanations.
func DefaultDecodingParams() DecodingParams {
	return DecodingParams{
		MaxLength:         512,
		MinLength:         100,
		NumBeams:          5,
		Temperature:       0.7,
		TopP:              0.92,
		TopK:              50,
		RepetitionPenalty: 2.5,
		LengthPenalty:     1.5,
		NoRepeatNgramSize: 3,
		EarlyStopping:     true,
		DoSample:          true,
	}
}

// GenerationRequest is built once per explanation and never mutated.
type GenerationRequest struct {
	Topic  string
	Prompt string
	Params DecodingParams
}
