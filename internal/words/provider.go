// Package words supplies word lists for practice text: a remote
// TypeAmp API client, locally cached list files, and a built-in
// fallback list.
package words

import "context"

// Density controls how aggressively the API enhances fetched words.
type Density string

// Supported punctuation densities.
const (
	DensityLight  Density = "light"
	DensityMedium Density = "medium"
	DensityHeavy  Density = "heavy"
)

// Request describes a word fetch from a named list.
type Request struct {
	List      string
	Limit     int
	Randomize bool
	Options   Options
}

// Options toggles server-side text enhancement.
type Options struct {
	Punctuation bool
	Numbers     bool
	Density     Density
}

// Metadata describes the list a response was drawn from.
type Metadata struct {
	List           string `json:"list"`
	Count          int    `json:"count"`
	TotalAvailable int    `json:"total_available"`
}

// Response is the word-source payload.
type Response struct {
	Words        []string `json:"words"`
	EnhancedText string   `json:"enhanced_text,omitempty"`
	Metadata     Metadata `json:"metadata"`
}

// Provider fetches words for a session. Implementations may fail with
// network or validation errors; callers are expected to fall back.
type Provider interface {
	GetWords(ctx context.Context, req Request) (Response, error)
}
