package api

// DefaultBaseURL is the authoring service a fresh config points at.
const DefaultBaseURL = "http://localhost:18010"

// NewDefaultClient creates a client against DefaultBaseURL.
func NewDefaultClient(apiKey string) *Client {
	return NewClient(DefaultBaseURL, apiKey)
}
