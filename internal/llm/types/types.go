package types

// Request is a single prompt sent to the gateway
type Request struct {
	// System carries the persona, if any
	System string
	// Prompt is the user turn
	Prompt string
	// Schema, when set, asks the provider for JSON output conforming to it
	Schema map[string]interface{}
}

// WantsJSON reports whether the request expects structured output
func (r Request) WantsJSON() bool {
	return r.Schema != nil
}
