package relay

import (
	"encoding/json"
	"fmt"
)

// Envelope is the JSON wrapper shared by the backend contract and the
// caller-facing response: {success, message, data}. Data stays raw so
// backend-provided output passes through the gateway byte-for-byte.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// DecodeData parses the envelope's data field. Absent or null data yields
// (nil, nil); data of the wrong shape yields an error. The gateway treats a
// shape error as an unexpected backend response.
func (e *Envelope) DecodeData() (*Payload, error) {
	if !isPresent(e.Data) {
		return nil, nil
	}
	var p Payload
	if err := json.Unmarshal(e.Data, &p); err != nil {
		return nil, fmt.Errorf("malformed data field: %w", err)
	}
	return &p, nil
}

// Payload carries the analysis output produced by the backend.
type Payload struct {
	ProcessGraph json.RawMessage `json:"processGraph,omitempty"`
	LLMInsights  json.RawMessage `json:"llmInsights,omitempty"`
}

// HasProcessGraph reports whether a non-null process graph is present.
func (p *Payload) HasProcessGraph() bool {
	return p != nil && isPresent(p.ProcessGraph)
}

// HasLLMInsights reports whether non-null insights are present.
func (p *Payload) HasLLMInsights() bool {
	return p != nil && isPresent(p.LLMInsights)
}

// Empty reports whether the payload carries no data at all.
func (p *Payload) Empty() bool {
	return !p.HasProcessGraph() && !p.HasLLMInsights()
}

func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}

// Reply is the backend's answer: its HTTP status plus the parsed envelope.
// Treated as untrusted input; no field's presence is assumed.
type Reply struct {
	StatusCode int
	Envelope   Envelope
}

// Failed reports whether the backend's status indicates failure.
func (r *Reply) Failed() bool {
	return r.StatusCode < 200 || r.StatusCode > 299
}
