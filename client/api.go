package client

import (
	"encoding/json"

	"github.com/kaiwadb/kaiwadb-go/core"
)

// Remote wire contract for POST {baseURL}/v1/translate.
//
// The request carries only the prompt and schema metadata. Row data is
// never transmitted: results come from the caller's own connection after
// the artifact is returned.

const (
	// DefaultBaseURL is the hosted translate endpoint.
	DefaultBaseURL = "https://api.kaiwadb.com"

	// SchemaVersion is the request schema version sent as
	// X-Kaiwa-Schema-Version. Unknown response fields are ignored; no
	// negotiation is attempted.
	SchemaVersion = "1"

	translatePath = "/v1/translate"
)

// Remote response statuses.
const (
	statusSuccess   = "success"
	statusAmbiguous = "ambiguous"
	statusError     = "error"
)

type translateRequest struct {
	SessionID   string          `json:"session_id"`
	Prompt      string          `json:"prompt"`
	Schema      json.RawMessage `json:"schema"`
	Engine      core.Engine     `json:"engine"`
	Description string          `json:"description,omitempty"`
}

type translateResponse struct {
	Status    string    `json:"status"`
	Artifact  *Artifact `json:"query_artifact,omitempty"`
	Message   string    `json:"message,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

// Artifact is the engine-tagged query representation returned by the remote
// service. For SQL families Query holds the native query string; for the
// document-store family Command holds a runnable command document in MongoDB
// extended JSON, with Collection naming its target.
//
// The SDK executes artifacts verbatim. It never rewrites, reorders, or
// reinterprets them.
type Artifact struct {
	Family     core.EngineFamily `json:"family"`
	Query      string            `json:"query,omitempty"`
	Collection string            `json:"collection,omitempty"`
	Command    json.RawMessage   `json:"command,omitempty"`
}
