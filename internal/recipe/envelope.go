package recipe

import (
	"encoding/json"
	"fmt"
)

// FormatVersion is the snapshot envelope format version.
const FormatVersion = 1

// Snapshot kinds.
const (
	KindGraph  = "version_graph"
	KindQueue  = "modification_queue"
	KindBuffer = "staging_buffer"
)

// Envelope is the self-describing wrapper around every persisted snapshot.
type Envelope struct {
	Kind          string          `json:"kind"`
	FormatVersion int             `json:"format_version"`
	Data          json.RawMessage `json:"data"`
}

// EncodeEnvelope marshals v and wraps it in an Envelope of the given kind.
func EncodeEnvelope(kind string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}
	out, err := json.Marshal(Envelope{Kind: kind, FormatVersion: FormatVersion, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}
	return out, nil
}

// DecodeEnvelope unwraps data, checks kind and version, and decodes the
// payload into v. Every failure is a DecodeFailure.
func DecodeEnvelope(data []byte, kind string, v any) error {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return NewDecodeFailure("decode "+kind+" envelope", err)
	}
	if env.Kind != kind {
		return NewDecodeFailure(fmt.Sprintf("snapshot kind %q, expected %q", env.Kind, kind), nil)
	}
	if env.FormatVersion != FormatVersion {
		return NewDecodeFailure(fmt.Sprintf("unsupported %s format version %d", kind, env.FormatVersion), nil)
	}
	if len(env.Data) == 0 {
		return NewDecodeFailure("decode "+kind+": missing data", nil)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return NewDecodeFailure("decode "+kind, err)
	}
	return nil
}
