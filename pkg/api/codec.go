package api

import "encoding/json"

// JSONCodec is a connect.Codec that marshals plain Go structs with
// encoding/json. It registers under the name "json", so it replaces
// Connect's protobuf-only JSON codec and serves application/json requests.
type JSONCodec struct{}

// Name implements connect.Codec.
func (JSONCodec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal implements connect.Codec.
func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
