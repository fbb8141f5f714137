// Package render produces server-rendered pages, either by forwarding to a
// render server or by emitting an HTML shell that loads the client bundle.
package render

import (
	"encoding/base64"

	"github.com/goccy/go-json"
	"go.trai.ch/zerr"

	"go.trai.ch/gourmet/internal/core/ports"
)

// EncodeArgs encodes req for the args header: base64 of its JSON form.
func EncodeArgs(req ports.RenderRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", zerr.Wrap(err, "failed to encode render arguments")
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeArgs parses an args header value into a map. Malformed values
// yield an empty map.
func DecodeArgs(value string) map[string]any {
	args := map[string]any{}
	if value == "" {
		return args
	}

	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return args
	}
	if err := json.Unmarshal(data, &args); err != nil || args == nil {
		return map[string]any{}
	}
	return args
}
