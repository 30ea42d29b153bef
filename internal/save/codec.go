package save

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// EncodeJSON marshals the record as canonical JSON.
func EncodeJSON(data *SaveData) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding save: %w", err)
	}
	return raw, nil
}

// DecodeJSON parses a record and checks the version. Records written by
// a newer build are rejected rather than half-loaded.
func DecodeJSON(raw []byte) (*SaveData, error) {
	var data SaveData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decoding save: %w", err)
	}
	if data.Version > CurrentVersion {
		return nil, fmt.Errorf("save version %d is newer than supported version %d", data.Version, CurrentVersion)
	}
	return &data, nil
}

// ExportBase64 wraps the JSON record in standard base64 for clipboard
// transport.
func ExportBase64(data *SaveData) (string, error) {
	raw, err := EncodeJSON(data)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// ImportBase64 decodes a clipboard payload. Surrounding whitespace is
// tolerated; anything that is not base64-wrapped JSON is an error.
func ImportBase64(payload string) (*SaveData, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("decoding save transport: %w", err)
	}
	return DecodeJSON(raw)
}
