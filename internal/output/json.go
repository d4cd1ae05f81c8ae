package output

import (
	"encoding/json"
	"fmt"
	"io"
)

func encoder(w io.Writer, indent bool) *json.Encoder {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	return enc
}

// JSON writes data as indented JSON.
func JSON(w io.Writer, data any) error {
	if err := encoder(w, true).Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// Line writes data as a single line of JSON, for streams such as watch.
func Line(w io.Writer, data any) error {
	if err := encoder(w, false).Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorResponse is the envelope printed for a failed command in JSON mode.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// JSONError writes a structured error. Write failures are ignored; there is
// nowhere left to report them.
func JSONError(w io.Writer, code, msg string, details map[string]any) {
	_ = encoder(w, true).Encode(ErrorResponse{Error: msg, Code: code, Details: details})
}

// BatchResult is the outcome for one ID of a comma-separated batch.
type BatchResult struct {
	ID    int64  `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}
