package surface

import (
	"encoding/json"
	"io"

	"github.com/charapi/charapi/pkg/evaluate"
)

// JSONRenderer marshals EvaluationResult to indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, result *evaluate.EvaluationResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
