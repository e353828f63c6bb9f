package render

import (
	"encoding/json"
	"io"
)

type Renderer[T any] interface {
	Render(result T) error
}

// PrintJSON writes v as one indented JSON document
func PrintJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
