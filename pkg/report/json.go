package report

import (
	"encoding/json"
	"io"
)

// JSONOutput is the JSON structure written for one report.
type JSONOutput struct {
	Filename     string    `json:"filename"`
	Valid        bool      `json:"valid"`
	Messages     []Message `json:"messages"`
	FatalCount   int       `json:"fatal_count"`
	ErrorCount   int       `json:"error_count"`
	WarningCount int       `json:"warning_count"`
	InfoCount    int       `json:"info_count"`
}

func (r *Report) jsonOutput() JSONOutput {
	out := JSONOutput{
		Filename:     r.Filename,
		Valid:        r.IsValid(),
		Messages:     r.Messages,
		FatalCount:   r.FatalCount(),
		ErrorCount:   r.ErrorCount(),
		WarningCount: r.WarningCount(),
		InfoCount:    r.InfoCount(),
	}
	if out.Messages == nil {
		out.Messages = []Message{}
	}
	return out
}

// WriteJSON writes the report in JSON format to w.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.jsonOutput())
}

// WriteJSONAll writes several reports as one JSON array.
func WriteJSONAll(w io.Writer, reports []*Report) error {
	out := make([]JSONOutput, 0, len(reports))
	for _, r := range reports {
		out = append(out, r.jsonOutput())
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
