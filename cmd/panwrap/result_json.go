package main

import (
	"io"

	"github.com/goccy/go-json"

	panwrap "github.com/alnah/go-panwrap"
)

// jsonFailure is one failed format in --json output.
type jsonFailure struct {
	Format string `json:"format"`
	Code   int    `json:"code"`
	Output string `json:"output,omitempty"`
}

// jsonResult is the --json rendering of a build.
type jsonResult struct {
	ID         string        `json:"id,omitempty"`
	Source     string        `json:"source"`
	Success    bool          `json:"success"`
	Summary    string        `json:"summary,omitempty"`
	Files      []string      `json:"files"`
	Failures   []jsonFailure `json:"failures,omitempty"`
	WorkDir    string        `json:"workdir,omitempty"`
	Extracted  string        `json:"extracted,omitempty"`
	Missing    []string      `json:"missing_citations,omitempty"`
	DurationMS int64         `json:"duration_ms"`
	Error      string        `json:"error,omitempty"`
}

func newJSONResult(source string, res *panwrap.BuildResult, err error) jsonResult {
	out := jsonResult{Source: source, Files: []string{}}
	if err != nil {
		out.Error = err.Error()
	}
	if res == nil {
		return out
	}

	out.ID = res.ID
	out.Source = res.Source
	out.Success = err == nil && res.Success()
	out.Summary = res.Summary()
	if res.Files != nil {
		out.Files = res.Files
	}
	for _, f := range res.Failures {
		out.Failures = append(out.Failures, jsonFailure{Format: f.Format, Code: f.Code, Output: f.Output})
	}
	out.WorkDir = res.WorkDir
	out.Extracted = res.Extracted
	out.Missing = res.Missing
	out.DurationMS = res.Duration.Milliseconds()
	return out
}

// writeJSON encodes v indented, followed by a newline.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
