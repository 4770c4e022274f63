package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/geodesim/internal/analysis"
	"github.com/san-kum/geodesim/internal/dynamo"
	"github.com/san-kum/geodesim/internal/orbit"
)

// Document is the JSON form of one run.
type Document struct {
	Name    string           `json:"name,omitempty"`
	Params  orbit.Params     `json:"params"`
	Policy  dynamo.Config    `json:"policy"`
	Outcome orbit.Outcome    `json:"outcome"`
	Class   string           `json:"class"`
	Summary analysis.Summary `json:"summary"`
	Samples []orbit.Sample   `json:"samples"`
}

func NewDocument(name string, p orbit.Params, policy dynamo.Config, t *orbit.Trajectory) Document {
	doc := Document{
		Name:    name,
		Params:  p,
		Policy:  policy,
		Class:   analysis.Classify(t).String(),
		Summary: analysis.Summarize(t),
		Samples: []orbit.Sample{},
	}
	if t != nil {
		doc.Outcome = t.Outcome
		if t.Samples != nil {
			doc.Samples = t.Samples
		}
	}
	return doc
}

func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
