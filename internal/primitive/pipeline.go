package primitive

import (
	"strings"

	"github.com/zjrosen/glyph/internal/vis"
)

// Dataset is one data source owned by a pipeline: either inline values, a URL,
// or a derivation of another named source, plus a transform chain.
type Dataset struct {
	Name      string
	URL       string
	Source    string
	Values    []map[string]any
	Transform []vis.Transform
}

// Pipeline is a named primitive representing a data source plus its transform
// chain. A pipeline may own zero or more datasets; exporting flattens them in
// insertion order.
type Pipeline struct {
	Base
	datasets []Dataset
}

// NewPipeline constructs a pipeline and registers it in the arena.
func NewPipeline(reg *Registry, name string) *Pipeline {
	p := &Pipeline{Base: Base{name: name, reg: reg}}
	p.id = reg.Register(p)
	return p
}

// AddDataset appends a dataset to the pipeline.
func (p *Pipeline) AddDataset(ds Dataset) *Pipeline {
	p.datasets = append(p.datasets, ds)
	p.touch()
	return p
}

// Datasets returns the pipeline's datasets in insertion order.
func (p *Pipeline) Datasets() []Dataset {
	return p.datasets
}

// Export produces the pipeline's data fragments. Clean exports drop the
// editor-only pipeline id and strip editor-private (namespaced) transforms.
func (p *Pipeline) Export(clean bool) []vis.Data {
	out := make([]vis.Data, 0, len(p.datasets))
	for _, ds := range p.datasets {
		d := vis.Data{
			Name:   ds.Name,
			URL:    ds.URL,
			Source: ds.Source,
			Values: ds.Values,
		}
		for _, tf := range ds.Transform {
			if clean && strings.HasPrefix(tf.Type, vis.TransformNS) {
				continue
			}
			d.Transform = append(d.Transform, tf)
		}
		if !clean {
			d.Pipeline = int64(p.id)
		}
		out = append(out, d)
	}
	return out
}
