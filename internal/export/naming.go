package export

import (
	"strconv"
	"strings"
)

// Namer derives artifact names from a template with the placeholders
// {label}, {entities}, {avg} and {size}.
type Namer struct {
	template       string
	subsetTemplate string
	label          string
}

// NewNamer creates a namer. With an empty label, "{label}_" and "_{label}"
// are removed from the templates so names do not start with a separator.
func NewNamer(template, subsetTemplate, label string) *Namer {
	if label == "" {
		template = stripLabel(template)
		subsetTemplate = stripLabel(subsetTemplate)
	}
	return &Namer{template: template, subsetTemplate: subsetTemplate, label: label}
}

func stripLabel(t string) string {
	return strings.NewReplacer("{label}_", "", "_{label}", "").Replace(t)
}

// DatasetName names the dataset for (entities, avg)
func (n *Namer) DatasetName(entities, avg int) string {
	return n.render(n.template, entities, avg, 0)
}

// SubsetName names a derived subset of size records
func (n *Namer) SubsetName(entities, avg, size int) string {
	return n.render(n.subsetTemplate, entities, avg, size)
}

func (n *Namer) render(t string, entities, avg, size int) string {
	return strings.NewReplacer(
		"{label}", n.label,
		"{entities}", strconv.Itoa(entities),
		"{avg}", strconv.Itoa(avg),
		"{size}", strconv.Itoa(size),
	).Replace(t)
}
