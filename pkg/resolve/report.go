package resolve

import (
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ROCm/pdbmerge/pkg/perfdb"
)

// ConflictItem is one disagreeing recorded value together with where it
// was read from.
type ConflictItem struct {
	ID     string `yaml:"id"`
	Value  string `yaml:"value"`
	Source string `yaml:"source"`
}

// Report describes one unresolved conflict for the conflicts file: the
// key, the driver command reproducing it, the partial record that could
// still be merged from the agreeing sub-identifiers, and every conflicting
// value with its provenance.
type Report struct {
	Key          string         `yaml:"key"`
	Command      string         `yaml:"command"`
	MergedRecord string         `yaml:"merged_record"`
	Conflicts    []ConflictItem `yaml:"conflicting_items"`
}

// buildReport assembles the report for one unresolved key. The merged
// record keeps only sub-identifiers whose values all agree, each with its
// first-seen value, in insertion order.
func buildReport(key, command string, conflict *perfdb.Conflict) *Report {
	report := &Report{
		Key:     key,
		Command: command,
	}

	var agreed []string
	for _, id := range conflict.SubIDs() {
		if conflict.AllAgree(id) {
			agreed = append(agreed, id)
			continue
		}
		for _, rec := range conflict.Records(id) {
			report.Conflicts = append(report.Conflicts, ConflictItem{
				ID:     id,
				Value:  rec.Value,
				Source: rec.Provenance.String(),
			})
		}
	}

	report.MergedRecord = mergedLine(key, agreed, func(id string) string {
		return conflict.Records(id)[0].Value
	})

	return report
}

// Text renders the report as the block format consumed by existing
// tooling: header, reproduction command, partially merged record, and the
// enumerated conflicting items, terminated by a blank line.
func (r *Report) Text() string {
	var b strings.Builder
	b.WriteString("Merge conflict at key ")
	b.WriteString(r.Key)
	b.WriteByte('\n')
	b.WriteString("Driver options to reproduce: ")
	b.WriteString(r.Command)
	b.WriteByte('\n')
	b.WriteString("Merged record: ")
	b.WriteString(r.MergedRecord)
	b.WriteByte('\n')
	b.WriteString("Conflicting items:\n")
	for _, item := range r.Conflicts {
		b.WriteByte('\t')
		b.WriteString(item.ID)
		b.WriteByte(':')
		b.WriteString(item.Value)
		b.WriteString(" from ")
		b.WriteString(item.Source)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.String()
}

// YAML renders the report as one YAML document, separator included, so
// consecutive reports appended to the same file form a valid stream.
func (r *Report) YAML() ([]byte, error) {
	body, err := yaml.Marshal(r)
	if err != nil {
		return nil, err
	}
	return append([]byte("---\n"), body...), nil
}
