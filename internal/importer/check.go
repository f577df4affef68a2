package importer

import (
	"fmt"
	"sort"

	"github.com/Veraticus/chore-chart/internal/common"
	"github.com/Veraticus/chore-chart/internal/model"
)

// Report lists task names that preferences and catalogs disagree on.
type Report struct {
	// Preference task names that match no catalog task.
	MissingFromCatalog []string
	// Catalog tasks nobody has a preference for. The engine can never assign them.
	WithoutPreferences []string
	// Near misses: a missing name that matches a catalog name once case and
	// spacing are ignored.
	Suggestions map[string]string
	// Preference rows whose task_type disagrees with the task's catalog.
	KindMismatches []string
}

// OK reports whether nothing was found.
func (r *Report) OK() bool {
	return len(r.MissingFromCatalog) == 0 && len(r.WithoutPreferences) == 0 && len(r.KindMismatches) == 0
}

// Problems renders the report as one line per finding.
func (r *Report) Problems() []string {
	var out []string
	for _, name := range r.MissingFromCatalog {
		line := fmt.Sprintf("preferences name %q, which is in no task catalog", name)
		if s, ok := r.Suggestions[name]; ok {
			line += fmt.Sprintf(" (did you mean %q?)", s)
		}
		out = append(out, line)
	}
	for _, name := range r.WithoutPreferences {
		out = append(out, fmt.Sprintf("task %q has no preferences, so nobody can be assigned it", name))
	}
	out = append(out, r.KindMismatches...)
	return out
}

// Check compares preference task names against the catalogs.
func Check(catalog *model.Catalog, prefs []model.Preference) *Report {
	report := &Report{Suggestions: make(map[string]string)}

	kinds := make(map[string]model.TaskKind)
	byKey := make(map[string]string)
	for _, kind := range model.TaskKinds {
		for _, task := range catalog.Tasks(kind) {
			kinds[task.Name] = kind
			byKey[common.NameKey(task.Name)] = task.Name
		}
	}

	named := make(map[string]bool)
	missing := make(map[string]bool)
	mismatched := make(map[string]bool)
	for _, p := range prefs {
		named[p.Task] = true
		kind, ok := kinds[p.Task]
		if !ok {
			missing[p.Task] = true
			continue
		}
		if p.Kind != "" && p.Kind != kind && !mismatched[p.Task] {
			mismatched[p.Task] = true
			report.KindMismatches = append(report.KindMismatches,
				fmt.Sprintf("preferences file %q as %s, but it is a %s task", p.Task, p.Kind, kind))
		}
	}

	for name := range missing {
		report.MissingFromCatalog = append(report.MissingFromCatalog, name)
		if s, ok := byKey[common.NameKey(name)]; ok {
			report.Suggestions[name] = s
		}
	}
	for name := range kinds {
		if !named[name] {
			report.WithoutPreferences = append(report.WithoutPreferences, name)
		}
	}

	sort.Strings(report.MissingFromCatalog)
	sort.Strings(report.WithoutPreferences)
	sort.Strings(report.KindMismatches)
	return report
}
