package importer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/chore-chart/internal/common"
	"github.com/Veraticus/chore-chart/internal/model"
)

// WideToLong converts a preference sheet with one column per first name into
// preference rows. Columns that match no one on the roster are skipped with a
// warning. Blank cells mean unwilling and produce no row.
func WideToLong(t *table, people []model.Person, catalog *model.Catalog) ([]model.Preference, []string, error) {
	if err := t.require("task"); err != nil {
		return nil, nil, err
	}

	byName := make(map[string]int64, len(people))
	for _, p := range people {
		key := common.NameKey(p.FirstName)
		if _, dup := byName[key]; dup {
			return nil, nil, fmt.Errorf("first name %q is shared by more than one person, so %s is ambiguous", p.FirstName, t.file)
		}
		byName[key] = p.ID
	}

	var warnings []string
	columns := make(map[int]int64)
	for i, col := range t.header {
		if col == "task" {
			continue
		}
		id, ok := byName[common.NameKey(col)]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: column %q matches no one on the roster", t.file, col))
			continue
		}
		columns[i] = id
	}

	indexes := make([]int, 0, len(columns))
	for i := range columns {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	var prefs []model.Preference
	for row := range t.rows {
		task := common.NormalizeName(t.get(row, "task"))
		if task == "" {
			continue
		}
		kind := kindOf(catalog, task)
		for _, i := range indexes {
			if i >= len(t.rows[row]) {
				continue
			}
			cell := strings.TrimSpace(t.rows[row][i])
			if cell == "" {
				continue
			}
			weight, err := parseWeight(cell)
			if err != nil {
				return nil, nil, t.rowError(row, fmt.Errorf("%s: %w", t.header[i], err))
			}
			prefs = append(prefs, model.Preference{Task: task, Kind: kind, PersonID: columns[i], Weight: weight})
		}
	}
	return prefs, warnings, nil
}
