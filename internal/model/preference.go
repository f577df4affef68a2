package model

// PreferenceKey addresses one person's preference for one task name.
type PreferenceKey struct {
	Task     string
	PersonID int64
}

// Preference is a single stored preference row.
type Preference struct {
	Task     string
	Kind     TaskKind
	PersonID int64
	Weight   int
}

// Preferences maps (person, task name) to a weight. Zero means unwilling.
type Preferences map[PreferenceKey]int

// NewPreferences indexes preference rows.
func NewPreferences(rows []Preference) Preferences {
	prefs := make(Preferences, len(rows))
	for _, row := range rows {
		prefs[PreferenceKey{PersonID: row.PersonID, Task: row.Task}] = row.Weight
	}
	return prefs
}

// Get returns the weight, or 0 when no preference is stored.
func (p Preferences) Get(personID int64, task string) int {
	return p[PreferenceKey{PersonID: personID, Task: task}]
}

// Set stores a weight.
func (p Preferences) Set(personID int64, task string, weight int) {
	p[PreferenceKey{PersonID: personID, Task: task}] = weight
}

// TaskNames returns the distinct task names that have at least one preference row.
func (p Preferences) TaskNames() map[string]struct{} {
	names := make(map[string]struct{})
	for key := range p {
		names[key.Task] = struct{}{}
	}
	return names
}
