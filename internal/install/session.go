package install

// Conflict is an existing file or directory that differs from the catalog
// version the installer wanted to write.
type Conflict struct {
	// Key identifies the catalog entry, e.g. "skills/readme-writing".
	Key    string
	Source string
	Target string
}

// Session caches what a run already materialized so an item shared by
// several tools is copied (or reported as a conflict) once.
type Session struct {
	materialized map[string]string
	conflicts    []Conflict
}

func NewSession() *Session {
	return &Session{materialized: map[string]string{}}
}

// Conflicts returns the conflicts found so far, in discovery order.
func (s *Session) Conflicts() []Conflict {
	return append([]Conflict(nil), s.conflicts...)
}

func (s *Session) remember(key, path string) bool {
	if _, ok := s.materialized[key]; ok {
		return false
	}
	s.materialized[key] = path
	return true
}

func (s *Session) addConflict(c Conflict) {
	s.conflicts = append(s.conflicts, c)
}
