package domain

// Snapshot is the complete persisted state of a manager.
// Epics carry only authored fields; linkage and derived fields are rebuilt
// from subtask epic ids on load.
// Fields are ordered to minimize memory padding.
type Snapshot struct {
	Tasks    []Task    // Plain tasks, sorted by id
	Epics    []Epic    // Epics, sorted by id
	Subtasks []Subtask // Subtasks, sorted by id
	History  []int     // Viewed entity ids, oldest first
	NextID   int       // Next id to assign (0 = derive from max id)
}

// Len returns the number of entities in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Tasks) + len(s.Epics) + len(s.Subtasks)
}

// IsEmpty returns true if the snapshot holds no entities and no history.
func (s Snapshot) IsEmpty() bool {
	return s.Len() == 0 && len(s.History) == 0
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{NextID: s.NextID}
	if s.Tasks != nil {
		out.Tasks = make([]Task, len(s.Tasks))
		for i, t := range s.Tasks {
			out.Tasks[i] = t.Clone()
		}
	}
	if s.Epics != nil {
		out.Epics = make([]Epic, len(s.Epics))
		for i, e := range s.Epics {
			out.Epics[i] = e.Clone()
		}
	}
	if s.Subtasks != nil {
		out.Subtasks = make([]Subtask, len(s.Subtasks))
		for i, st := range s.Subtasks {
			out.Subtasks[i] = st.Clone()
		}
	}
	if s.History != nil {
		out.History = append([]int(nil), s.History...)
	}
	return out
}
