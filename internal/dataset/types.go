package dataset

// Solution is the worked solution attached to an exercise.
type Solution struct {
	// Steps are the ordered solution steps shown to the learner.
	Steps []string `json:"steps" yaml:"steps"`

	// KeyPoints tags the concepts the solution relies on.
	KeyPoints []string `json:"keyPoints" yaml:"keyPoints"`
}

// Exercise is one advanced practice problem belonging to a skill.
type Exercise struct {
	// ID is unique within the owning skill, e.g. "exercise-adv-007".
	ID string `json:"id" yaml:"id"`

	// Difficulty is a small ordinal, 1 (easy) to 5 (hard).
	Difficulty int `json:"difficulty" yaml:"difficulty"`

	Question string   `json:"question" yaml:"question"`
	Hints    []string `json:"hints" yaml:"hints"`
	Solution Solution `json:"solution" yaml:"solution"`

	// RelatedNodes references knowledge-graph node IDs. They are carried
	// through untouched and never resolved here.
	RelatedNodes []string `json:"relatedNodes" yaml:"relatedNodes"`

	// EstimatedTime is the expected solving time in minutes.
	EstimatedTime int `json:"estimatedTime" yaml:"estimatedTime"`
}

// Skill is a topic record owning a sequence of advanced exercises.
//
// A nil Exercises slice means the advancedExercises container was absent
// from the source document; an empty non-nil slice means it was present
// but empty.
type Skill struct {
	ID        string     `json:"skillId"`
	Exercises []Exercise `json:"advancedExercises"`
}

// Dataset is the ordered list of skills in one document.
type Dataset []Skill

// Clone returns a deep copy of the exercise.
func (e Exercise) Clone() Exercise {
	out := e
	out.Hints = cloneStrings(e.Hints)
	out.Solution.Steps = cloneStrings(e.Solution.Steps)
	out.Solution.KeyPoints = cloneStrings(e.Solution.KeyPoints)
	out.RelatedNodes = cloneStrings(e.RelatedNodes)
	return out
}

// Clone returns a deep copy of the skill, preserving the nil/empty
// distinction of its exercise container.
func (s Skill) Clone() Skill {
	out := Skill{ID: s.ID}
	if s.Exercises != nil {
		out.Exercises = make([]Exercise, len(s.Exercises))
		for i, ex := range s.Exercises {
			out.Exercises[i] = ex.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the dataset.
func (d Dataset) Clone() Dataset {
	if d == nil {
		return nil
	}
	out := make(Dataset, len(d))
	for i, s := range d {
		out[i] = s.Clone()
	}
	return out
}

// ExerciseCount returns the total number of exercises across all skills.
func (d Dataset) ExerciseCount() int {
	n := 0
	for _, s := range d {
		n += len(s.Exercises)
	}
	return n
}

// EstimatedMinutes sums the estimated time of every exercise.
func (d Dataset) EstimatedMinutes() int {
	n := 0
	for _, s := range d {
		for _, ex := range s.Exercises {
			n += ex.EstimatedTime
		}
	}
	return n
}

// HasExercise reports whether the skill already holds an exercise with id.
func (s Skill) HasExercise(id string) bool {
	for _, ex := range s.Exercises {
		if ex.ID == id {
			return true
		}
	}
	return false
}

// normalized returns a copy with nil slices replaced by empty ones so the
// encoded form uses [] rather than null.
func (e Exercise) normalized() Exercise {
	out := e.Clone()
	if out.Hints == nil {
		out.Hints = []string{}
	}
	if out.Solution.Steps == nil {
		out.Solution.Steps = []string{}
	}
	if out.Solution.KeyPoints == nil {
		out.Solution.KeyPoints = []string{}
	}
	if out.RelatedNodes == nil {
		out.RelatedNodes = []string{}
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
