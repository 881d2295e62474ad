package augment

// Outcome records what happened to one skill that started below quota.
type Outcome struct {
	SkillID string

	// Prior and Post are the exercise counts before and after the pass.
	Prior int
	Post  int

	// Added lists the appended exercise IDs in append order.
	Added []string

	// Conflicts lists candidate IDs rejected because the skill already
	// held an exercise with that ID.
	Conflicts []string

	// Shortfall is quota - Post when positive, otherwise 0.
	Shortfall int
}

// Met reports whether the skill reached quota.
func (o Outcome) Met() bool { return o.Shortfall == 0 }

// Report summarizes one augmentation pass.
type Report struct {
	Quota int

	// Skills is the number of skills inspected.
	Skills int

	// Satisfied counts skills that were already at or above quota and
	// were left untouched.
	Satisfied int

	// Outcomes has one entry per skill that started below quota, in
	// dataset order, whether or not it was fully remedied.
	Outcomes []Outcome
}

// Added returns the number of exercises appended across all skills.
func (r *Report) Added() int {
	n := 0
	for _, o := range r.Outcomes {
		n += len(o.Added)
	}
	return n
}

// Conflicts returns the number of rejected candidates across all skills.
func (r *Report) Conflicts() int {
	n := 0
	for _, o := range r.Outcomes {
		n += len(o.Conflicts)
	}
	return n
}

// Shortfall returns the total number of exercises still missing.
func (r *Report) Shortfall() int {
	n := 0
	for _, o := range r.Outcomes {
		n += o.Shortfall
	}
	return n
}

// Unmet returns the outcomes of skills still below quota.
func (r *Report) Unmet() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.Met() {
			out = append(out, o)
		}
	}
	return out
}

// Changed reports whether the pass appended anything.
func (r *Report) Changed() bool { return r.Added() > 0 }

// Complete reports whether every skill now meets quota.
func (r *Report) Complete() bool { return r.Shortfall() == 0 }
