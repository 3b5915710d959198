package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Job represents a published job posting.
type Job struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Company   string    `json:"company"`
	Location  string    `json:"location"`
	Salary    string    `json:"salary"`
	Contract  string    `json:"contract"` // e.g. full-time, part-time, freelance
	Skills    []string  `json:"skills"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`

	// Serialized form of Skills for the database.
	SkillsJSON string `json:"-"`
}

// Candidate is an application submitted against a job posting.
type Candidate struct {
	ID        string    `json:"id"`
	JobID     string    `json:"jobId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CVFile    string    `json:"cvFile"`
	CreatedAt time.Time `json:"createdAt"`
}

// PrepareForSave marshals the skills slice into its JSON column form.
func (j *Job) PrepareForSave() {
	if j.Skills == nil {
		j.Skills = []string{}
	}
	for i, s := range j.Skills {
		j.Skills[i] = strings.TrimSpace(s)
	}
	b, err := json.Marshal(j.Skills)
	if err != nil {
		j.SkillsJSON = "[]"
		return
	}
	j.SkillsJSON = string(b)
}

// PrepareForAPI unmarshals the JSON column back into the skills slice.
func (j *Job) PrepareForAPI() {
	if j.SkillsJSON == "" {
		j.Skills = []string{}
		return
	}
	if err := json.Unmarshal([]byte(j.SkillsJSON), &j.Skills); err != nil || j.Skills == nil {
		j.Skills = []string{}
	}
}
