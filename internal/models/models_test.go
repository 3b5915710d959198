package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@x.com", NormalizeEmail("  Ana@X.Com "))
	assert.Equal(t, "ana@x.com", NormalizeEmail("ana@x.com"))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestJobSkillsColumn(t *testing.T) {
	job := Job{Skills: []string{" Go", "SQL "}}
	job.PrepareForSave()
	assert.JSONEq(t, `["Go","SQL"]`, job.SkillsJSON)

	restored := Job{SkillsJSON: job.SkillsJSON}
	restored.PrepareForAPI()
	assert.Equal(t, []string{"Go", "SQL"}, restored.Skills)
}

func TestJobSkillsColumnMalformed(t *testing.T) {
	job := Job{SkillsJSON: "{not json"}
	job.PrepareForAPI()
	assert.Equal(t, []string{}, job.Skills)

	empty := Job{}
	empty.PrepareForAPI()
	assert.Equal(t, []string{}, empty.Skills)
}

func TestHasActiveReset(t *testing.T) {
	var u User
	assert.False(t, u.HasActiveReset())

	token := "abc"
	u.ResetToken = &token
	assert.False(t, u.HasActiveReset(), "token without expiry is not a valid reset state")
}
