package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/nttcom/threatconnectome-sub000/database/models"
	"github.com/nttcom/threatconnectome-sub000/normalize"
	"github.com/nttcom/threatconnectome-sub000/utils"
)

func newAction(ext models.ActionExt) models.Action {
	action := models.Action{
		Type:   "mitigation",
		Action: "update the package",
		Ext:    ext,
	}
	action.ID = uuid.New()
	return action
}

func TestIsActionRelevant(t *testing.T) {
	t.Run("an action with an empty tag scope applies to every tag", func(t *testing.T) {
		s := NewApplicabilityService()
		action := newAction(models.ActionExt{})

		relevant, err := s.IsActionRelevant(action, "pkg:npm/lodash", "", "4.17.21")
		assert.NoError(t, err)
		assert.True(t, relevant)
	})

	t.Run("an action scoped to another tag is not relevant", func(t *testing.T) {
		s := NewApplicabilityService()
		action := newAction(models.ActionExt{Tags: []string{"pkg:npm/express"}})

		relevant, err := s.IsActionRelevant(action, "pkg:npm/lodash", "", "4.17.21")
		assert.NoError(t, err)
		assert.False(t, relevant)
	})

	t.Run("an action scoped to the parent tag propagates to the child", func(t *testing.T) {
		s := NewApplicabilityService()
		action := newAction(models.ActionExt{
			Tags:               []string{"pkg:pypi/requests"},
			VulnerableVersions: map[string][]string{"pkg:pypi/requests": {"<2.31.0"}},
		})

		relevant, err := s.IsActionRelevant(action, "pkg:pypi/requests@lambda", "pkg:pypi/requests", "2.25.0")
		assert.NoError(t, err)
		assert.True(t, relevant)
	})

	t.Run("a version-agnostic action stays relevant at any version", func(t *testing.T) {
		s := NewApplicabilityService()
		action := newAction(models.ActionExt{Tags: []string{"pkg:npm/lodash"}})

		relevant, err := s.IsActionRelevant(action, "pkg:npm/lodash", "", "0.0.1")
		assert.NoError(t, err)
		assert.True(t, relevant)
	})

	t.Run("a deployed version outside every range hides the action", func(t *testing.T) {
		s := NewApplicabilityService()
		action := newAction(models.ActionExt{
			Tags:               []string{"pkg:npm/lodash"},
			VulnerableVersions: map[string][]string{"pkg:npm/lodash": {">=1.0.0 <2.0.0 || >=3.0.0 <3.1.0"}},
		})

		relevant, err := s.IsActionRelevant(action, "pkg:npm/lodash", "", "2.5.0")
		assert.NoError(t, err)
		assert.False(t, relevant)
	})

	t.Run("a version inside one branch of a disjunction keeps the action", func(t *testing.T) {
		s := NewApplicabilityService()
		action := newAction(models.ActionExt{
			Tags:               []string{"pkg:npm/lodash"},
			VulnerableVersions: map[string][]string{"pkg:npm/lodash": {">=1.0.0 <2.0.0 || >=3.0.0"}},
		})

		relevant, err := s.IsActionRelevant(action, "pkg:npm/lodash", "", "1.5.0")
		assert.NoError(t, err)
		assert.True(t, relevant)
	})

	t.Run("an incomparable version gate fails open", func(t *testing.T) {
		s := NewApplicabilityService()
		action := newAction(models.ActionExt{
			Tags:               []string{"pkg:npm/lodash"},
			VulnerableVersions: map[string][]string{"pkg:npm/lodash": {">=1.0.0-beta"}},
		})

		// 1.0.0 vs 1.0.0-beta cannot be ordered; the remediation stays visible
		relevant, err := s.IsActionRelevant(action, "pkg:npm/lodash", "", "1.0.0")
		assert.NoError(t, err)
		assert.True(t, relevant)
	})

	t.Run("a malformed range surfaces the parse error", func(t *testing.T) {
		s := NewApplicabilityService()
		action := newAction(models.ActionExt{
			Tags:               []string{"pkg:npm/lodash"},
			VulnerableVersions: map[string][]string{"pkg:npm/lodash": {"~>1.0.0"}},
		})

		_, err := s.IsActionRelevant(action, "pkg:npm/lodash", "", "1.0.0")
		assert.Error(t, err)
		var parseErr *normalize.ParseError
		assert.ErrorAs(t, err, &parseErr)
	})
}

func TestRelevantActions(t *testing.T) {
	s := NewApplicabilityService()

	tag := models.Tag{
		Name:       "pkg:pypi/requests@lambda",
		ParentName: utils.Ptr("pkg:pypi/requests"),
	}
	tag.ID = uuid.New()

	matching := newAction(models.ActionExt{
		Tags:               []string{"pkg:pypi/requests"},
		VulnerableVersions: map[string][]string{"pkg:pypi/requests": {"<2.31.0"}},
	})
	unrelated := newAction(models.ActionExt{Tags: []string{"pkg:npm/express"}})
	fixed := newAction(models.ActionExt{
		Tags:               []string{"pkg:pypi/requests@lambda"},
		VulnerableVersions: map[string][]string{"pkg:pypi/requests@lambda": {"<2.0.0"}},
	})

	relevant, err := s.RelevantActions([]models.Action{matching, unrelated, fixed}, tag, "2.25.0")
	assert.NoError(t, err)
	assert.Len(t, relevant, 1)
	assert.Equal(t, matching.ID, relevant[0].ID)
}
