package models

import (
	"github.com/google/uuid"

	"github.com/nttcom/threatconnectome-sub000/dtos"
	"github.com/nttcom/threatconnectome-sub000/utils"
)

// ActionExt carries the optional scoping of an action. Tags is the set of tag
// names the action is scoped to (empty = all tags); VulnerableVersions maps a
// tag name to the raw constraint expressions authored for it. When Tags is
// non-empty every VulnerableVersions key has to be a member of Tags - this is
// validated at creation/update time, not at evaluation time.
type ActionExt struct {
	Tags               []string            `json:"tags"`
	VulnerableVersions map[string][]string `json:"vulnerable_versions"`
}

// Action is a remediation recommendation for one topic, optionally scoped to
// tags and version ranges.
type Action struct {
	Model
	TopicID     uuid.UUID       `json:"topicId" gorm:"type:uuid;not null;index"`
	Type        dtos.ActionType `json:"actionType" gorm:"type:text;not null"`
	Action      string          `json:"action" gorm:"type:text;not null"`
	Recommended bool            `json:"recommended" gorm:"default:false"`
	Ext         ActionExt       `json:"ext" gorm:"type:jsonb;default:'{}';serializer:json"`

	CreatedByUserID string `json:"createdByUserId" gorm:"type:text"`
}

func (a Action) TableName() string {
	return "actions"
}

// ScopedToTag reports whether the action's tag scope covers tagName or
// parentTagName. An empty scope covers everything.
func (a Action) ScopedToTag(tagName string, parentTagName string) bool {
	if len(a.Ext.Tags) == 0 {
		return true
	}
	if utils.Contains(a.Ext.Tags, tagName) {
		return true
	}
	return parentTagName != "" && utils.Contains(a.Ext.Tags, parentTagName)
}

// VulnerableVersionsFor returns the raw constraint expressions declared for
// any of the given tag names, in declaration order.
func (a Action) VulnerableVersionsFor(tagNames ...string) []string {
	exprs := make([]string, 0)
	for _, name := range tagNames {
		if name == "" {
			continue
		}
		exprs = append(exprs, a.Ext.VulnerableVersions[name]...)
	}
	return exprs
}

func (a Action) ToDTO() dtos.ActionDTO {
	return dtos.ActionDTO{
		ID:          a.ID,
		TopicID:     a.TopicID,
		Type:        a.Type,
		Action:      a.Action,
		Recommended: a.Recommended,
		Ext: dtos.ActionExtDTO{
			Tags:               a.Ext.Tags,
			VulnerableVersions: a.Ext.VulnerableVersions,
		},
		CreatedAt: a.CreatedAt,
	}
}
