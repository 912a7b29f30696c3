// Copyright (C) 2025 NTT Communications Corporation
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package services

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nttcom/threatconnectome-sub000/database/models"
	"github.com/nttcom/threatconnectome-sub000/normalize"
	"github.com/nttcom/threatconnectome-sub000/utils"
)

type applicabilityService struct {
	constraints *normalize.ConstraintCache
	// memoization of pure relevance results, keyed on
	// (actionID, tagName, parentTagName, deployedVersion)
	memo *lru.Cache[string, bool]
}

func NewApplicabilityService() *applicabilityService {
	constraints, err := normalize.NewConstraintCache(1024)
	if err != nil {
		panic(err)
	}
	memo, err := lru.New[string, bool](4096)
	if err != nil {
		panic(err)
	}
	return &applicabilityService{
		constraints: constraints,
		memo:        memo,
	}
}

// IsActionRelevant decides whether an action should be shown for a
// (tag, deployed version) pair. Actions authored against a generic parent tag
// propagate to all of its specializations. An incomparable version gate keeps
// the action relevant: hiding a possibly applicable remediation from a human
// is worse than showing an extra one.
func (s *applicabilityService) IsActionRelevant(action models.Action, tagName string, parentTagName string, deployedVersion string) (bool, error) {
	key := fmt.Sprintf("%s|%s|%s|%s", action.ID, tagName, parentTagName, deployedVersion)
	if relevant, ok := s.memo.Get(key); ok {
		return relevant, nil
	}

	relevant, err := s.evaluate(action, tagName, parentTagName, deployedVersion)
	if err != nil {
		// parse errors are the author's problem, not a cacheable result
		return false, err
	}

	s.memo.Add(key, relevant)
	return relevant, nil
}

func (s *applicabilityService) evaluate(action models.Action, tagName string, parentTagName string, deployedVersion string) (bool, error) {
	if !action.ScopedToTag(tagName, parentTagName) {
		return false, nil
	}

	exprs := action.VulnerableVersionsFor(tagName, parentTagName)
	if len(exprs) == 0 {
		// version-agnostic action, e.g. "stop the service"
		return true, nil
	}

	deployed := normalize.ParseVersion(deployedVersion)
	for _, expr := range exprs {
		set, err := s.constraints.Parse(expr)
		if err != nil {
			return false, err
		}
		switch set.Matches(deployed) {
		case normalize.TristateTrue, normalize.TristateIncomparable:
			return true, nil
		}
	}

	return false, nil
}

// RelevantActions filters an action catalog down to the actions applicable to
// the tag at the given deployed version.
func (s *applicabilityService) RelevantActions(actions []models.Action, tag models.Tag, deployedVersion string) ([]models.Action, error) {
	parentName := utils.SafeDereference(tag.ParentName)

	relevant := make([]models.Action, 0, len(actions))
	for _, action := range actions {
		ok, err := s.IsActionRelevant(action, tag.Name, parentName, deployedVersion)
		if err != nil {
			return nil, err
		}
		if ok {
			relevant = append(relevant, action)
		}
	}
	return relevant, nil
}
