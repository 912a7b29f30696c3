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

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/nttcom/threatconnectome-sub000/database/models"
	"github.com/nttcom/threatconnectome-sub000/dtos"
	"github.com/nttcom/threatconnectome-sub000/normalize"
	"github.com/nttcom/threatconnectome-sub000/shared"
	"github.com/nttcom/threatconnectome-sub000/utils"
)

type actionService struct {
	actionRepository shared.ActionRepository
}

func NewActionService(actionRepository shared.ActionRepository) *actionService {
	return &actionService{
		actionRepository: actionRepository,
	}
}

func (s *actionService) CreateAction(dto dtos.ActionCreateDTO, userID string) (models.Action, error) {
	if err := validateActionExt(dto); err != nil {
		return models.Action{}, err
	}

	action := models.Action{
		TopicID:     dto.TopicID,
		Type:        dto.Type,
		Action:      dto.Action,
		Recommended: dto.Recommended,
		Ext: models.ActionExt{
			Tags:               dto.Ext.Tags,
			VulnerableVersions: dto.Ext.VulnerableVersions,
		},
		CreatedByUserID: userID,
	}

	if err := s.actionRepository.Save(nil, &action); err != nil {
		return models.Action{}, errors.Wrap(err, "could not save action")
	}
	return action, nil
}

func (s *actionService) UpdateAction(id uuid.UUID, dto dtos.ActionCreateDTO) (models.Action, error) {
	if err := validateActionExt(dto); err != nil {
		return models.Action{}, err
	}

	action, err := s.actionRepository.Read(id)
	if err != nil {
		return models.Action{}, errors.Wrap(err, "could not read action")
	}

	action.Type = dto.Type
	action.Action = dto.Action
	action.Recommended = dto.Recommended
	action.Ext = models.ActionExt{
		Tags:               dto.Ext.Tags,
		VulnerableVersions: dto.Ext.VulnerableVersions,
	}

	if err := s.actionRepository.Save(nil, &action); err != nil {
		return models.Action{}, errors.Wrap(err, "could not save action")
	}
	return action, nil
}

func (s *actionService) DeleteAction(id uuid.UUID) error {
	return s.actionRepository.Delete(nil, id)
}

// validateActionExt enforces the ext invariants at authoring time, not at
// evaluation time: every vulnerable_versions key has to be a member of the
// tag scope (when one is declared), and every range expression has to parse.
// Parse errors are returned verbatim so the author sees what is broken.
func validateActionExt(dto dtos.ActionCreateDTO) error {
	if !dto.Type.Valid() {
		return fmt.Errorf("unknown action type %q", dto.Type)
	}

	for tagName, exprs := range dto.Ext.VulnerableVersions {
		if len(dto.Ext.Tags) > 0 && !utils.Contains(dto.Ext.Tags, tagName) {
			return fmt.Errorf("vulnerable_versions key %q is not part of the action's tag scope", tagName)
		}
		for _, expr := range exprs {
			if _, err := normalize.ParseConstraint(expr); err != nil {
				return err
			}
		}
	}

	return nil
}
