// Copyright 2025 NTT Communications Corporation.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package controllers

import (
	"sort"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nttcom/threatconnectome-sub000/database/models"
	"github.com/nttcom/threatconnectome-sub000/normalize"
	"github.com/nttcom/threatconnectome-sub000/shared"
	"github.com/nttcom/threatconnectome-sub000/utils"
)

type TagController struct {
	tagRepository       shared.TagRepository
	referenceRepository shared.ReferenceRepository
}

func NewTagController(tagRepository shared.TagRepository, referenceRepository shared.ReferenceRepository) *TagController {
	return &TagController{
		tagRepository:       tagRepository,
		referenceRepository: referenceRepository,
	}
}

func (c *TagController) List(ctx shared.Context) error {
	tags, err := c.tagRepository.All()
	if err != nil {
		return echo.NewHTTPError(500, "could not list tags").WithInternal(err)
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})
	return ctx.JSON(200, utils.Map(tags, models.Tag.ToDTO))
}

// ListReferences returns the deployed versions of a tag, newest version last.
func (c *TagController) ListReferences(ctx shared.Context) error {
	tagID, err := uuid.Parse(ctx.Param("tagID"))
	if err != nil {
		return echo.NewHTTPError(400, "tagID path parameter has to be a uuid")
	}

	references, err := c.referenceRepository.GetByTagID(tagID)
	if err != nil {
		return echo.NewHTTPError(500, "could not list references").WithInternal(err)
	}

	sort.SliceStable(references, func(i, j int) bool {
		return normalize.SemverCompare(references[i].Version, references[j].Version) < 0
	})
	return ctx.JSON(200, utils.Map(references, models.Reference.ToDTO))
}
