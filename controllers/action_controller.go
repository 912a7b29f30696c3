// Copyright 2025 NTT Communications Corporation.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package controllers

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/nttcom/threatconnectome-sub000/database/models"
	"github.com/nttcom/threatconnectome-sub000/dtos"
	"github.com/nttcom/threatconnectome-sub000/normalize"
	"github.com/nttcom/threatconnectome-sub000/shared"
	"github.com/nttcom/threatconnectome-sub000/utils"
)

type ActionController struct {
	actionRepository     shared.ActionRepository
	tagRepository        shared.TagRepository
	actionService        shared.ActionService
	applicabilityService shared.ApplicabilityService
}

func NewActionController(actionRepository shared.ActionRepository, tagRepository shared.TagRepository, actionService shared.ActionService, applicabilityService shared.ApplicabilityService) *ActionController {
	return &ActionController{
		actionRepository:     actionRepository,
		tagRepository:        tagRepository,
		actionService:        actionService,
		applicabilityService: applicabilityService,
	}
}

func (c *ActionController) Create(ctx shared.Context) error {
	var body dtos.ActionCreateDTO
	if err := ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(400, "could not parse request body").WithInternal(err)
	}
	if err := shared.V.Struct(body); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}

	action, err := c.actionService.CreateAction(body, shared.GetUserID(ctx))
	if err != nil {
		var parseErr *normalize.ParseError
		if errors.As(err, &parseErr) {
			return echo.NewHTTPError(400, parseErr.Error())
		}
		return echo.NewHTTPError(500, "could not create action").WithInternal(err)
	}

	return ctx.JSON(201, action.ToDTO())
}

func (c *ActionController) Update(ctx shared.Context) error {
	actionID, err := uuid.Parse(ctx.Param("actionID"))
	if err != nil {
		return echo.NewHTTPError(400, "actionID path parameter has to be a uuid")
	}

	var body dtos.ActionCreateDTO
	if err := ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(400, "could not parse request body").WithInternal(err)
	}
	if err := shared.V.Struct(body); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}

	action, err := c.actionService.UpdateAction(actionID, body)
	if err != nil {
		var parseErr *normalize.ParseError
		if errors.As(err, &parseErr) {
			return echo.NewHTTPError(400, parseErr.Error())
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(404, "action not found")
		}
		return echo.NewHTTPError(500, "could not update action").WithInternal(err)
	}

	return ctx.JSON(200, action.ToDTO())
}

func (c *ActionController) Delete(ctx shared.Context) error {
	actionID, err := uuid.Parse(ctx.Param("actionID"))
	if err != nil {
		return echo.NewHTTPError(400, "actionID path parameter has to be a uuid")
	}

	if err := c.actionService.DeleteAction(actionID); err != nil {
		return echo.NewHTTPError(500, "could not delete action").WithInternal(err)
	}
	return ctx.NoContent(204)
}

func (c *ActionController) ListByTopic(ctx shared.Context) error {
	topicID, err := uuid.Parse(ctx.Param("topicID"))
	if err != nil {
		return echo.NewHTTPError(400, "topicID path parameter has to be a uuid")
	}

	actions, err := c.actionRepository.GetByTopicID(topicID)
	if err != nil {
		return echo.NewHTTPError(500, "could not list actions").WithInternal(err)
	}

	return ctx.JSON(200, utils.Map(actions, models.Action.ToDTO))
}

// ListRelevant filters the topic's actions to the ones applicable to a tag at
// the deployed version passed in the query. Without a version the filter is
// tag scoping only.
func (c *ActionController) ListRelevant(ctx shared.Context) error {
	topicID, err := uuid.Parse(ctx.Param("topicID"))
	if err != nil {
		return echo.NewHTTPError(400, "topicID path parameter has to be a uuid")
	}
	tagID, err := uuid.Parse(ctx.Param("tagID"))
	if err != nil {
		return echo.NewHTTPError(400, "tagID path parameter has to be a uuid")
	}

	tag, err := c.tagRepository.Read(tagID)
	if err != nil {
		return echo.NewHTTPError(404, "tag not found").WithInternal(err)
	}

	actions, err := c.actionRepository.GetByTopicID(topicID)
	if err != nil {
		return echo.NewHTTPError(500, "could not list actions").WithInternal(err)
	}

	relevant, err := c.applicabilityService.RelevantActions(actions, tag, ctx.QueryParam("version"))
	if err != nil {
		var parseErr *normalize.ParseError
		if errors.As(err, &parseErr) {
			return echo.NewHTTPError(400, parseErr.Error())
		}
		return echo.NewHTTPError(500, "could not evaluate applicability").WithInternal(err)
	}

	return ctx.JSON(200, utils.Map(relevant, models.Action.ToDTO))
}
