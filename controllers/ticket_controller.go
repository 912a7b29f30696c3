// Copyright 2025 NTT Communications Corporation.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package controllers

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/nttcom/threatconnectome-sub000/database/models"
	"github.com/nttcom/threatconnectome-sub000/database/repositories"
	"github.com/nttcom/threatconnectome-sub000/dtos"
	"github.com/nttcom/threatconnectome-sub000/shared"
	"github.com/nttcom/threatconnectome-sub000/statemachine"
	"github.com/nttcom/threatconnectome-sub000/utils"
)

type TicketController struct {
	ticketRepository      shared.TicketRepository
	ticketEventRepository shared.TicketEventRepository
	ticketService         shared.TicketService
	autoCloseService      shared.AutoCloseService
}

func NewTicketController(ticketRepository shared.TicketRepository, ticketEventRepository shared.TicketEventRepository, ticketService shared.TicketService, autoCloseService shared.AutoCloseService) *TicketController {
	return &TicketController{
		ticketRepository:      ticketRepository,
		ticketEventRepository: ticketEventRepository,
		ticketService:         ticketService,
		autoCloseService:      autoCloseService,
	}
}

func (c *TicketController) Read(ctx shared.Context) error {
	ticketID, err := uuid.Parse(ctx.Param("ticketID"))
	if err != nil {
		return echo.NewHTTPError(400, "ticketID path parameter has to be a uuid")
	}

	ticket, err := c.ticketRepository.Read(ticketID)
	if err != nil {
		return echo.NewHTTPError(404, "ticket not found").WithInternal(err)
	}
	return ctx.JSON(200, ticket.ToDTO())
}

func (c *TicketController) ListByTag(ctx shared.Context) error {
	tagID, err := uuid.Parse(ctx.Param("tagID"))
	if err != nil {
		return echo.NewHTTPError(400, "tagID path parameter has to be a uuid")
	}

	tickets, err := c.ticketRepository.GetByTagID(tagID)
	if err != nil {
		return echo.NewHTTPError(500, "could not list tickets").WithInternal(err)
	}
	return ctx.JSON(200, utils.Map(tickets, models.Ticket.ToDTO))
}

// History returns the append-only status trail of a ticket, oldest first.
func (c *TicketController) History(ctx shared.Context) error {
	ticketID, err := uuid.Parse(ctx.Param("ticketID"))
	if err != nil {
		return echo.NewHTTPError(400, "ticketID path parameter has to be a uuid")
	}

	events, err := c.ticketEventRepository.GetByTicketID(ticketID)
	if err != nil {
		return echo.NewHTTPError(500, "could not list ticket events").WithInternal(err)
	}
	return ctx.JSON(200, utils.Map(events, models.TicketEvent.ToDTO))
}

func (c *TicketController) Acknowledge(ctx shared.Context) error {
	ticketID, err := uuid.Parse(ctx.Param("ticketID"))
	if err != nil {
		return echo.NewHTTPError(400, "ticketID path parameter has to be a uuid")
	}

	var body dtos.AcknowledgeTicketDTO
	if err := ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(400, "could not parse request body").WithInternal(err)
	}

	ticket, err := c.ticketService.AcknowledgeTicket(ticketID, shared.GetUserID(ctx), body.Assignees)
	if err != nil {
		return transitionError(err)
	}
	return ctx.JSON(200, ticket.ToDTO())
}

func (c *TicketController) Schedule(ctx shared.Context) error {
	ticketID, err := uuid.Parse(ctx.Param("ticketID"))
	if err != nil {
		return echo.NewHTTPError(400, "ticketID path parameter has to be a uuid")
	}

	var body dtos.ScheduleTicketDTO
	if err := ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(400, "could not parse request body").WithInternal(err)
	}
	if err := shared.V.Struct(body); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}

	ticket, err := c.ticketService.ScheduleTicket(ticketID, shared.GetUserID(ctx), body.ScheduledAt, body.Assignees, body.Note)
	if err != nil {
		return transitionError(err)
	}
	return ctx.JSON(200, ticket.ToDTO())
}

func (c *TicketController) Complete(ctx shared.Context) error {
	ticketID, err := uuid.Parse(ctx.Param("ticketID"))
	if err != nil {
		return echo.NewHTTPError(400, "ticketID path parameter has to be a uuid")
	}

	var body dtos.CompleteTicketDTO
	if err := ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(400, "could not parse request body").WithInternal(err)
	}

	ticket, err := c.ticketService.CompleteTicket(ticketID, shared.GetUserID(ctx), body.LoggingIDs, body.Note)
	if err != nil {
		return transitionError(err)
	}
	return ctx.JSON(200, ticket.ToDTO())
}

// AutoClose runs the auto-close batch over every open ticket of a tag and
// returns the verdict per ticket, applied transitions included.
func (c *TicketController) AutoClose(ctx shared.Context) error {
	tagID, err := uuid.Parse(ctx.Param("tagID"))
	if err != nil {
		return echo.NewHTTPError(400, "tagID path parameter has to be a uuid")
	}

	verdicts, err := c.autoCloseService.AutoCloseAllForTag(ctx.Request().Context(), tagID)
	if err != nil {
		return echo.NewHTTPError(500, "auto-close batch failed").WithInternal(err)
	}
	return ctx.JSON(200, verdicts)
}

// transitionError maps the ticket lifecycle error taxonomy onto HTTP status
// codes. Invalid transitions and stale writes are conflicts, not bad requests:
// the request was well-formed, the ticket state disagreed.
func transitionError(err error) error {
	var invalid *statemachine.InvalidTransitionError
	if errors.As(err, &invalid) {
		return echo.NewHTTPError(409, invalid.Error())
	}
	var inPast *statemachine.ScheduleInPastError
	if errors.As(err, &inPast) {
		return echo.NewHTTPError(400, inPast.Error())
	}
	if errors.Is(err, repositories.ErrConcurrentModification) {
		return echo.NewHTTPError(409, "ticket was modified concurrently, try again")
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(404, "ticket not found")
	}
	return echo.NewHTTPError(500, "ticket transition failed").WithInternal(err)
}
