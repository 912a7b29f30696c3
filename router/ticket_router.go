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
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/nttcom/threatconnectome-sub000/controllers"
)

type TicketRouter struct {
	*echo.Group
}

func NewTicketRouter(apiV1 APIV1Router, ticketController *controllers.TicketController, tagController *controllers.TagController) TicketRouter {
	ticketRouter := apiV1.Group.Group("/tickets/:ticketID")

	ticketRouter.GET("/", ticketController.Read)
	ticketRouter.GET("/events/", ticketController.History)
	ticketRouter.POST("/acknowledge/", ticketController.Acknowledge)
	ticketRouter.POST("/schedule/", ticketController.Schedule)
	ticketRouter.POST("/complete/", ticketController.Complete)

	apiV1.Group.GET("/tags/", tagController.List)

	tagRouter := apiV1.Group.Group("/tags/:tagID")
	tagRouter.GET("/references/", tagController.ListReferences)
	tagRouter.GET("/tickets/", ticketController.ListByTag)
	tagRouter.POST("/autoclose/", ticketController.AutoClose)

	return TicketRouter{Group: ticketRouter}
}
