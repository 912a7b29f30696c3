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

type ActionRouter struct {
	*echo.Group
}

func NewActionRouter(apiV1 APIV1Router, actionController *controllers.ActionController) ActionRouter {
	actionRouter := apiV1.Group.Group("/actions")

	actionRouter.POST("/", actionController.Create)
	actionRouter.PUT("/:actionID/", actionController.Update)
	actionRouter.DELETE("/:actionID/", actionController.Delete)

	topicRouter := apiV1.Group.Group("/topics/:topicID")
	topicRouter.GET("/actions/", actionController.ListByTopic)
	topicRouter.GET("/tags/:tagID/relevant-actions/", actionController.ListRelevant)

	return ActionRouter{Group: actionRouter}
}
