// Copyright 2025 NTT Communications Corporation.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package services

import (
	"go.uber.org/fx"

	"github.com/nttcom/threatconnectome-sub000/shared"
)

var ServiceModule = fx.Options(
	fx.Provide(fx.Annotate(NewApplicabilityService, fx.As(new(shared.ApplicabilityService)))),
	fx.Provide(fx.Annotate(NewTicketService, fx.As(new(shared.TicketService)))),
	fx.Provide(fx.Annotate(NewAutoCloseService, fx.As(new(shared.AutoCloseService)))),
	fx.Provide(fx.Annotate(NewActionService, fx.As(new(shared.ActionService)))),
)
