// Copyright 2025 NTT Communications Corporation.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package repositories

import (
	"go.uber.org/fx"

	"github.com/nttcom/threatconnectome-sub000/shared"
)

var Module = fx.Options(
	fx.Provide(fx.Annotate(NewTagRepository, fx.As(new(shared.TagRepository)))),
	fx.Provide(fx.Annotate(NewReferenceRepository, fx.As(new(shared.ReferenceRepository)))),
	fx.Provide(fx.Annotate(NewActionRepository, fx.As(new(shared.ActionRepository)))),
	fx.Provide(fx.Annotate(NewTicketRepository, fx.As(new(shared.TicketRepository)))),
	fx.Provide(fx.Annotate(NewTicketEventRepository, fx.As(new(shared.TicketEventRepository)))),
)
