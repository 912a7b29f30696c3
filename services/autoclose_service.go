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
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/nttcom/threatconnectome-sub000/database/models"
	"github.com/nttcom/threatconnectome-sub000/dtos"
	"github.com/nttcom/threatconnectome-sub000/monitoring"
	"github.com/nttcom/threatconnectome-sub000/normalize"
	"github.com/nttcom/threatconnectome-sub000/shared"
	"github.com/nttcom/threatconnectome-sub000/utils"
)

const autoCloseWorkers = 10

type autoCloseService struct {
	constraints *normalize.ConstraintCache

	tagRepository       shared.TagRepository
	referenceRepository shared.ReferenceRepository
	actionRepository    shared.ActionRepository
	ticketRepository    shared.TicketRepository
	ticketService       shared.TicketService
}

func NewAutoCloseService(tagRepository shared.TagRepository, referenceRepository shared.ReferenceRepository, actionRepository shared.ActionRepository, ticketRepository shared.TicketRepository, ticketService shared.TicketService) *autoCloseService {
	constraints, err := normalize.NewConstraintCache(1024)
	if err != nil {
		panic(err)
	}
	return &autoCloseService{
		constraints:         constraints,
		tagRepository:       tagRepository,
		referenceRepository: referenceRepository,
		actionRepository:    actionRepository,
		ticketRepository:    ticketRepository,
		ticketService:       ticketService,
	}
}

// DecideAutoClose aggregates the comparator over every action/reference pair
// of a ticket. A single incomparable pair blocks automatic completion - it
// must never silently resolve to eligible. The verdict is only a proposal;
// applying it is the caller's job.
func (s *autoCloseService) DecideAutoClose(ticket models.Ticket, actions []models.Action, references []models.Reference) dtos.AutoCloseVerdict {
	if len(references) == 0 {
		return dtos.VerdictNotEligible("no deployed version on record")
	}

	tag, err := s.tagRepository.Read(ticket.TagID)
	if err != nil {
		return dtos.VerdictIndeterminate("tag not found")
	}
	parentName := utils.SafeDereference(tag.ParentName)

	sawIncomparable := false
	sawMatch := false
	for _, action := range actions {
		if !action.ScopedToTag(tag.Name, parentName) {
			continue
		}
		exprs := action.VulnerableVersionsFor(tag.Name, parentName)
		if len(exprs) == 0 {
			// version-agnostic action: declares no range, so it cannot prove
			// the deployed version vulnerable
			continue
		}

		for _, expr := range exprs {
			set, err := s.constraints.Parse(expr)
			if err != nil {
				// a malformed constraint cannot be evaluated; auto-closing
				// past it would be guessing
				slog.Warn("could not parse constraint during auto-close", "ticketID", ticket.ID, "actionID", action.ID, "err", err)
				return dtos.VerdictIndeterminate("manual review required")
			}

			for _, reference := range references {
				switch set.Matches(normalize.ParseVersion(reference.Version)) {
				case normalize.TristateIncomparable:
					sawIncomparable = true
				case normalize.TristateTrue:
					sawMatch = true
				}
			}
		}
	}

	if sawIncomparable {
		return dtos.VerdictIndeterminate("manual review required")
	}
	if sawMatch {
		return dtos.VerdictNotEligible("still vulnerable")
	}
	return dtos.VerdictEligible()
}

// AutoCloseTicket evaluates one ticket and, if eligible, completes it as the
// reserved system account. Re-running it on an already completed ticket is a
// no-op.
func (s *autoCloseService) AutoCloseTicket(ticket models.Ticket) (dtos.AutoCloseVerdict, error) {
	actions, err := s.actionRepository.GetByTopicID(ticket.TopicID)
	if err != nil {
		return dtos.AutoCloseVerdict{}, errors.Wrap(err, "could not load actions for ticket")
	}
	references, err := s.referenceRepository.GetByTagID(ticket.TagID)
	if err != nil {
		return dtos.AutoCloseVerdict{}, errors.Wrap(err, "could not load references for ticket")
	}

	verdict := s.DecideAutoClose(ticket, actions, references)

	switch verdict.Decision {
	case dtos.AutoCloseIndeterminate:
		monitoring.AutoCloseIndeterminateAmount.Inc()
	case dtos.AutoCloseEligible:
		if ticket.Completed() {
			return verdict, nil
		}
		// the automatic path attaches no logging ids: no single remediation
		// action applies, the version simply never matched
		if _, err := s.ticketService.CompleteTicket(ticket.ID, dtos.SystemUserID, []string{}, nil); err != nil {
			return verdict, errors.Wrap(err, "could not auto-complete ticket")
		}
		monitoring.TicketAutoClosedAmount.Inc()
	}

	return verdict, nil
}

// AutoCloseAllForTag runs the auto-close decision over every open ticket of a
// tag. Each ticket's decide-then-write sequence is independent, so the batch
// runs on a bounded worker pool; partially completed batches are fine - every
// applied transition is idempotent on its own.
func (s *autoCloseService) AutoCloseAllForTag(ctx context.Context, tagID uuid.UUID) (map[string]dtos.AutoCloseVerdict, error) {
	start := time.Now()
	defer func() {
		monitoring.AutoCloseBatchDuration.Observe(time.Since(start).Seconds())
	}()

	tickets, err := s.ticketRepository.GetOpenByTagID(tagID)
	if err != nil {
		return nil, errors.Wrap(err, "could not load open tickets for tag")
	}

	type ticketVerdict struct {
		ticketID string
		verdict  dtos.AutoCloseVerdict
	}

	errgroup := utils.ErrGroup[ticketVerdict](autoCloseWorkers)
	for _, ticket := range tickets {
		ticket := ticket
		if ctx.Err() != nil {
			// caller abandoned the batch; transitions applied so far stay
			break
		}
		errgroup.Go(func() (ticketVerdict, error) {
			verdict, err := s.AutoCloseTicket(ticket)
			if err != nil {
				return ticketVerdict{}, err
			}
			return ticketVerdict{ticketID: ticket.ID.String(), verdict: verdict}, nil
		})
	}

	results, err := errgroup.WaitAndCollect()
	verdicts := make(map[string]dtos.AutoCloseVerdict, len(results))
	for _, r := range results {
		verdicts[r.ticketID] = r.verdict
	}
	return verdicts, err
}
