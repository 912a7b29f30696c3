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

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nttcom/threatconnectome-sub000/database/models"
	"github.com/nttcom/threatconnectome-sub000/database/repositories"
	"github.com/nttcom/threatconnectome-sub000/services"
	"github.com/nttcom/threatconnectome-sub000/shared"
)

func NewAutocloseCommand() *cobra.Command {
	autocloseCmd := cobra.Command{
		Use:   "autoclose",
		Short: "Run the ticket auto-close decision",
	}

	autocloseCmd.AddCommand(newRunCommand())
	return &autocloseCmd
}

func newRunCommand() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Apply the auto-close decision to open tickets",
		Long:  "Evaluates every open ticket of a tag (or of all tags) and completes the tickets whose deployed versions left all vulnerable ranges.",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := shared.DatabaseFactory()
			if err != nil {
				return errors.Wrap(err, "could not connect to database")
			}

			tagRepository := repositories.NewTagRepository(db)
			referenceRepository := repositories.NewReferenceRepository(db)
			actionRepository := repositories.NewActionRepository(db)
			ticketRepository := repositories.NewTicketRepository(db)
			ticketEventRepository := repositories.NewTicketEventRepository(db)

			ticketService := services.NewTicketService(ticketRepository, ticketEventRepository)
			autoCloseService := services.NewAutoCloseService(tagRepository, referenceRepository, actionRepository, ticketRepository, ticketService)

			var tags []models.Tag
			if rawTagID, _ := cmd.Flags().GetString("tag"); rawTagID != "" {
				tagID, err := uuid.Parse(rawTagID)
				if err != nil {
					return errors.Wrap(err, "--tag has to be a uuid")
				}
				tag, err := tagRepository.Read(tagID)
				if err != nil {
					return errors.Wrap(err, "could not read tag")
				}
				tags = []models.Tag{tag}
			} else {
				tags, err = tagRepository.All()
				if err != nil {
					return errors.Wrap(err, "could not list tags")
				}
			}

			start := time.Now()
			total := 0
			for _, tag := range tags {
				verdicts, err := autoCloseService.AutoCloseAllForTag(context.Background(), tag.ID)
				if err != nil {
					slog.Error("auto-close batch failed for tag", "tagID", tag.ID, "err", err)
					continue
				}
				total += len(verdicts)
				for ticketID, verdict := range verdicts {
					fmt.Printf("%s\t%s\t%s\t%s\n", tag.Name, ticketID, verdict.Decision, verdict.Reason)
				}
			}

			slog.Info("auto-close run finished", "tags", len(tags), "tickets", total, "duration", time.Since(start))
			return nil
		},
	}

	runCmd.Flags().String("tag", "", "limit the run to a single tag id")
	return runCmd
}
