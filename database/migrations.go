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

package database

import (
	"gorm.io/gorm"

	"github.com/nttcom/threatconnectome-sub000/database/models"
)

// RunMigrations brings the schema up to date. gen_random_uuid needs pgcrypto
// on postgres < 13, so the extension is ensured first.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto;").Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&models.Tag{},
		&models.Reference{},
		&models.Action{},
		&models.Ticket{},
		&models.TicketEvent{},
	)
}
