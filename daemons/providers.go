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

package daemons

import (
	"os"
	"time"

	"go.uber.org/fx"

	"github.com/nttcom/threatconnectome-sub000/shared"
)

// DaemonRunner encapsulates daemon dependencies and lifecycle
type DaemonRunner struct {
	tagRepository    shared.TagRepository
	autoCloseService shared.AutoCloseService

	interval     time.Duration
	batchTimeout time.Duration
}

// NewDaemonRunner creates a new daemon runner with injected dependencies
func NewDaemonRunner(tagRepository shared.TagRepository, autoCloseService shared.AutoCloseService) *DaemonRunner {
	interval := 5 * time.Minute
	if raw := os.Getenv("AUTOCLOSE_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			interval = parsed
		}
	}

	return &DaemonRunner{
		tagRepository:    tagRepository,
		autoCloseService: autoCloseService,
		interval:         interval,
		batchTimeout:     time.Minute,
	}
}

// Start initiates the periodic auto-close batch
func (runner *DaemonRunner) Start() {
	go func() {
		runner.runDaemons()
		ticker := time.NewTicker(runner.interval)
		defer ticker.Stop()
		for range ticker.C {
			runner.runDaemons()
		}
	}()
}

var _ shared.DaemonRunner = (*DaemonRunner)(nil)

var Module = fx.Module("daemons",
	fx.Provide(fx.Annotate(NewDaemonRunner, fx.As(new(shared.DaemonRunner)))),
)
