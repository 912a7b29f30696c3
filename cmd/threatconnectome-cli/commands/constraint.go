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
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nttcom/threatconnectome-sub000/normalize"
)

func NewConstraintCommand() *cobra.Command {
	constraintCmd := cobra.Command{
		Use:   "constraint",
		Short: "Work with version constraint expressions",
	}

	constraintCmd.AddCommand(newLintCommand())
	constraintCmd.AddCommand(newMatchCommand())
	return &constraintCmd
}

// lint parses every expression and reports the first broken token per
// expression. Reads stdin when no arguments are given, one expression per
// line, so action exports can be piped through it.
func newLintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lint [expressions...]",
		Short: "Parse constraint expressions and report errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			exprs := args
			if len(exprs) == 0 {
				scanner := bufio.NewScanner(os.Stdin)
				for scanner.Scan() {
					if line := scanner.Text(); line != "" {
						exprs = append(exprs, line)
					}
				}
				if err := scanner.Err(); err != nil {
					return err
				}
			}

			broken := 0
			for _, expr := range exprs {
				set, err := normalize.ParseConstraint(expr)
				if err != nil {
					broken++
					fmt.Fprintln(os.Stderr, err.Error())
					continue
				}
				fmt.Println(set.String())
			}

			if broken > 0 {
				return fmt.Errorf("%d of %d expressions did not parse", broken, len(exprs))
			}
			return nil
		},
	}
}

func newMatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "match <expression> <version>",
		Short: "Evaluate a constraint against a deployed version",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := normalize.ParseConstraint(args[0])
			if err != nil {
				return err
			}

			switch set.Matches(normalize.ParseVersion(args[1])) {
			case normalize.TristateTrue:
				fmt.Println("match")
			case normalize.TristateFalse:
				fmt.Println("no match")
			case normalize.TristateIncomparable:
				fmt.Println("incomparable")
			}
			return nil
		},
	}
}
