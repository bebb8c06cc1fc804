/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/carverauto/skywatch/pkg/models"
	"github.com/carverauto/skywatch/pkg/policy"
)

func newThreatsCmd(rt *runtime) *cobra.Command {
	var role string

	c := &cobra.Command{
		Use:   "threats",
		Short: "List threat assessments visible to a role",
		RunE: func(c *cobra.Command, _ []string) error {
			threats, err := rt.db.ListThreats(c.Context(), policy.NormalizeRole(role))
			if err != nil {
				return err
			}

			return printThreats(c.OutOrStdout(), threats)
		},
	}

	c.Flags().StringVar(&role, "role", string(models.RoleAnalyst), "Role to read as (analyst, commander)")

	return c
}

func newAuditCmd(rt *runtime) *cobra.Command {
	var limit int

	c := &cobra.Command{
		Use:   "audit",
		Short: "Show the most recent audit ledger entries",
		RunE: func(c *cobra.Command, _ []string) error {
			entries, err := rt.db.ListAuditLog(c.Context(), limit)
			if err != nil {
				return err
			}

			return printAudit(c.OutOrStdout(), entries)
		},
	}

	c.Flags().IntVar(&limit, "limit", 20, "Maximum entries")

	return c
}

func newEventsCmd(rt *runtime) *cobra.Command {
	var limit int

	c := &cobra.Command{
		Use:   "events",
		Short: "Show the most recent system events",
		RunE: func(c *cobra.Command, _ []string) error {
			events, err := rt.db.ListSystemEvents(c.Context(), limit)
			if err != nil {
				return err
			}

			return printEvents(c.OutOrStdout(), events)
		},
	}

	c.Flags().IntVar(&limit, "limit", 20, "Maximum events")

	return c
}

func printThreats(w io.Writer, threats []models.ThreatAssessment) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tLEVEL\tDECISION\tROLE\tCREATED")

	for _, t := range threats {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.ThreatLevel, t.Decision, t.CreatedByRole, t.CreatedAt.Format(time.RFC3339))
	}

	return tw.Flush()
}

func printAudit(w io.Writer, entries []models.AuditLogEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tTABLE\tACTION\tCHANGED BY\tAT")

	for _, e := range entries {
		actor := "-"
		if e.ChangedBy != nil {
			actor = e.ChangedBy.String()
		}

		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			e.ID, e.TableName, e.Action, actor, e.CreatedAt.Format(time.RFC3339))
	}

	return tw.Flush()
}

func printEvents(w io.Writer, events []models.SystemEvent) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "AT\tSEVERITY\tTYPE\tASSET\tTITLE")

	for _, e := range events {
		asset := "-"
		if e.AssetID != nil {
			asset = e.AssetID.String()
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Format(time.RFC3339), e.Severity, e.EventType, asset, e.Title)
	}

	return tw.Flush()
}
