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

// Command skywatchctl is the operator CLI for schema migration, seed data and
// breach simulation, plus read-only views of threats, system events and the
// audit ledger.
package main

import (
	"context"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/carverauto/skywatch/pkg/config"
	"github.com/carverauto/skywatch/pkg/db"
	"github.com/carverauto/skywatch/pkg/lifecycle"
	"github.com/carverauto/skywatch/pkg/logger"
	"github.com/carverauto/skywatch/pkg/models"
	"github.com/carverauto/skywatch/pkg/version"
)

// runtime is shared by every subcommand once the root pre-run has connected.
type runtime struct {
	cfg    models.SentinelConfig
	pool   *pgxpool.Pool
	db     *db.DB
	logger logger.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configFile string
		envFile    string
		rt         runtime
	)

	rootCmd := &cobra.Command{
		Use:          "skywatchctl",
		Short:        "Operate a skywatch database",
		Version:      version.String(),
		SilenceUsage: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
				return err
			}

			return rt.connect(c.Context(), configFile)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			rt.close()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "/etc/skywatch/sentinel.json", "Path to configuration")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file")

	rootCmd.AddCommand(
		newMigrateCmd(&rt),
		newSeedCmd(&rt),
		newSimulateCmd(&rt),
		newThreatsCmd(&rt),
		newAuditCmd(&rt),
		newEventsCmd(&rt),
	)

	return rootCmd
}

func (rt *runtime) connect(ctx context.Context, configFile string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := config.NewConfig(nil).LoadAndValidate(ctx, configFile, &rt.cfg); err != nil {
		return err
	}

	logCfg := rt.cfg.Logging
	if logCfg == nil {
		logCfg = logger.DefaultConfig()
		logCfg.Output = logger.OutputConsole
	}

	log, err := lifecycle.CreateComponentLogger("skywatchctl", logCfg)
	if err != nil {
		return err
	}

	rt.logger = log

	pool, err := db.NewPool(ctx, &rt.cfg.Database, lifecycle.Named(log, "db"))
	if err != nil {
		return err
	}

	rt.pool = pool
	rt.db = db.New(pool, lifecycle.Named(log, "db"), db.WithNativeRoles(rt.cfg.Database.NativeRoles))

	return nil
}

func (rt *runtime) close() {
	if rt.pool != nil {
		rt.pool.Close()
	}
}

func newMigrateCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(c *cobra.Command, _ []string) error {
			if err := rt.db.Migrate(c.Context()); err != nil {
				return err
			}

			rt.logger.Info().Msg("migrations applied")

			return nil
		},
	}
}
