package main

import "github.com/urfave/cli/v2"

// NewApp creates an app with sane defaults.
func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "Signal"
	s.app.Usage = "Wallet authentication, missions and ranks"
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path of the TOML config file",
			EnvVars: []string{"CONFIG_FILE"},
		},
	}
	s.app.Before = s.loadContext
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Used for start service api, it main service included all apis.`,
		},
		{
			Action:      s.startRegister,
			Name:        "register",
			Usage:       "Start the airdrop registration service",
			Category:    "Api",
			Description: `Used to score wallets by their transaction count, it runs without the user database.`,
		},
		{
			Action: s.startMigrate,
			Name:   "migrate",
			Usage:  "Migrate the database",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "version",
					Usage: "Run only this migration version, run all pending versions if empty",
				},
			},
			Category:    "Database",
			Description: `Used to create tables and seed the default missions and badges.`,
		},
		{
			Action:      s.startSeed,
			Name:        "seed",
			Usage:       "Seed default missions and badges",
			Category:    "Database",
			Description: `Used to upsert the default missions and badges, it is safe to run many times.`,
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start cron jobs",
			Category:    "Worker",
			Description: `Used to refresh ranks daily and watch the chain rpc.`,
		},
	}
}
