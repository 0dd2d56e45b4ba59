// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/cliqproject/cliq-staking/api"
	"github.com/cliqproject/cliq-staking/cliq"
	"github.com/cliqproject/cliq-staking/eventdb"
	"github.com/cliqproject/cliq-staking/kv"
	"github.com/cliqproject/cliq-staking/log"
	"github.com/cliqproject/cliq-staking/lvldb"
	"github.com/cliqproject/cliq-staking/metrics"
	"github.com/cliqproject/cliq-staking/roles"
	"github.com/cliqproject/cliq-staking/staking"
	"github.com/cliqproject/cliq-staking/token"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")

	// serviceAddr is the token account holding staked principal, pool
	// liquidity and the CLIQ reward reserve.
	serviceAddr = cliq.BytesToAddress([]byte("cliq-staking-service"))
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "cliq-staking",
		Usage:     "CLIQ token staking service",
		Copyright: "2021 The CliqStaking developers",
		Flags: []cli.Flag{
			dataDirFlag,
			memFlag,
			adminFlag,
			rewardProviderFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiEventsLimitFlag,
			enableAPILogsFlag,
			enableMetricsFlag,
			verbosityFlag,
			jsonLogsFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	admin, err := parseAddress(ctx, adminFlag)
	if err != nil {
		return err
	}
	if admin.IsZero() {
		return fmt.Errorf("-%v is required", adminFlag.Name)
	}
	rewardProvider, err := parseAddress(ctx, rewardProviderFlag)
	if err != nil {
		return err
	}

	var (
		mainDB  *lvldb.LevelDB
		eventDB *eventdb.EventDB
		dataDir string
	)
	if ctx.Bool(memFlag.Name) {
		dataDir = "Memory"
		if mainDB, err = lvldb.NewMem(); err != nil {
			return err
		}
		if eventDB, err = eventdb.NewMem(); err != nil {
			return err
		}
	} else {
		if dataDir, err = makeDataDir(ctx); err != nil {
			return err
		}
		if mainDB, err = openMainDB(dataDir); err != nil {
			return err
		}
		if eventDB, err = openEventDB(dataDir); err != nil {
			return err
		}
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	stk, tokens, err := buildStaking(mainDB, eventDB, admin, rewardProvider)
	if err != nil {
		return err
	}

	handler := api.New(stk, eventDB, tokens, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EventsLimit:     ctx.Uint64(apiEventsLimitFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		MetricsEndpoint: ctx.Bool(enableMetricsFlag.Name),
	})

	apiURL, stopAPI, err := startAPIServer(ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); stopAPI() }()

	printStartupMessage(dataDir, apiURL, admin)

	<-handleExitSignal().Done()
	return nil
}

// buildStaking wires tokens, roles and the staking service over the main db.
func buildStaking(store kv.Store, events staking.Events, admin, rewardProvider cliq.Address) (*staking.Staking, []staking.Token, error) {
	staked := token.New("IRIS", store)
	cliqTok := token.New("CLIQ", store)

	auth, err := roles.New(store, admin)
	if err != nil {
		return nil, nil, err
	}
	if err := auth.Grant(admin, roles.Maintainer, admin); err != nil {
		return nil, nil, err
	}
	if !rewardProvider.IsZero() {
		if err := auth.Grant(admin, roles.RewardProvider, rewardProvider); err != nil {
			return nil, nil, err
		}
	}

	stk := staking.New(serviceAddr, store, staked, cliqTok, auth, events, nil)
	return stk, []staking.Token{staked, cliqTok}, nil
}
