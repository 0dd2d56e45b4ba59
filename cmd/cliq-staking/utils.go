// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/cliqproject/cliq-staking/cliq"
	"github.com/cliqproject/cliq-staking/co"
	"github.com/cliqproject/cliq-staking/eventdb"
	"github.com/cliqproject/cliq-staking/log"
	"github.com/cliqproject/cliq-staking/lvldb"
)

func initLogger(ctx *cli.Context) {
	logLevel := log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name)))
	level := new(slog.LevelVar)
	level.Set(logLevel)

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stdout, level)
	} else {
		handler = log.LogfmtHandlerWithLevel(os.Stdout, level)
	}
	log.SetDefault(log.NewLogger(handler))
}

func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "CliqStaking")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "CliqStaking")
		default:
			return filepath.Join(home, ".cliq-staking")
		}
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dir := ctx.String(dataDirFlag.Name)
	if dir == "" {
		return "", errors.New("unable to infer default data dir, use -" + dataDirFlag.Name + " to specify one")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dir)
	}
	return dir, nil
}

func openMainDB(dataDir string) (*lvldb.LevelDB, error) {
	db, err := lvldb.New(filepath.Join(dataDir, "main.db"), lvldb.Options{})
	if err != nil {
		return nil, errors.Wrap(err, "open main database")
	}
	return db, nil
}

func openEventDB(dataDir string) (*eventdb.EventDB, error) {
	db, err := eventdb.New(filepath.Join(dataDir, "events.db"))
	if err != nil {
		return nil, errors.Wrap(err, "open event database")
	}
	return db, nil
}

func parseAddress(ctx *cli.Context, flag cli.StringFlag) (cliq.Address, error) {
	val := ctx.String(flag.Name)
	if val == "" {
		return cliq.Address{}, nil
	}
	addr, err := cliq.ParseAddress(val)
	if err != nil {
		return cliq.Address{}, errors.WithMessage(err, "-"+flag.Name)
	}
	return *addr, nil
}

func startAPIServer(addr string, handler http.Handler) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	srv := &http.Server{Handler: handler}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
		goes.Wait()
	}
	return "http://" + listener.Addr().String() + "/", stop, nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Root().Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func printStartupMessage(dataDir string, apiURL string, admin cliq.Address) {
	fmt.Printf(`Starting %v
    Data dir    [ %v ]
    API portal  [ %v ]
    Admin       [ %v ]
`,
		fullVersion(),
		dataDir,
		apiURL,
		admin,
	)
}
