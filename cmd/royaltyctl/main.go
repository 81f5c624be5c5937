package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/tdex-network/royalty-ledger/internal/config"
	"github.com/tdex-network/royalty-ledger/internal/core/application"
	"github.com/tdex-network/royalty-ledger/internal/infrastructure/accesscontrol"
	"github.com/tdex-network/royalty-ledger/internal/infrastructure/registry"
	"github.com/tdex-network/royalty-ledger/internal/infrastructure/treasury"
	"github.com/tdex-network/royalty-ledger/pkg/stats"
)

const metricsPrefix = "royalty_ledger_"

var callerFlag = &cli.StringFlag{
	Name:  "caller",
	Usage: "the address on whose behalf mutating commands run, defaults to the first admin",
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "royaltyctl"
	app.Usage = "Command line interface for operators of the royalty ledger"
	app.Flags = []cli.Flag{callerFlag}
	app.Before = func(*cli.Context) error {
		if err := config.InitConfig(); err != nil {
			return err
		}
		log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))
		return nil
	}
	app.Commands = append(
		app.Commands,
		&fund,
		&deposit,
		&withdraw,
		&balance,
		&royalty,
		&platformFee,
		&claim,
		&claimable,
		&fees,
		&setRate,
		&quote,
		&tokens,
		&journal,
	)
	return app
}

// ledger bundles what every command needs. Changes to the vault are saved
// and the db is closed by the cleanup function returned with it.
type ledger struct {
	*application.Config
	vault    *treasury.Vault
	caller   common.Address
	decimals int32
}

func getLedger(ctx *cli.Context) (*ledger, func(), error) {
	vaultPath := config.GetVaultPath()
	vault, err := treasury.LoadVault(vaultPath, config.GetCustodyAddress())
	if err != nil {
		return nil, nil, err
	}
	guarded, err := treasury.NewBreakerTreasury(
		vault,
		config.GetInt(config.BreakerMaxFailuresKey),
		config.GetFloat(config.BreakerFailingRatioKey),
	)
	if err != nil {
		return nil, nil, err
	}

	assetRegistry := registry.NewStaticRegistry()
	if path := config.GetString(config.RegistryFileKey); path != "" {
		if assetRegistry, err = registry.LoadFile(path); err != nil {
			return nil, nil, err
		}
	}

	admins := config.GetAdminAddresses()
	policy := accesscontrol.NewPolicy(admins, config.GetManagerAddresses())

	caller, err := getCaller(ctx, admins)
	if err != nil {
		return nil, nil, err
	}

	cfg := &application.Config{
		DBType:         config.GetString(config.DBTypeKey),
		DBConfig:       config.GetDbDir(),
		Treasury:       guarded,
		AccessControl:  policy,
		AssetRegistry:  assetRegistry,
		DefaultFeeRate: config.GetUint32(config.PlatformFeeRateKey),
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		cfg.RepoManager().Close()
		if err := vault.Save(vaultPath); err != nil {
			log.WithError(err).Warn("unable to save vault")
		}
		if config.GetBool(config.EnableStatsKey) {
			dumpStats()
		}
	}

	return &ledger{
		Config:   cfg,
		vault:    vault,
		caller:   caller,
		decimals: int32(config.GetInt(config.TokenDecimalsKey)),
	}, cleanup, nil
}

func getCaller(ctx *cli.Context, admins []common.Address) (common.Address, error) {
	if s := ctx.String(callerFlag.Name); s != "" {
		return parseAddress(callerFlag.Name, s)
	}
	if len(admins) > 0 {
		return admins[0], nil
	}
	return common.Address{}, nil
}

func dumpStats() {
	if err := stats.LogMetrics(prometheus.DefaultGatherer, metricsPrefix); err != nil {
		log.WithError(err).Warn("unable to gather metrics")
		return
	}
	path := filepath.Join(config.GetDatadir(), config.StatsLocation, "metrics")
	if err := stats.DumpMetrics(prometheus.DefaultGatherer, path); err != nil {
		log.WithError(err).Warn("unable to dump metrics")
	}
}

func printJSON(ctx *cli.Context, resp interface{}) error {
	buf, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		return fmt.Errorf("unable to encode response: %w", err)
	}
	_, err = fmt.Fprintln(ctx.App.Writer, string(buf))
	return err
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[royaltyctl] %v\n", err)
	}
	os.Exit(1)
}
