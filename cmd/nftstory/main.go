package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/urfave/cli/v2"

	statuserrors "github.com/status-im/nftstory/errors"
	"github.com/status-im/nftstory/logutils"
	"github.com/status-im/nftstory/metrics"
	"github.com/status-im/nftstory/params"
	walletCommon "github.com/status-im/nftstory/services/wallet/common"
)

const (
	ConfigFlag      = "config"
	LogLevelFlag    = "log-level"
	LogFileFlag     = "log-file"
	MetricsPortFlag = "metrics-port"

	OwnerFlag       = "owner"
	ChainIDFlag     = "chain-id"
	ChainFlag       = "chain"
	IncludeSpamFlag = "include-spam"
	PageSizeFlag    = "page-size"
	PagesFlag       = "pages"
	AllFlag         = "all"
	SearchFlag      = "search"
	SelectFlag      = "select"
	PromptFlag      = "prompt"
)

const defaultMaxPages = 5

func accountFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     OwnerFlag,
			Usage:    "Wallet address that owns the collectibles",
			Required: true,
		},
		&cli.StringFlag{
			Name:  ChainIDFlag,
			Usage: "Hex chain ID reported by the wallet (e.g. 0x89), used when no --chain is given",
		},
		&cli.StringSliceFlag{
			Name:  ChainFlag,
			Usage: fmt.Sprintf("Chain to query, repeatable (%s)", strings.Join(params.ChainNames(walletCommon.AllChainKeys()), ", ")),
		},
		&cli.BoolFlag{
			Name:  IncludeSpamFlag,
			Usage: "Keep collectibles classified as spam",
		},
		&cli.IntFlag{
			Name:  PageSizeFlag,
			Usage: "Collectibles per chain per page (defaults to the configured page size)",
		},
		&cli.IntFlag{
			Name:  PagesFlag,
			Usage: "Maximum number of pages to load",
			Value: defaultMaxPages,
		},
	}
}

func main() {
	app := &cli.App{
		Name:  "nftstory",
		Usage: "Browse owned NFTs across chains and turn a selection into a story",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  ConfigFlag,
				Usage: "Path to a JSON config file",
			},
			&cli.StringFlag{
				Name:  LogLevelFlag,
				Usage: `Log level, one of: "ERROR", "WARN", "INFO", "DEBUG"`,
			},
			&cli.StringFlag{
				Name:  LogFileFlag,
				Usage: "Path to the log file, logs go to stderr when empty",
			},
			&cli.IntFlag{
				Name:  MetricsPortFlag,
				Usage: "Port of the metrics server, disabled when 0",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "nfts",
				Usage: "List owned collectibles",
				Flags: append(accountFlags(),
					&cli.BoolFlag{
						Name:  AllFlag,
						Usage: "Fetch every page of every chain at once",
					},
					&cli.StringFlag{
						Name:  SearchFlag,
						Usage: "Only print collectibles whose name or collection contains the term",
					},
				),
				Action: func(cCtx *cli.Context) error {
					return run(cCtx, listCollectibles)
				},
			},
			{
				Name:  "story",
				Usage: "Generate a story starring the selected collectibles",
				Flags: append(accountFlags(),
					&cli.StringSliceFlag{
						Name:     SelectFlag,
						Usage:    "ID of a collectible to cast, repeatable, in story order",
						Required: true,
					},
					&cli.StringFlag{
						Name:     PromptFlag,
						Usage:    "What the story should be about",
						Required: true,
					},
				),
				Action: func(cCtx *cli.Context) error {
					return run(cCtx, generateStory)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

type commandFunc func(ctx context.Context, cCtx *cli.Context, app *application) error

func run(cCtx *cli.Context, fn commandFunc) error {
	config, err := loadConfig(cCtx)
	if err != nil {
		return err
	}
	if err := logutils.OverrideRootLogWithConfig(config.Log); err != nil {
		return err
	}
	logger := logutils.ZapLogger()
	defer func() { _ = logger.Sync() }()

	if config.MetricsPort > 0 {
		server := metrics.NewMetricsServer(config.MetricsPort)
		go server.Listen()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := server.Stop(ctx); err != nil {
				logger.Warn("failed to stop metrics server", zap.Error(err))
			}
		}()
	}

	ctx, stop := signal.NotifyContext(cCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApplication(config, logger)
	defer app.Stop()

	return fn(ctx, cCtx, app)
}

func loadConfig(cCtx *cli.Context) (*params.Config, error) {
	config, err := params.LoadConfig(cCtx.String(ConfigFlag))
	if err != nil {
		return nil, err
	}
	if level := cCtx.String(LogLevelFlag); level != "" {
		config.Log.Level = level
	}
	if file := cCtx.String(LogFileFlag); file != "" {
		config.Log.File = file
	}
	if port := cCtx.Int(MetricsPortFlag); port > 0 {
		config.MetricsPort = port
	}
	return config, nil
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printError(w io.Writer, err error) {
	_ = printJSON(w, statuserrors.CreateErrorResponseFromError(err))
}
