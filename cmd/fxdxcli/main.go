package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/thrasher-corp/fxdx/config"
	"github.com/thrasher-corp/fxdx/encoding/json"
	"github.com/thrasher-corp/fxdx/exchanges/fxdx"
	"github.com/thrasher-corp/fxdx/exchanges/request"
	"github.com/thrasher-corp/fxdx/signaler"
	"github.com/urfave/cli/v2"
)

var (
	configPath    string
	envFile       string
	endpoint      string
	secret        string
	address       string
	prefix        string
	signingScheme string
	proxy         string
	timeout       time.Duration
	verbose       bool
	httpDebugging bool
	httpRecording bool
	dataDir       string
)

const defaultTimeout = time.Second * 30

func jsonOutput(w io.Writer, in any) error {
	j, err := json.MarshalIndent(in, "", " ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(j))
	return err
}

// loadConfig merges the config file, the environment and any flags set on the
// command line, in that order of precedence
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := &config.Config{}
	if configPath != "" {
		if err := cfg.ReadConfigFromFile(configPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.LoadEnv(envFile); err != nil {
		return nil, err
	}
	if c.IsSet("endpoint") {
		cfg.Endpoint = endpoint
	}
	if c.IsSet("secret") {
		cfg.SetSecret([]byte(secret))
	}
	if c.IsSet("address") {
		cfg.Address = address
	}
	if c.IsSet("prefix") {
		cfg.Prefix = prefix
	}
	if c.IsSet("scheme") {
		cfg.SigningScheme = signingScheme
	}
	if c.IsSet("proxy") {
		cfg.Proxy = proxy
	}
	if c.IsSet("verbose") {
		cfg.Verbose = verbose
	}
	if c.IsSet("httpdebug") {
		cfg.HTTPDebugging = httpDebugging
	}
	if c.IsSet("httprecord") {
		cfg.HTTPRecording = httpRecording
	}
	if c.IsSet("datadir") {
		cfg.DataDirectory = dataDir
	}
	if err := cfg.CheckConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupClient(c *cli.Context) (*fxdx.Client, context.CancelFunc, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Verbose || cfg.HTTPDebugging {
		if err = cfg.SetupLogger(); err != nil {
			return nil, nil, err
		}
	}
	b, err := cfg.NewBuilder()
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(c.Context, timeout)
	if cfg.Verbose {
		ctx = request.WithVerbose(ctx)
	}
	c.Context = ctx
	client, err := b.Build(ctx)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return client, cancel, nil
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "fxdxcli"
	app.EnableBashCompletion = true
	app.Usage = "command line interface for the FXDX REST API"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "the config file to load (.json, .yaml or .yml)",
			Destination: &configPath,
		},
		&cli.StringFlag{
			Name:        "envfile",
			Usage:       "a dotenv file providing " + config.EnvSecret + ", " + config.EnvAddress + " and " + config.EnvEndpoint,
			Destination: &envFile,
		},
		&cli.StringFlag{
			Name:        "endpoint",
			Usage:       "the FXDX REST endpoint",
			Destination: &endpoint,
		},
		&cli.StringFlag{
			Name:        "secret",
			Usage:       "override the shared secret used to sign requests",
			Destination: &secret,
		},
		&cli.StringFlag{
			Name:        "address",
			Usage:       "the account address sent with every request",
			Destination: &address,
		},
		&cli.StringFlag{
			Name:        "prefix",
			Value:       "maker",
			Usage:       "the route namespace, maker or api",
			Destination: &prefix,
		},
		&cli.StringFlag{
			Name:        "scheme",
			Usage:       "the signing scheme, secret-embedded or fragment-only",
			Destination: &signingScheme,
		},
		&cli.StringFlag{
			Name:        "proxy",
			Usage:       "a proxy URL to route requests through",
			Destination: &proxy,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Value:       defaultTimeout,
			Usage:       "the context timeout value for requests",
			Destination: &timeout,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Usage:       "logs requests and responses",
			Destination: &verbose,
		},
		&cli.BoolFlag{
			Name:        "httpdebug",
			Usage:       "dumps raw HTTP requests and responses",
			Destination: &httpDebugging,
		},
		&cli.BoolFlag{
			Name:        "httprecord",
			Usage:       "records responses as mock fixtures under <datadir>/http_mock",
			Destination: &httpRecording,
		},
		&cli.StringFlag{
			Name:        "datadir",
			Usage:       "the directory logs and recordings are written to",
			Destination: &dataDir,
		},
	}
	app.Commands = []*cli.Command{
		nonceCommand,
		symbolsCommand,
		depthCommand,
		klineCommand,
		balancesCommand,
		orderCommand,
	}
	return app
}

func main() {
	app := newApp()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		// Capture cancel for interrupt
		<-signaler.WaitForInterrupt()
		cancel()
		fmt.Println("fxdxcli process interrupted")
		os.Exit(1)
	}()

	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
