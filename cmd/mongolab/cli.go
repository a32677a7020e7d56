package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/client"
	"github.com/vinicius-lino-figueiredo/mongolab/adapter/codec"
	"github.com/vinicius-lino-figueiredo/mongolab/domain"
)

const defaultConfigName = ".mongolab.toml"

type cli struct {
	out    io.Writer
	getenv func(string) string
	codec  domain.Codec
	logger *logrus.Logger

	configFile string
	apiKey     string
	proxyURL   string
	baseURL    string
	timeout    time.Duration
	debug      bool
}

func newRootCommand(out, errOut io.Writer, getenv func(string) string) *cobra.Command {
	logger := logrus.New()
	logger.SetOutput(errOut)
	c := &cli{
		out:    out,
		getenv: getenv,
		codec:  codec.NewCodec(),
		logger: logger,
	}

	cmd := &cobra.Command{
		Use:           "mongolab [OPTIONS] COMMAND",
		Short:         "Query databases hosted on MongoLab through its REST API",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(*cobra.Command, []string) {
			if c.debug {
				c.logger.SetLevel(logrus.DebugLevel)
			}
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "Path to the TOML config file (default ~/"+defaultConfigName+")")
	flags.StringVar(&c.apiKey, "api-key", "", "API key, overrides "+envAPIKey)
	flags.StringVar(&c.proxyURL, "proxy", "", "Proxy URL, overrides "+envProxyURL)
	flags.StringVar(&c.baseURL, "base-url", "", "Base URL of the REST API")
	flags.DurationVar(&c.timeout, "timeout", 0, "Timeout of each request")
	flags.BoolVarP(&c.debug, "debug", "D", false, "Enable debug logging")

	cmd.AddCommand(
		newDatabasesCommand(c),
		newCollectionsCommand(c),
		newFindCommand(c),
		newCountCommand(c),
		newInsertCommand(c),
		newUpdateCommand(c),
		newRemoveCommand(c),
		newCommandCommand(c),
	)
	return cmd
}

// config loads the config file and the environment, then applies the flags
// that were set.
func (c *cli) config(cmd *cobra.Command) (Config, error) {
	path, explicit := c.configFile, true
	if path == "" {
		explicit = false
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, defaultConfigName)
		}
	}
	cfg, err := LoadConfig(path, explicit, c.getenv)
	if err != nil {
		return Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("api-key") {
		cfg.APIKey = c.apiKey
	}
	if flags.Changed("proxy") {
		cfg.ProxyURL = c.proxyURL
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = c.baseURL
	}
	if flags.Changed("timeout") {
		cfg.Timeout = c.timeout.String()
	}
	return cfg, nil
}

func (c *cli) connect(cmd *cobra.Command) (*client.Client, error) {
	cfg, err := c.config(cmd)
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	c.logger.WithFields(logrus.Fields{
		"api_key": domain.MaskAPIKey(cfg.APIKey),
		"version": cfg.Version,
		"proxy":   cfg.ProxyURL != "",
	}).Debug("connecting")

	return client.Connect(c.context(cmd), cfg.APIKey,
		client.WithVersion(domain.Version(cfg.Version)),
		client.WithBaseURL(cfg.BaseURL),
		client.WithProxyURL(cfg.ProxyURL),
		client.WithTimeout(timeout),
		client.WithLogger(logrus.NewEntry(c.logger)),
		client.WithCodec(c.codec),
	)
}

// parse reads an extended JSON argument.
func (c *cli) parse(name, s string) (any, error) {
	v, err := c.codec.Unmarshal([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

// print writes v as extended JSON on its own line.
func (c *cli) print(v any) error {
	b, err := c.codec.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, string(b))
	return err
}

func (c *cli) context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
