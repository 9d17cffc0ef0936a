package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/km-arc/go-container/app"
	"github.com/km-arc/go-container/framework/container"
)

// cli holds the flags shared by every command.
type cli struct {
	root *cobra.Command
	out  io.Writer

	envFiles     []string
	configFiles  []string
	defFiles     []string
	logLevel     string
	maxDepth     int
	sharedTokens bool
}

type command interface {
	registerFlags() *cobra.Command
	run(c *cli, cmd *cobra.Command, args []string) error
}

func newCLI(out io.Writer) *cli {
	c := &cli{out: out}
	c.root = &cobra.Command{
		Use:           "dic",
		Short:         "dic declares, builds and serves services from definition files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	c.root.SetOut(out)

	flags := c.root.PersistentFlags()
	flags.StringSliceVar(&c.envFiles, "env", []string{".env"}, "dotenv files merged into config")
	flags.StringSliceVar(&c.configFiles, "config", nil, "YAML config files merged into config")
	flags.StringSliceVarP(&c.defFiles, "file", "f", nil, "service definition files")
	flags.StringVar(&c.logLevel, "log-level", "warn", "logrus level")
	flags.IntVar(&c.maxDepth, "max-depth", 0, "fail service token chains deeper than this (0: unlimited)")
	flags.BoolVar(&c.sharedTokens, "shared-tokens", false, "let service tokens reuse shared instances")

	c.addCmd(&demoCmd{})
	c.addCmd(&listCmd{})
	c.addCmd(&buildCmd{})
	c.addCmd(&serveCmd{})
	return c
}

func (c *cli) addCmd(cmd command) {
	cobraCmd := cmd.registerFlags()
	cobraCmd.RunE = func(innerCmd *cobra.Command, args []string) error {
		return cmd.run(c, innerCmd, args)
	}
	c.root.AddCommand(cobraCmd)
}

func (c *cli) Execute() error {
	return c.root.Execute()
}

func (c *cli) application() (*app.Application, error) {
	level, err := logrus.ParseLevel(c.logLevel)
	if err != nil {
		return nil, errors.Wrap(err, "dic: --log-level")
	}
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level)

	var opts []container.Option
	if c.maxDepth > 0 {
		opts = append(opts, container.WithMaxDepth(c.maxDepth))
	}
	if c.sharedTokens {
		opts = append(opts, container.WithSharedServiceTokens())
	}
	return app.New(app.Options{
		EnvFiles:        c.envFiles,
		ConfigFiles:     c.configFiles,
		DefinitionFiles: c.defFiles,
		Logger:          log,
		Container:       opts,
	})
}

// ── demo ──────────────────────────────────────────────────────────────────────

type demoCmd struct{}

func (d *demoCmd) registerFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through shared, transient and protected services",
		Args:  cobra.NoArgs,
	}
}

func (d *demoCmd) run(c *cli, _ *cobra.Command, _ []string) error {
	a, err := c.application()
	if err != nil {
		return err
	}
	return app.Demo(a.Container, c.out)
}

// ── list ──────────────────────────────────────────────────────────────────────

type listCmd struct{}

func (l *listCmd) registerFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List defined services",
		Args:  cobra.NoArgs,
	}
}

func (l *listCmd) run(c *cli, _ *cobra.Command, _ []string) error {
	a, err := c.application()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCLASS\tLIFETIME\tDEPENDS ON")
	for _, id := range a.Services() {
		def, err := a.Definition(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", id, def.Class, lifetime(def), strings.Join(def.Dependencies(), ","))
	}
	return tw.Flush()
}

func lifetime(def container.Definition) string {
	var parts []string
	if def.Shared {
		parts = append(parts, "shared")
	} else {
		parts = append(parts, "transient")
	}
	if def.Protected {
		parts = append(parts, "protected")
	}
	return strings.Join(parts, ",")
}

// ── build ─────────────────────────────────────────────────────────────────────

type buildCmd struct {
	force bool
}

func (b *buildCmd) registerFlags() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <id>",
		Short: "Build a service and dump the instance",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().BoolVar(&b.force, "force", false, "build even protected services, bypassing the cache")
	return cmd
}

func (b *buildCmd) run(c *cli, _ *cobra.Command, args []string) error {
	a, err := c.application()
	if err != nil {
		return err
	}
	id := args[0]

	var instance any
	if b.force {
		instance, err = a.Build(id)
	} else {
		instance, err = a.GetService(id)
	}
	if err != nil {
		return err
	}
	spew.Fdump(c.out, instance)
	stats := a.Stats(id)
	fmt.Fprintf(c.out, "built %s in %s\n", id, stats.Max)
	return nil
}

// ── serve ─────────────────────────────────────────────────────────────────────

type serveCmd struct {
	port string
}

func (s *serveCmd) registerFlags() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the container inspector over HTTP",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&s.port, "port", "", "listen port (overrides app.port)")
	return cmd
}

func (s *serveCmd) run(c *cli, cmd *cobra.Command, _ []string) error {
	a, err := c.application()
	if err != nil {
		return err
	}
	if s.port != "" {
		a.SetConfig("app.port", s.port)
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Run(ctx)
}
