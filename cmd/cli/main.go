package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"datacatalog/internal/config"
	"datacatalog/internal/container"
)

func main() {
	// Load environment variables from .env file
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// cli carries the flags and lazily built dependencies shared by every command
type cli struct {
	configPath string
	bucket     string
	container  *container.Container
}

// run executes one CLI invocation and releases what it opened
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := &cli{}
	root := c.newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if c.container != nil {
		if closeErr := c.container.Shutdown(context.Background()); err == nil {
			err = closeErr
		}
	}
	return err
}

func (c *cli) newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "datacatalog",
		Short:         "Profile Excel and CSV files and suggest data catalog metadata",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", os.Getenv("CONFIG_FILE"), "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&c.bucket, "bucket", "", "Read file arguments as object keys in this bucket")

	rootCmd.AddCommand(
		c.newAnalyzeCmd(),
		c.newValidateCmd(),
		c.newSuggestCmd(),
		c.newClassifyCmd(),
		c.newReportCmd(),
		c.newImportCmd(),
		c.newAssetCmd(),
	)
	return rootCmd
}

func (c *cli) init(ctx context.Context) error {
	appConfig, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.container, err = container.New(ctx, appConfig)
	return err
}
