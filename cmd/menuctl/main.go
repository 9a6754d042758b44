package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"

	"github.com/Lixing-Zhang/campus-food-finder/internal/catalog"
	"github.com/Lixing-Zhang/campus-food-finder/internal/hours"
	"github.com/Lixing-Zhang/campus-food-finder/pkg/logger"
)

// options are the flags shared by every subcommand
type options struct {
	catalogs  []string
	at        string
	timezone  string
	redisAddr string
	logLevel  string
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "menuctl",
		Short:         "Query campus vendor hours and menus from catalog files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringSliceVarP(&opts.catalogs, "catalog", "c", []string{"data/campus.yaml"}, "Catalog file, URL or redis://<key> (repeatable)")
	rootCmd.PersistentFlags().StringVar(&opts.at, "at", "", `Evaluate at a point in the week, e.g. "Fri 21:30" (default now)`)
	rootCmd.PersistentFlags().StringVar(&opts.timezone, "timezone", "America/Vancouver", "Timezone vendor hours are expressed in")
	rootCmd.PersistentFlags().StringVar(&opts.redisAddr, "redis", "", "Redis address for redis:// catalogs")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "error", "Log level for catalog loading")

	rootCmd.AddCommand(
		newSearchCmd(opts),
		newHoursCmd(opts),
		newValidateCmd(opts),
	)
	return rootCmd
}

// load reads every catalog into a fresh repository
func (o *options) load(ctx context.Context, cmd *cobra.Command) (*catalog.Repository, error) {
	var rdb *redis.Client
	if o.redisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: o.redisAddr})
		defer rdb.Close()
	}

	sources, err := catalog.ParseSources(o.catalogs, rdb)
	if err != nil {
		return nil, err
	}

	repo := catalog.NewRepository(sources, logger.NewWithWriter(cmd.ErrOrStderr(), o.logLevel))
	if _, err := repo.Reload(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// clock returns a fixed clock for --at, otherwise the wall clock in --timezone
func (o *options) clock() (hours.Clock, error) {
	if o.at != "" {
		at, err := hours.ParseInstant(o.at)
		if err != nil {
			return nil, fmt.Errorf("invalid --at: %w", err)
		}
		return hours.FixedClock(at), nil
	}

	loc, err := time.LoadLocation(o.timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid --timezone %q: %w", o.timezone, err)
	}
	return hours.NewSystemClock(loc), nil
}
