package main

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"github.com/hupe1980/primego"
	"github.com/klauspost/cpuid/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	keyMaxLimit   = "max-limit"
	keyMaxThreads = "max-threads"
	keyLogFormat  = "log-format"
	keyLogLevel   = "log-level"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("PRIMEGO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// The prefixed name wins over bare MAXLIMIT/MAXTHREADS.
	_ = v.BindEnv(keyMaxLimit, "PRIMEGO_MAX_LIMIT", "MAXLIMIT")
	_ = v.BindEnv(keyMaxThreads, "PRIMEGO_MAX_THREADS", "MAXTHREADS")

	root := &cobra.Command{
		Use:           "primego",
		Short:         "Parallel segmented prime generator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return v.BindPFlags(cmd.Flags())
		},
	}

	pf := root.PersistentFlags()
	pf.Int(keyMaxLimit, primego.DefaultMaxLimit, "largest upper limit served (env MAXLIMIT)")
	pf.Int(keyMaxThreads, primego.DefaultMaxThreads, "largest thread count served (env MAXTHREADS)")
	pf.String(keyLogFormat, "text", "log format: text or json")
	pf.String(keyLogLevel, "info", "log level: debug, info, warn or error")

	root.AddCommand(
		newServeCmd(v),
		newGenerateCmd(v),
		newAlgorithmsCmd(),
	)

	return root
}

func newAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List supported algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := primego.New()
			defer svc.Close()

			for _, name := range svc.Algorithms() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func guardPolicy(v *viper.Viper) primego.GuardPolicy {
	return primego.GuardPolicy{
		MaxLimit:   v.GetInt(keyMaxLimit),
		MaxThreads: v.GetInt(keyMaxThreads),
	}
}

func newLogger(v *viper.Viper, w io.Writer) (*primego.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString(keyLogLevel))); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", keyLogLevel, err)
	}

	hopts := &slog.HandlerOptions{Level: level}

	switch format := strings.ToLower(v.GetString(keyLogFormat)); format {
	case "json":
		return primego.NewLogger(slog.NewJSONHandler(w, hopts)), nil
	case "text", "":
		return primego.NewLogger(slog.NewTextHandler(w, hopts)), nil
	default:
		return nil, fmt.Errorf("invalid %s %q", keyLogFormat, format)
	}
}

// defaultThreads is the physical core count, or the logical count when the
// CPU cannot be identified.
func defaultThreads() int {
	if n := cpuid.CPU.PhysicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}
