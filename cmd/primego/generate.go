package main

import (
	"bufio"
	"fmt"
	"time"

	"github.com/hupe1980/primego"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"leb.io/hrff"
)

func newGenerateCmd(v *viper.Viper) *cobra.Command {
	var (
		algo     string
		limit    int
		threads  int
		printAll bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the primes up to a limit and report timing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			svc := primego.New(
				primego.WithGuardPolicy(guardPolicy(v)),
				primego.WithLogger(logger),
				primego.WithCache(0),
			)
			defer svc.Close()

			res, err := svc.Generate(cmd.Context(), primego.Request{
				Algorithm: algo,
				Limit:     limit,
				Threads:   threads,
			})
			if err != nil {
				return err
			}

			w := bufio.NewWriter(cmd.OutOrStdout())
			defer w.Flush()

			if res.Skipped {
				fmt.Fprintf(w, "%-11s %s\n", "skipped:", res.SkipReason)
				return nil
			}

			if printAll {
				for _, p := range res.Primes {
					fmt.Fprintln(w, p)
				}
			}

			fmt.Fprintf(w, "%-11s %s\n", "algorithm:", res.Algorithm)
			fmt.Fprintf(w, "%-11s %d\n", "limit:", res.Limit)
			fmt.Fprintf(w, "%-11s %d\n", "threads:", res.Threads)
			fmt.Fprintf(w, "%-11s %d\n", "primes:", res.Total())
			fmt.Fprintf(w, "%-11s %d\n", "largest:", res.Largest())
			fmt.Fprintf(w, "%-11s %v\n", "duration:", res.Duration)
			fmt.Fprintf(w, "%-11s %h\n", "throughput:", throughput(res.Limit, res.Duration))
			if len(res.Failures) > 0 {
				fmt.Fprintf(w, "%-11s %d\n", "failed:", len(res.Failures))
			}

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&algo, "algorithm", "a", "sieve", "algorithm: trial, sieve, atkin or miller")
	f.IntVarP(&limit, "limit", "n", 1_000_000, "inclusive upper limit")
	f.IntVarP(&threads, "threads", "t", defaultThreads(), "number of chunk workers")
	f.BoolVar(&printAll, "print", false, "print every prime, one per line")

	return cmd
}

// throughput is the number of candidates examined per second.
func throughput(limit int, d time.Duration) hrff.Float64 {
	if d <= 0 {
		return hrff.Float64{V: 0, U: "n/s"}
	}
	return hrff.Float64{V: float64(limit) / d.Seconds(), U: "n/s"}
}
