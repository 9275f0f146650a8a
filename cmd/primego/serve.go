package main

import (
	"fmt"

	"github.com/hupe1980/primego"
	"github.com/hupe1980/primego/codec"
	"github.com/hupe1980/primego/metrics"
	"github.com/hupe1980/primego/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	keyAddr             = "addr"
	keyCacheBytes       = "cache-bytes"
	keyCacheCompression = "cache-compression"
	keyMemoryLimit      = "memory-limit"
	keyWorkerBudget     = "worker-budget"
	keyRPS              = "rps"
	keyBurst            = "burst"
	keyRequestLog       = "request-log"
	keyCodec            = "codec"
	keyShutdownTimeout  = "shutdown-timeout"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the prime API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			compression, err := codec.ParseCompression(v.GetString(keyCacheCompression))
			if err != nil {
				return err
			}

			wire, ok := codec.ByName(v.GetString(keyCodec))
			if !ok {
				return fmt.Errorf("invalid %s %q", keyCodec, v.GetString(keyCodec))
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			svc := primego.New(
				primego.WithGuardPolicy(guardPolicy(v)),
				primego.WithLogger(logger),
				primego.WithMetricsCollector(metrics.NewPrometheusCollector(reg)),
				primego.WithCache(v.GetInt64(keyCacheBytes)),
				primego.WithCacheCompression(compression),
				primego.WithMemoryLimit(v.GetInt64(keyMemoryLimit)),
				primego.WithWorkerBudget(v.GetInt(keyWorkerBudget)),
				primego.WithRequestRate(v.GetFloat64(keyRPS), v.GetInt(keyBurst)),
				primego.WithRequestLogSize(v.GetInt(keyRequestLog)),
			)
			defer svc.Close()

			if err := reg.Register(metrics.NewServiceCollector(svc)); err != nil {
				return fmt.Errorf("register service metrics: %w", err)
			}

			guard := svc.Guard()
			logger.Info("starting primego",
				"addr", v.GetString(keyAddr),
				"maxLimit", guard.MaxLimit,
				"maxThreads", guard.MaxThreads,
				"cacheBytes", v.GetInt64(keyCacheBytes),
				"cacheCompression", compression.String(),
				"codec", wire.Name(),
			)

			srv := server.New(svc,
				server.WithAddr(v.GetString(keyAddr)),
				server.WithGatherer(reg),
				server.WithLogger(logger),
				server.WithCodec(wire),
				server.WithShutdownTimeout(v.GetDuration(keyShutdownTimeout)),
			)

			return srv.ListenAndServe(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.String(keyAddr, server.DefaultAddr, "listen address")
	f.Int64(keyCacheBytes, primego.DefaultCacheBytes, "result cache capacity in bytes, 0 disables the cache")
	f.String(keyCacheCompression, codec.CompressionLZ4.String(), "cache entry compression: none, lz4 or zstd")
	f.Int64(keyMemoryLimit, 0, "memory limit for cached results in bytes, 0 means unlimited")
	f.Int(keyWorkerBudget, 0, "total concurrent chunk workers across requests, 0 means unlimited")
	f.Float64(keyRPS, 0, "requests per second admitted on /api/primes, 0 means unlimited")
	f.Int(keyBurst, 10, "request burst size")
	f.Int(keyRequestLog, primego.DefaultRequestLogSize, "number of recent requests kept")
	f.String(keyCodec, codec.GoJSON{}.Name(), "response encoding: go-json or json")
	f.Duration(keyShutdownTimeout, server.DefaultShutdownTimeout, "grace period for in-flight requests on shutdown")

	return cmd
}
