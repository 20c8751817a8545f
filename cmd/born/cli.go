package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/born-ml/born-collective/internal/backend/cpu"
	"github.com/born-ml/born-collective/internal/collective"
	"github.com/born-ml/born-collective/internal/distributed"
	"github.com/born-ml/born-collective/internal/tensor"
)

const version = "v0.1.0-dev"

// NewCLI builds the command tree.
func NewCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "born",
		Short: "Tensor collectives over simulated ranks",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Disable usage printing on errors
			cmd.SilenceUsage = true

			level := slog.LevelInfo
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	cobra.EnableCommandSorting = false

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "born-collective %s\n", version)
		},
	}

	allReduceCmd := &cobra.Command{
		Use:   "allreduce",
		Short: "Sum one value per rank across simulated ranks",
		Long: "Starts --world-size ranks in this process. Rank i contributes --values[i] " +
			"(default i+1); every rank prints the reduced value multiplied by --scale.",
		Args: cobra.NoArgs,
		RunE: AllReduceHandler,
	}
	allReduceCmd.Flags().IntP("world-size", "n", 2, "Number of simulated ranks")
	allReduceCmd.Flags().Float64("scale", 1, "Factor applied after the reduction")
	allReduceCmd.Flags().Float64Slice("values", nil, "Value contributed by each rank")
	allReduceCmd.Flags().Bool("async", false, "Run the reduction asynchronously")
	allReduceCmd.Flags().String("config", "", "YAML file with backend and world_size; --world-size overrides the file")

	barrierCmd := &cobra.Command{
		Use:   "barrier",
		Short: "Synchronize simulated ranks on a barrier",
		Long: "Starts --world-size ranks in this process. Rank i arrives after i*--stagger " +
			"and no rank passes the barrier before all have arrived.",
		Args: cobra.NoArgs,
		RunE: BarrierHandler,
	}
	barrierCmd.Flags().IntP("world-size", "n", 2, "Number of simulated ranks")
	barrierCmd.Flags().Duration("stagger", 10*time.Millisecond, "Arrival delay between consecutive ranks")

	rootCmd.AddCommand(versionCmd, allReduceCmd, barrierCmd)
	return rootCmd
}

// rank is one simulated process.
type rank struct {
	info    *distributed.Info
	backend *cpu.CPUBackend
}

// startRanks creates and initializes worldSize ranks sharing one group.
func startRanks(ctx context.Context, worldSize int, transport distributed.Backend) ([]rank, error) {
	if worldSize < 1 {
		return nil, fmt.Errorf("world size must be >= 1, got %d", worldSize)
	}
	group := collective.NewGroup(worldSize)
	ranks := make([]rank, worldSize)
	for r := range ranks {
		backend := cpu.New(cpu.WithCommunicator(group.Rank(r)), cpu.WithContext(ctx))
		info := distributed.New()
		err := info.Init(distributed.Config{
			Backend:   transport,
			WorldSize: worldSize,
			Rank:      r,
			Engine:    backend,
		})
		if err != nil {
			return nil, err
		}
		ranks[r] = rank{info: info, backend: backend}
	}
	return ranks, nil
}

// AllReduceHandler runs the allreduce command.
func AllReduceHandler(cmd *cobra.Command, args []string) error {
	worldSize, err := cmd.Flags().GetInt("world-size")
	if err != nil {
		return err
	}
	scale, err := cmd.Flags().GetFloat64("scale")
	if err != nil {
		return err
	}
	values, err := cmd.Flags().GetFloat64Slice("values")
	if err != nil {
		return err
	}
	async, err := cmd.Flags().GetBool("async")
	if err != nil {
		return err
	}

	transport := distributed.InProcess
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err := distributed.LoadConfig(path)
		if err != nil {
			return err
		}
		transport = cfg.Backend
		if !cmd.Flags().Changed("world-size") {
			worldSize = cfg.WorldSize
		}
	}

	if len(values) == 0 {
		for r := range worldSize {
			values = append(values, float64(r+1))
		}
	}
	if len(values) != worldSize {
		return fmt.Errorf("got %d values for %d ranks", len(values), worldSize)
	}

	results, err := runAllReduce(cmd.Context(), values, scale, async, transport)
	if err != nil {
		return err
	}
	for r, v := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "rank %d: %g\n", r, v)
	}
	return nil
}

func runAllReduce(ctx context.Context, values []float64, scale float64, async bool, transport distributed.Backend) ([]float64, error) {
	g, ctx := errgroup.WithContext(ctx)
	ranks, err := startRanks(ctx, len(values), transport)
	if err != nil {
		return nil, err
	}

	results := make([]float64, len(ranks))
	for r, rk := range ranks {
		g.Go(func() error {
			x, err := tensor.FullOn(rk.backend, tensor.Shape{1}, values[r], tensor.Float64)
			if err != nil {
				return err
			}
			if err := rk.info.AllReduce(x, scale, async); err != nil {
				return fmt.Errorf("rank %d: %w", r, err)
			}
			if async {
				if err := rk.backend.SyncCollective(); err != nil {
					return fmt.Errorf("rank %d: %w", r, err)
				}
			}
			v, err := x.Scalar()
			if err != nil {
				return fmt.Errorf("rank %d: %w", r, err)
			}
			results[r] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// BarrierHandler runs the barrier command.
func BarrierHandler(cmd *cobra.Command, args []string) error {
	worldSize, err := cmd.Flags().GetInt("world-size")
	if err != nil {
		return err
	}
	stagger, err := cmd.Flags().GetDuration("stagger")
	if err != nil {
		return err
	}
	return runBarrier(cmd.Context(), cmd.OutOrStdout(), worldSize, stagger)
}

func runBarrier(ctx context.Context, w io.Writer, worldSize int, stagger time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)
	ranks, err := startRanks(ctx, worldSize, distributed.InProcess)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	report := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, format, args...)
	}

	for r, rk := range ranks {
		g.Go(func() error {
			time.Sleep(time.Duration(r) * stagger)
			report("rank %d arrived\n", r)
			if err := rk.info.Barrier(); err != nil {
				return fmt.Errorf("rank %d: %w", r, err)
			}
			report("rank %d passed\n", r)
			return nil
		})
	}
	return g.Wait()
}
