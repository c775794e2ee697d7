package main

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/reglet-dev/portcfg/internal/domain/catalog"
	"github.com/reglet-dev/portcfg/internal/domain/scheduler"
	"github.com/spf13/cobra"
)

// errSchedulerDisabled means the resolved configuration has no idle hook.
var errSchedulerDisabled = errors.New("scheduler is disabled in this configuration")

func newPollCmd() *cobra.Command {
	var (
		inputs     InputOptions
		iterations int
		callbacks  int
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Exercise the idle-poll hook of a configuration",
		Long: `Resolve a configuration and run its idle-poll hook against the host
sleeper. Each poll drains pending callbacks, then sleeps one quantum. Use
--callbacks to queue work before polling starts.`,
		Example: `  portcfg poll --compiler msvc --compiler-version 19.29 --pointer-width 64
  portcfg poll -f inputs.yaml --iterations 10 --callbacks 4 -v`,
		Args: cobra.NoArgs,
		RunE: withContainer(func(ctx *CommandContext, cmd *cobra.Command, _ []string) error {
			if iterations < 1 {
				return fmt.Errorf("invalid iterations: %d (must be at least 1)", iterations)
			}
			if callbacks < 0 {
				return fmt.Errorf("invalid callbacks: %d (must be at least 0)", callbacks)
			}
			common := CommonOptions{Timeout: timeout}
			runCtx, cancel := common.ApplyToContext(ctx.Context)
			defer cancel()

			req, err := inputs.BuildRequest(runCtx, ctx.Container.InputsLoader(), cmd.Flags())
			if err != nil {
				return err
			}
			ctx.Container.SystemConfig().ApplyTo(&req)

			queue := &scheduler.Queue{}
			var ran atomic.Int64
			for range callbacks {
				queue.Schedule(func() { ran.Add(1) })
			}
			req.Drain = queue.Drain

			resp, err := ctx.Container.ResolveConfigUseCase().Execute(runCtx, req)
			if err != nil {
				return err
			}

			hook := resp.Configuration.NewIdleHook(ctx.Container.Host())
			if hook == nil {
				return fmt.Errorf("%w (%s=false)", errSchedulerDisabled, catalog.SchedulerEnable)
			}
			hook.OnTransition = func(from, to scheduler.State) {
				ctx.Logger.Debug("idle hook transition", "from", from, "to", to, "pending", queue.Len())
			}

			start := time.Now()
			err = hook.RunUntil(runCtx, func() bool {
				return hook.Polls() >= uint64(iterations)
			})
			if err != nil {
				return fmt.Errorf("poll loop stopped after %d polls: %w", hook.Polls(), err)
			}

			out := cmd.OutOrStdout()
			_, err = fmt.Fprintf(out, "polls: %d\nquantum: %s\ncallbacks run: %d of %d\nelapsed: %s\n",
				hook.Polls(),
				resp.Configuration.IdlePolicy().Quantum,
				ran.Load(), callbacks,
				time.Since(start).Round(time.Microsecond),
			)
			return err
		}),
	}

	inputs.RegisterFlags(cmd.Flags())
	cmd.Flags().IntVar(&iterations, "iterations", 3, "Number of idle polls to run")
	cmd.Flags().IntVar(&callbacks, "callbacks", 0, "Callbacks to queue before polling")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Stop polling after this long (0 to disable)")

	return cmd
}

func init() {
	rootCmd.AddCommand(newPollCmd())
}
