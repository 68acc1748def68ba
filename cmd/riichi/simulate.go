package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"riichi/common/config"
	"riichi/common/log"
	"riichi/common/metrics"
	"riichi/core/container"
	"riichi/runtime/game"
	"riichi/runtime/game/engines"
	"riichi/runtime/game/engines/mahjong"
	"riichi/runtime/game/selfplay"

	"github.com/spf13/cobra"
)

type simulateOptions struct {
	tables   int
	seed     int64
	maxSteps int
	brain    string
}

type tableOutcome struct {
	tableID string
	seed    int64
	steps   int
	state   *mahjong.GameState
	err     error
}

func newSimulateCmd() *cobra.Command {
	opts := &simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "自对局模拟：开多张牌桌，由内置策略打完整场",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Current()
			if !cmd.Flags().Changed("tables") {
				opts.tables = cfg.Simulation.Tables
			}
			if !cmd.Flags().Changed("seed") {
				opts.seed = cfg.Simulation.Seed
			}
			if !cmd.Flags().Changed("steps") {
				opts.maxSteps = cfg.Simulation.MaxSteps
			}
			return runSimulate(cmd.Context(), cfg, opts)
		},
	}
	cmd.Flags().IntVar(&opts.tables, "tables", 4, "牌桌数")
	cmd.Flags().Int64Var(&opts.seed, "seed", 1, "第一张牌桌的种子，之后依次加一")
	cmd.Flags().IntVar(&opts.maxSteps, "steps", 20000, "每张牌桌的最大命令数")
	cmd.Flags().StringVar(&opts.brain, "brain", "greedy", "策略: random | greedy")
	return cmd
}

func parseLevel(name string) (selfplay.Level, error) {
	switch name {
	case "random":
		return selfplay.LevelRandom, nil
	case "greedy":
		return selfplay.LevelGreedy, nil
	default:
		return 0, fmt.Errorf("未知的策略: %s", name)
	}
}

func runSimulate(ctx context.Context, cfg *config.Config, opts *simulateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	level, err := parseLevel(opts.brain)
	if err != nil {
		return err
	}
	gc, err := container.NewGameContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := gc.Close(); err != nil {
			log.Warn("关闭容器失败: %v", err)
		}
	}()

	onReload(func(next *config.Config) {
		if err := gc.InstallPrototypes(next.Rules); err != nil {
			log.Warn("热更新规则失败: %v", err)
		}
	})

	rooms := gc.GameWorker.RoomManager
	if cfg.MetricPort > 0 {
		go func() {
			log.Info("启动监控..., URL: http://localhost:%d/debug/statsviz/", cfg.MetricPort)
			if err := metrics.Serve(fmt.Sprintf("0.0.0.0:%d", cfg.MetricPort)); err != nil {
				log.Warn("监控服务退出: %v", err)
			}
		}()
	}
	if cfg.Simulation.MonitorSeconds > 0 {
		monitor := game.NewMonitor(rooms, time.Duration(cfg.Simulation.MonitorSeconds)*time.Second)
		go monitor.Start(ctx)
		defer monitor.Stop()
	}
	engineType := engines.RIICHI_MAHJONG_4P_ENGINE.Int32()
	start := time.Now()

	outcomes := make([]tableOutcome, opts.tables)
	var wg sync.WaitGroup
	for i := 0; i < opts.tables; i++ {
		seed := opts.seed + int64(i)
		table, err := rooms.CreateTable(engineType, seed)
		if err != nil {
			return err
		}
		var brains [4]selfplay.Brain
		for seat := range brains {
			if brains[seat], err = selfplay.NewBrain(level, seed*4+int64(seat)); err != nil {
				return err
			}
		}

		wg.Add(1)
		go func(i int, tableID string) {
			defer wg.Done()
			state, steps, err := selfplay.Play(selfplay.RoomTable{Rooms: rooms, TableID: tableID}, brains, opts.maxSteps)
			outcomes[i] = tableOutcome{tableID: tableID, seed: seed, steps: steps, state: state, err: err}
		}(i, table.ID)
	}
	wg.Wait()

	failed := 0
	for _, o := range outcomes {
		if o.err != nil {
			failed++
			log.Error("牌桌 %s (seed=%d) 异常: steps=%d: %v", o.tableID, o.seed, o.steps, o.err)
			continue
		}
		gr := o.state.GameResult
		fmt.Printf("table=%s seed=%d steps=%d hands=%d ranking=%v points=%v\n",
			o.tableID, o.seed, o.steps, o.state.Round.DealNo, gr.Ranking, gr.Points)
	}
	stats := rooms.GetStats()
	log.Info("模拟结束: tables=%d failed=%d elapsed=%s load=%.2f", opts.tables, failed, time.Since(start), stats.CalculateLoad())
	if failed > 0 {
		return fmt.Errorf("%d 张牌桌异常", failed)
	}
	return nil
}
