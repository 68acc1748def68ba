package main

import (
	"os"
	"sync"

	"riichi/common/config"
	"riichi/common/log"

	"github.com/spf13/cobra"
)

var (
	configFile  string
	reloadMu    sync.Mutex
	reloadHooks []func(*config.Config)
)

var rootCmd = &cobra.Command{
	Use:   "riichi",
	Short: "riichi 四人立直麻将规则引擎",
	Long:  `riichi 四人立直麻将规则引擎：自对局模拟、手牌向听分析、和牌计分`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile == "" {
			cfg := config.Default()
			log.InitLog(cfg.AppName, cfg.Log.Level)
			return nil
		}
		if err := config.InitConfig(configFile, onConfigChange); err != nil {
			return err
		}
		cfg := config.Current()
		log.InitLog(cfg.AppName, cfg.Log.Level)
		if cfg.Log.Path != "" {
			if err := log.InitFile(cfg.Log.Path, cfg.AppName); err != nil {
				return err
			}
		}
		log.Info("配置文件: %s", configFile)
		return nil
	},
	SilenceUsage: true,
}

// onReload 注册配置热更新回调
func onReload(fn func(*config.Config)) {
	reloadMu.Lock()
	defer reloadMu.Unlock()
	reloadHooks = append(reloadHooks, fn)
}

// onConfigChange 调整日志级别并通知回调，规则只影响之后新建的牌桌
func onConfigChange(cfg *config.Config) {
	log.SetLevel(cfg.Log.Level)
	reloadMu.Lock()
	hooks := append(([]func(*config.Config))(nil), reloadHooks...)
	reloadMu.Unlock()
	for _, fn := range hooks {
		fn(cfg)
	}
	log.Info("配置已重新加载: %s", configFile)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "configFile", "", "配置文件（yaml），为空时使用默认配置")
	rootCmd.AddCommand(newSimulateCmd(), newShantenCmd(), newScoreCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("error happen: %v", err)
		os.Exit(1)
	}
}
