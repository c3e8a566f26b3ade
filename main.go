package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Dext-Stats/config"
	"Dext-Stats/module/statistics"
	"Dext-Stats/utils"
)

func main() {
	root := &cobra.Command{
		Use:           "dext-stats",
		Short:         "问卷统计报告服务",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newReportCommand(), newTokenCommand(), newTypesCommand())

	if err := root.Execute(); err != nil {
		utils.Logger().Error("命令执行失败", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap 读取配置、初始化日志与数据库，返回统计仓储
func bootstrap() (*config.Settings, statistics.Repository, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := utils.InitLogger(cfg.Env); err != nil {
		return nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	if err := config.InitDB(cfg.DB); err != nil {
		return nil, nil, err
	}
	utils.Logger().Info("数据库已连接", zap.String("prefix", cfg.DB.TablePrefix))

	repo, err := statistics.NewRepository(config.DB, cfg.DB.TablePrefix)
	if err != nil {
		return nil, nil, err
	}
	return cfg, repo, nil
}

func newTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "列出支持的题型标签",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, tag := range statistics.NewRegistry().Tags() {
				fmt.Fprintln(cmd.OutOrStdout(), tag)
			}
		},
	}
}
