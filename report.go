package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"Dext-Stats/config"
	"Dext-Stats/model"
	"Dext-Stats/module/statistics"
	"Dext-Stats/security"
	"Dext-Stats/utils"
)

type reportOptions struct {
	surveyID        int
	respondents     string
	language        string
	include         string
	exclude         string
	cutoff          int
	definitionsOnly bool
	keepMarkup      bool
	workers         int
	timeout         time.Duration
}

func newReportCommand() *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "report",
		Short: "生成统计报告并以 JSON 输出",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := opts.request()
			if err != nil {
				return err
			}

			_, repo, err := bootstrap()
			if err != nil {
				return err
			}
			defer config.DB.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, opts.timeout)
			defer cancel()

			builder := statistics.NewReportBuilder(statistics.NewRegistry(), opts.workers)
			report, err := statistics.NewService(repo, repo, builder, nil).Build(ctx, req)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.surveyID, "survey", 0, "问卷ID")
	f.StringVar(&opts.respondents, "respondents", "", "答卷ID列表，逗号分隔")
	f.StringVar(&opts.language, "language", "", "语言，缺省为问卷默认语言")
	f.StringVar(&opts.include, "include", "", "白名单列键，逗号分隔")
	f.StringVar(&opts.exclude, "exclude", "", "黑名单列键，逗号分隔")
	f.IntVar(&opts.cutoff, "cutoff", 0, "最小样本数")
	f.BoolVar(&opts.definitionsOnly, "definitions-only", false, "只输出字段定义")
	f.BoolVar(&opts.keepMarkup, "keep-markup", false, "保留题干中的 HTML")
	f.IntVar(&opts.workers, "workers", 4, "并行统计的题目数")
	f.DurationVar(&opts.timeout, "timeout", 5*time.Minute, "超时时间")
	_ = cmd.MarkFlagRequired("survey")

	return cmd
}

func (o reportOptions) request() (model.StatisticsRequest, error) {
	ids, err := utils.ParseIDList(o.respondents)
	if err != nil {
		return model.StatisticsRequest{}, err
	}
	strip := !o.keepMarkup
	return model.StatisticsRequest{
		SurveyID:        o.surveyID,
		RespondentIDs:   ids,
		Language:        o.language,
		Include:         utils.SplitList(o.include),
		Exclude:         utils.SplitList(o.exclude),
		DefinitionsOnly: o.definitionsOnly,
		Cutoff:          o.cutoff,
		StripMarkup:     &strip,
	}, nil
}

func newTokenCommand() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "签发访问统计接口的 JWT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			token, expires, err := security.GenerateToken(cfg.Auth.JWTSecret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "过期时间: %s\n", expires.Format("2006-01-02 15:04:05"))
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "令牌主体")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "有效期")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
