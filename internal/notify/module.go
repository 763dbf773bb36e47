package notify

import (
	"breakout_bot/internal/modules/config"
	"breakout_bot/pkg/logger"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("notify",
		fx.Provide(
			func(cfg *config.Config) Notifier {
				if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
					return NewStdout()
				}
				t, err := NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
				if err != nil {
					logger.Warn("telegram init failed, falling back to stdout: %v", err)
					return NewStdout()
				}
				return t
			},
		),
	)
}
