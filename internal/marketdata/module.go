package marketdata

import (
	"breakout_bot/internal/modules/config"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("marketdata",
		fx.Provide(
			func(cfg *config.Config) *Client {
				return NewClient(
					cfg.Quotes.BaseURL,
					cfg.Quotes.WSURL,
					cfg.Quotes.APIKey,
					cfg.Quotes.Timeout,
				)
			},
		),
	)
}
