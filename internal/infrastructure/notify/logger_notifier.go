// Package notify delivers one-time passcodes to account holders.
package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LoggerNotifier writes issued codes to the operational log. It stands in for
// an email sender; whoever can read the log can complete verification.
type LoggerNotifier struct {
	log zerolog.Logger
}

func NewLoggerNotifier(log zerolog.Logger) *LoggerNotifier {
	return &LoggerNotifier{log: log}
}

func (n *LoggerNotifier) NotifyOTP(ctx context.Context, email, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.log.Info().Str("email", email).Str("otp", code).Msg("otp issued")
	return nil
}
