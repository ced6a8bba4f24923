// Package gate decides whether a user may reach the bot's main actions.
// The only criterion is membership in the required channel.
package gate

import (
	"context"
	"log/slog"

	"github.com/m3rciful/buffpay/internal/logger"
)

// MemberStatus mirrors the membership states reported by the oracle.
type MemberStatus string

const (
	StatusCreator       MemberStatus = "creator"
	StatusAdministrator MemberStatus = "administrator"
	StatusMember        MemberStatus = "member"
	StatusRestricted    MemberStatus = "restricted"
	StatusLeft          MemberStatus = "left"
	StatusKicked        MemberStatus = "kicked"
	StatusUnknown       MemberStatus = "unknown"
)

// Oracle answers the current membership status of a user in the required channel.
type Oracle interface {
	MemberStatus(ctx context.Context, userID int64) (MemberStatus, error)
}

// Gate wraps the oracle with the subscribed/not-subscribed decision.
//
// Every check queries the oracle fresh; verdicts are never cached, so a user
// who just subscribed passes the very next check. An oracle failure reads as
// "not subscribed": both lead to the same subscription-required screen.
type Gate struct {
	oracle Oracle
}

// New builds a Gate over the given oracle.
func New(oracle Oracle) *Gate {
	return &Gate{oracle: oracle}
}

// Allowed reports whether the user is currently subscribed to the channel.
func (g *Gate) Allowed(ctx context.Context, userID int64) bool {
	status, err := g.oracle.MemberStatus(ctx, userID)
	if err != nil {
		logger.Warn(ctx, "gate", "check.failed",
			slog.Int64("user_id", userID),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return false
	}

	switch status {
	case StatusCreator, StatusAdministrator, StatusMember:
		logger.Debug(ctx, "gate", "check.passed",
			slog.Int64("user_id", userID),
			slog.String("status", "ok"),
		)
		return true
	default:
		logger.Debug(ctx, "gate", "check.denied",
			slog.Int64("user_id", userID),
			slog.String("state", string(status)),
		)
		return false
	}
}
