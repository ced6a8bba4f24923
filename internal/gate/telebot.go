package gate

import (
	"context"
	"fmt"
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/buffpay/internal/config"
)

// BotAPI is the slice of the telebot client the oracle needs.
type BotAPI interface {
	ChatMemberOf(chat, user tele.Recipient) (*tele.ChatMember, error)
	ChatByUsername(name string) (*tele.Chat, error)
}

// ChannelOracle resolves membership through the Bot API getChatMember call.
type ChannelOracle struct {
	api BotAPI
	cfg config.ChannelConfig

	mu   sync.Mutex
	chat *tele.Chat
}

// NewChannelOracle builds an oracle for the configured required channel.
func NewChannelOracle(api BotAPI, cfg config.ChannelConfig) *ChannelOracle {
	return &ChannelOracle{api: api, cfg: cfg}
}

// MemberStatus queries the channel membership of userID.
func (o *ChannelOracle) MemberStatus(_ context.Context, userID int64) (MemberStatus, error) {
	chat, err := o.channel()
	if err != nil {
		return StatusUnknown, err
	}

	member, err := o.api.ChatMemberOf(chat, &tele.User{ID: userID})
	if err != nil {
		return StatusUnknown, fmt.Errorf("chat member lookup: %w", err)
	}

	switch member.Role {
	case tele.Creator:
		return StatusCreator, nil
	case tele.Administrator:
		return StatusAdministrator, nil
	case tele.Member:
		return StatusMember, nil
	case tele.Restricted:
		return StatusRestricted, nil
	case tele.Left:
		return StatusLeft, nil
	case tele.Kicked:
		return StatusKicked, nil
	default:
		return StatusUnknown, nil
	}
}

// channel resolves the required channel chat once and caches it. The numeric
// id is preferred; public channels configured by username are resolved via the
// Bot API on first use.
func (o *ChannelOracle) channel() (*tele.Chat, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.chat != nil {
		return o.chat, nil
	}

	if o.cfg.ChatID != 0 {
		o.chat = &tele.Chat{ID: o.cfg.ChatID}
		return o.chat, nil
	}

	chat, err := o.api.ChatByUsername(o.cfg.Username)
	if err != nil {
		return nil, fmt.Errorf("resolve channel %s: %w", o.cfg.Username, err)
	}
	o.chat = chat
	return o.chat, nil
}
