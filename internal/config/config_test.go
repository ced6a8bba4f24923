package config

import "testing"

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc", RunMode: "longpoll"},
		Channel:  ChannelConfig{Username: "BuffinIt"},
		Manager:  ManagerConfig{ID: 55, Username: "mgr"},
		Admins:   []Admin{{ID: 101, Username: "a"}},
	}
}

func TestNormalizeDefaultsAndChannelPrefix(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = ""

	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run mode = %q, want longpoll default", cfg.Telegram.RunMode)
	}
	if cfg.Channel.Username != "@BuffinIt" {
		t.Fatalf("channel username = %q, want @ prefix added", cfg.Channel.Username)
	}
}

func TestNormalizeRejectsMissingToken(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestNormalizeRejectsMissingChannel(t *testing.T) {
	cfg := validConfig()
	cfg.Channel = ChannelConfig{}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for missing channel")
	}
}

func TestNormalizeWebhookRequiresListener(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for webhook mode without listener settings")
	}

	cfg.Webhook = WebhookConfig{URL: "https://bot.example.com", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize webhook: %v", err)
	}
}

func TestNormalizeRejectsDuplicateAdmins(t *testing.T) {
	cfg := validConfig()
	cfg.Admins = []Admin{{ID: 101}, {ID: 101}}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for duplicate admin ids")
	}
}

func TestNormalizeRejectsUnknownRateLimitExclusion(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{"inline_query"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unknown exclusion kind")
	}
}

func TestChannelRecipientPrefersChatID(t *testing.T) {
	c := ChannelConfig{Username: "@BuffinIt", ChatID: -100123}
	if got := c.ChannelRecipient(); got != int64(-100123) {
		t.Fatalf("recipient = %v, want numeric chat id", got)
	}
	c.ChatID = 0
	if got := c.ChannelRecipient(); got != "@BuffinIt" {
		t.Fatalf("recipient = %v, want username", got)
	}
}

func TestJoinURL(t *testing.T) {
	c := ChannelConfig{Username: "@BuffinIt"}
	if got := c.JoinURL(); got != "https://t.me/BuffinIt" {
		t.Fatalf("join url = %q", got)
	}
}
