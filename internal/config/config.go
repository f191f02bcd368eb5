package config

import (
	"time"
)

// SyncOptions selects which categories of admin data a sync pass copies.
type SyncOptions struct {
	Whitelist         bool `yaml:"whitelist"`
	RegexWhitelist    bool `yaml:"regex_whitelist"`
	Blacklist         bool `yaml:"blacklist"`
	Regexlist         bool `yaml:"regexlist"`
	Adlist            bool `yaml:"adlist"`
	Client            bool `yaml:"client"`
	Group             bool `yaml:"group"`
	AuditLog          bool `yaml:"auditlog"`
	StaticDHCPLeases  bool `yaml:"static_dhcp_leases"`
	LocalDNSRecords   bool `yaml:"local_dns_records"`
	LocalCNAMERecords bool `yaml:"local_cname_records"`
	FlushTables       bool `yaml:"flush_tables"`
}

// SMTP holds mail notification settings. Host and To are only populated
// when NOTIFY_VIA_SMTP is enabled.
type SMTP struct {
	Host     string
	Port     string
	TLS      bool
	User     Optional
	Password Optional
	From     Optional
	To       string
}

// Config is the immutable deployment configuration resolved at startup.
type Config struct {
	Primary     Host
	Secondaries []Host
	Sync        SyncOptions

	UpdateGravity   bool
	Verbose         bool
	RunOnce         bool
	IntervalMinutes int

	NotifyOnSuccess bool
	NotifyOnFailure bool
	NotifyViaSMTP   bool
	SMTP            SMTP

	HoneybadgerAPIKey Optional
	SentryDSN         Optional
}

// Load resolves the whole configuration from env in one pass.
// The first missing required variable is reported as a *FatalError.
func Load(env Environment) (Config, error) {
	store := NewStore(env)

	primary, err := store.PrimaryHost()
	if err != nil {
		return Config{}, err
	}
	secondaries, err := store.SecondaryHosts()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Primary:           primary,
		Secondaries:       secondaries,
		Sync:              store.SyncOptions(),
		UpdateGravity:     store.UpdateGravity(),
		Verbose:           store.Verbose(),
		RunOnce:           store.RunOnce(),
		IntervalMinutes:   store.IntervalMinutes(),
		NotifyOnSuccess:   store.NotifyOnSuccess(),
		NotifyOnFailure:   store.NotifyOnFailure(),
		NotifyViaSMTP:     store.NotifyViaSMTP(),
		HoneybadgerAPIKey: store.HoneybadgerAPIKey(),
		SentryDSN:         store.SentryDSN(),
		SMTP: SMTP{
			Port:     store.SMTPPort(),
			TLS:      store.SMTPTLS(),
			User:     store.SMTPUser(),
			Password: store.SMTPPassword(),
			From:     store.SMTPFrom(),
		},
	}

	if cfg.NotifyViaSMTP {
		if cfg.SMTP.Host, err = store.SMTPHost(); err != nil {
			return Config{}, err
		}
		if cfg.SMTP.To, err = store.SMTPTo(); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

// Interval returns IntervalMinutes as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// Hosts returns the primary host followed by the secondaries.
func (c Config) Hosts() []Host {
	hosts := make([]Host, 0, len(c.Secondaries)+1)
	hosts = append(hosts, c.Primary)
	return append(hosts, c.Secondaries...)
}

// AllHostURLs returns the full URL of every host, primary first.
func (c Config) AllHostURLs() []string {
	return hostURLs(c.Primary, c.Secondaries)
}
