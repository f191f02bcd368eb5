package config

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

const (
	defaultSMTPPort        = "587"
	defaultIntervalMinutes = 30
)

const (
	envPrimaryBaseURL  = "PRIMARY_HOST_BASE_URL"
	envPrimaryPassword = "PRIMARY_HOST_PASSWORD"
	envPrimaryPath     = "PRIMARY_HOST_PATH"

	envUpdateGravity   = "UPDATE_GRAVITY"
	envVerbose         = "VERBOSE"
	envNotifyOnSuccess = "NOTIFY_ON_SUCCESS"
	envNotifyOnFailure = "NOTIFY_ON_FAILURE"
	envNotifyViaSMTP   = "NOTIFY_VIA_SMTP"
	envSMTPHost        = "SMTP_HOST"
	envSMTPPort        = "SMTP_PORT"
	envSMTPTLS         = "SMTP_TLS"
	envSMTPUser        = "SMTP_USER"
	envSMTPPassword    = "SMTP_PASSWORD"
	envSMTPFrom        = "SMTP_FROM"
	envSMTPTo          = "SMTP_TO"
	envRunOnce         = "RUN_ONCE"
	envIntervalMinutes = "INTERVAL_MINUTES"
	envHoneybadgerKey  = "HONEYBADGER_API_KEY"
	envSentryDSN       = "SENTRY_DSN"
)

func secondaryVar(index int, suffix string) string {
	return fmt.Sprintf("SECONDARY_HOST_%d_%s", index, suffix)
}

// memo caches the first successful result of resolve. Errors are not cached.
type memo[T any] struct {
	mu    sync.Mutex
	done  bool
	value T
}

func (m *memo[T]) get(resolve func() (T, error)) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.done {
		return m.value, nil
	}
	value, err := resolve()
	if err != nil {
		var zero T
		return zero, err
	}
	m.value = value
	m.done = true
	return value, nil
}

func (m *memo[T]) must(resolve func() T) T {
	value, _ := m.get(func() (T, error) { return resolve(), nil })
	return value
}

// Store resolves settings lazily from an Environment. Every accessor reads
// the environment once and returns the cached value afterwards, even if the
// environment changes. A Store is safe for concurrent use.
type Store struct {
	env Environment

	primary   memo[Host]
	secondary memo[[]Host]
	syncOpts  memo[SyncOptions]

	updateGravity   memo[bool]
	verbose         memo[bool]
	notifyOnSuccess memo[bool]
	notifyOnFailure memo[bool]
	notifyViaSMTP   memo[bool]
	smtpTLS         memo[bool]
	runOnce         memo[bool]

	smtpHost memo[string]
	smtpPort memo[string]
	smtpTo   memo[string]

	smtpUser       memo[Optional]
	smtpPassword   memo[Optional]
	smtpFrom       memo[Optional]
	honeybadgerKey memo[Optional]
	sentryDSN      memo[Optional]

	interval memo[int]
}

// NewStore returns a Store reading from env. A nil env reads the process environment.
func NewStore(env Environment) *Store {
	if env == nil {
		env = OS()
	}
	return &Store{env: env}
}

// PrimaryHost returns the source-of-truth host.
func (s *Store) PrimaryHost() (Host, error) {
	return s.primary.get(func() (Host, error) {
		return s.host(envPrimaryBaseURL, envPrimaryPassword, envPrimaryPath)
	})
}

// SecondaryHosts returns the target hosts. SECONDARY_HOST_1 is required;
// enumeration stops at the first index whose base URL or password is undefined.
func (s *Store) SecondaryHosts() ([]Host, error) {
	hosts, err := s.secondary.get(s.resolveSecondaryHosts)
	if err != nil {
		return nil, err
	}
	out := make([]Host, len(hosts))
	copy(out, hosts)
	return out, nil
}

func (s *Store) resolveSecondaryHosts() ([]Host, error) {
	first, err := s.host(secondaryVar(1, "BASE_URL"), secondaryVar(1, "PASSWORD"), secondaryVar(1, "PATH"))
	if err != nil {
		return nil, err
	}

	hosts := []Host{first}
	for index := 2; ; index++ {
		baseURLVar, passwordVar := secondaryVar(index, "BASE_URL"), secondaryVar(index, "PASSWORD")
		if !s.defined(baseURLVar) || !s.defined(passwordVar) {
			break
		}
		host, err := s.host(baseURLVar, passwordVar, secondaryVar(index, "PATH"))
		if err != nil {
			return nil, err
		}
		hosts = append(hosts, host)
	}
	return hosts, nil
}

// AllHostURLs returns the full URLs of the primary host followed by every secondary host.
func (s *Store) AllHostURLs() ([]string, error) {
	primary, err := s.PrimaryHost()
	if err != nil {
		return nil, err
	}
	secondaries, err := s.SecondaryHosts()
	if err != nil {
		return nil, err
	}
	return hostURLs(primary, secondaries), nil
}

// SyncOptions returns the categories included in a sync pass.
func (s *Store) SyncOptions() SyncOptions {
	return s.syncOpts.must(func() SyncOptions {
		return SyncOptions{
			Whitelist:         s.enabledUnlessFalse("SYNC_WHITELIST"),
			RegexWhitelist:    s.enabledUnlessFalse("SYNC_REGEX_WHITELIST"),
			Blacklist:         s.enabledUnlessFalse("SYNC_BLACKLIST"),
			Regexlist:         s.enabledUnlessFalse("SYNC_REGEXLIST"),
			Adlist:            s.enabledUnlessFalse("SYNC_ADLIST"),
			Client:            s.enabledUnlessFalse("SYNC_CLIENT"),
			Group:             s.enabledUnlessFalse("SYNC_GROUP"),
			AuditLog:          s.enabledIfTrue("SYNC_AUDITLOG"),
			StaticDHCPLeases:  s.enabledIfTrue("SYNC_STATICDHCPLEASES"),
			LocalDNSRecords:   s.enabledUnlessFalse("SYNC_LOCALDNSRECORDS"),
			LocalCNAMERecords: s.enabledUnlessFalse("SYNC_LOCALCNAMERECORDS"),
			FlushTables:       s.enabledUnlessFalse("SYNC_FLUSHTABLES"),
		}
	})
}

// UpdateGravity reports whether gravity is rebuilt after a sync.
func (s *Store) UpdateGravity() bool {
	return s.updateGravity.must(func() bool { return s.enabledUnlessFalse(envUpdateGravity) })
}

// Verbose reports whether verbose logging is requested.
func (s *Store) Verbose() bool {
	return s.verbose.must(func() bool { return s.enabledIfTrue(envVerbose) })
}

func (s *Store) NotifyOnSuccess() bool {
	return s.notifyOnSuccess.must(func() bool { return s.enabledIfTrue(envNotifyOnSuccess) })
}

func (s *Store) NotifyOnFailure() bool {
	return s.notifyOnFailure.must(func() bool { return s.enabledUnlessFalse(envNotifyOnFailure) })
}

func (s *Store) NotifyViaSMTP() bool {
	return s.notifyViaSMTP.must(func() bool { return s.enabledIfTrue(envNotifyViaSMTP) })
}

// SMTPHost is required; a *FatalError is returned when it is undefined.
func (s *Store) SMTPHost() (string, error) {
	return s.smtpHost.get(func() (string, error) { return s.required(envSMTPHost) })
}

func (s *Store) SMTPPort() string {
	return s.smtpPort.must(func() string { return lookupOptional(s.env, envSMTPPort).OrElse(defaultSMTPPort) })
}

func (s *Store) SMTPTLS() bool {
	return s.smtpTLS.must(func() bool { return s.enabledIfTrue(envSMTPTLS) })
}

func (s *Store) SMTPUser() Optional {
	return s.smtpUser.must(func() Optional { return lookupOptional(s.env, envSMTPUser) })
}

func (s *Store) SMTPPassword() Optional {
	return s.smtpPassword.must(func() Optional { return lookupOptional(s.env, envSMTPPassword) })
}

func (s *Store) SMTPFrom() Optional {
	return s.smtpFrom.must(func() Optional { return lookupOptional(s.env, envSMTPFrom) })
}

// SMTPTo is required; a *FatalError is returned when it is undefined.
func (s *Store) SMTPTo() (string, error) {
	return s.smtpTo.get(func() (string, error) { return s.required(envSMTPTo) })
}

func (s *Store) RunOnce() bool {
	return s.runOnce.must(func() bool { return s.enabledIfTrue(envRunOnce) })
}

// IntervalMinutes returns the pause between sync passes. Anything other than
// a positive integer falls back to 30 without error.
func (s *Store) IntervalMinutes() int {
	return s.interval.must(func() int {
		raw, ok := s.env.Lookup(envIntervalMinutes)
		if !ok {
			return defaultIntervalMinutes
		}
		return parseInterval(raw)
	})
}

func (s *Store) HoneybadgerAPIKey() Optional {
	return s.honeybadgerKey.must(func() Optional { return lookupOptional(s.env, envHoneybadgerKey) })
}

func (s *Store) SentryDSN() Optional {
	return s.sentryDSN.must(func() Optional { return lookupOptional(s.env, envSentryDSN) })
}

func (s *Store) host(baseURLVar, passwordVar, pathVar string) (Host, error) {
	baseURL, err := s.required(baseURLVar)
	if err != nil {
		return Host{}, err
	}
	password, err := s.required(passwordVar)
	if err != nil {
		return Host{}, err
	}
	return NewHost(baseURL, password, lookupOptional(s.env, pathVar).OrElse(DefaultHostPath)), nil
}

func (s *Store) required(key string) (string, error) {
	value, ok := s.env.Lookup(key)
	if !ok {
		return "", missingVariable(key)
	}
	return value, nil
}

func (s *Store) defined(key string) bool {
	_, ok := s.env.Lookup(key)
	return ok
}

func (s *Store) enabledUnlessFalse(key string) bool {
	value, _ := s.env.Lookup(key)
	return value != "false"
}

func (s *Store) enabledIfTrue(key string) bool {
	value, _ := s.env.Lookup(key)
	return value == "true"
}

func parseInterval(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return defaultIntervalMinutes
	}
	return value
}

func hostURLs(primary Host, secondaries []Host) []string {
	urls := make([]string, 0, len(secondaries)+1)
	urls = append(urls, primary.FullURL())
	for _, host := range secondaries {
		urls = append(urls, host.FullURL())
	}
	return urls
}
