// Package oneclick is the client side of the carrier one-click login.  It
// keeps the application credentials and presentation options, probes whether
// the device can use one-click login and runs the login flow, one at a time,
// delivering exactly one Result per flow.
//
// The carrier handshake and the login screen are provided by the caller as a
// Handshaker and an authflow.Presenter.
package oneclick

import (
	"slices"
	"sync"
	"time"

	"github.com/bluele/gcache"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/datashield/oneclick/authflow"
)

const (
	defCacheEvict = 10 * time.Minute
	defCacheSz    = 20
	defLanguage   = "en"
)

// Asset is an opaque image reference, owned by the caller.
type Asset = authflow.Asset

// Config is the snapshot of the session configuration.
type Config struct {
	Credentials
	PhoneOperator string
	IP            string
	Language      string
	Logo          Asset
	Icons         []Asset
}

// Manager holds the session configuration and runs the login flow.  Each
// Manager is independent, the zero value is not usable, use New.
type Manager struct {
	mu          sync.Mutex
	cfg         Config
	host        HostHandle
	onIconClick func(index int)
	state       State

	platform   Platform
	presenter  authflow.Presenter
	backend    Handshaker
	assets     AssetLoader
	dispatcher Dispatcher

	cache     gcache.Cache // resolved assets
	credsStrg credsStorage
	lg        *zap.Logger
	metrics   *metrics
	reg       prometheus.Registerer
}

type Option func(m *Manager)

// WithPlatform sets the device layer used by the capability probe and to
// infer the phone operator and IP.
func WithPlatform(p Platform) Option {
	return func(m *Manager) {
		m.platform = p
	}
}

// WithPresenter sets the presentation layer.
func WithPresenter(p authflow.Presenter) Option {
	return func(m *Manager) {
		m.presenter = p
	}
}

// WithHandshaker sets the backend handshake service.
func WithHandshaker(h Handshaker) Option {
	return func(m *Manager) {
		m.backend = h
	}
}

// WithAssetLoader sets the loader used to resolve assets by name.
func WithAssetLoader(l AssetLoader) Option {
	return func(m *Manager) {
		m.assets = l
	}
}

// WithDispatcher sets the execution context on which results and icon clicks
// are delivered.  Default is InlineDispatcher.
func WithDispatcher(d Dispatcher) Option {
	return func(m *Manager) {
		if d == nil {
			return
		}
		m.dispatcher = d
	}
}

// WithCredentialsFile enables persisting of the registered credentials in
// the encrypted file.  If the file exists, credentials are loaded from it on
// New.
func WithCredentialsFile(path string) Option {
	return func(m *Manager) {
		m.credsStrg = credsStorage{filename: path}
	}
}

// WithMetrics registers the login metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(m *Manager) {
		m.reg = reg
	}
}

// WithLogger sets the structured logger for the login flow.
func WithLogger(lg *zap.Logger) Option {
	return func(m *Manager) {
		if lg == nil {
			return
		}
		m.lg = lg
	}
}

func WithDebug(enable bool) Option {
	return func(m *Manager) {
		if !enable {
			m.lg = zap.NewNop()
			return
		}
		m.lg = newDebugLogger()
	}
}

// New returns a new Manager.
func New(opts ...Option) (*Manager, error) {
	var m = Manager{
		state:      Idle,
		dispatcher: InlineDispatcher,
		cache:      gcache.New(defCacheSz).LFU().Expiration(defCacheEvict).Build(),
		lg:         zap.NewNop(),
		metrics:    newMetrics(),
	}
	for _, opt := range opts {
		opt(&m)
	}

	if m.reg != nil {
		if err := m.metrics.register(m.reg); err != nil {
			return nil, err
		}
	}

	if m.credsStrg.IsAvailable() {
		m.loadCredentials()
	}

	return &m, nil
}

func (m *Manager) loadCredentials() {
	stored, err := m.credsStrg.Load()
	if err != nil {
		Log.Debugf("no stored credentials: %s", err)
		return
	}
	if stored.IsEmpty() {
		Log.Debugf("stored credentials are incomplete, ignoring")
		return
	}
	m.cfg.Credentials = stored.Credentials
	m.cfg.PhoneOperator = stored.PhoneOperator
	m.cfg.IP = stored.IP
	m.lg.Debug("credentials loaded", zap.String("creds", stored.Masked()))
}

// Config returns the copy of the current configuration.  Language is
// resolved to the platform locale if it was not set.
func (m *Manager) Config() Config {
	loc := m.platformLocale()
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg := m.cfg
	cfg.Icons = slices.Clone(m.cfg.Icons)
	cfg.Language = m.languageLocked(loc)
	return cfg
}

// State returns the state of the login flow.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}
