package oneclick

import (
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Register sets the authorization triple.  All three must be non-blank,
// otherwise the ConfigurationError is returned and the configuration is left
// unchanged.  If the credentials file is configured, the credentials are
// saved to it.
func (m *Manager) Register(token, accessKey, secretKey string) error {
	c := Credentials{Token: token, AccessKey: accessKey, SecretKey: secretKey}
	if err := c.validate(); err != nil {
		return err
	}

	m.mu.Lock()
	m.cfg.Credentials = c
	stored := storedCreds{Credentials: c, PhoneOperator: m.cfg.PhoneOperator, IP: m.cfg.IP}
	m.mu.Unlock()
	m.lg.Debug("registered", zap.String("creds", c.Masked()))

	if m.credsStrg.IsAvailable() {
		if err := m.credsStrg.Save(stored); err != nil {
			// not a fatal error
			Log.Printf("failed to save credentials: %s, but nevermind let's continue", err)
		}
	}
	return nil
}

// SetLanguage sets the language of the login screen, code is the BCP-47 tag,
// i.e. "en" or "th".  Empty code resets the language to the platform locale.
// It takes effect on the next login.
func (m *Manager) SetLanguage(code string) error {
	code = strings.TrimSpace(code)
	if code != "" {
		if _, err := language.Parse(code); err != nil {
			return &ConfigurationError{Field: "language", Reason: "invalid BCP-47 tag " + code, Err: err}
		}
	}
	m.mu.Lock()
	m.cfg.Language = code
	m.mu.Unlock()
	return nil
}

// platformLocale returns the valid BCP-47 locale of the platform, or an
// empty string.  It must be called without holding m.mu, the platform may
// call back into the Manager.
func (m *Manager) platformLocale() string {
	if m.platform == nil {
		return ""
	}
	loc := m.platform.Locale()
	if loc == "" {
		return ""
	}
	if _, err := language.Parse(loc); err != nil {
		return ""
	}
	return loc
}

// languageLocked returns the configured language, or the platform locale
// loc, or the default language.
func (m *Manager) languageLocked(loc string) string {
	if m.cfg.Language != "" {
		return m.cfg.Language
	}
	if loc != "" {
		return loc
	}
	return defLanguage
}

// SetLogo sets the logo shown on the login screen.
func (m *Manager) SetLogo(logo Asset) {
	m.mu.Lock()
	m.cfg.Logo = logo
	m.mu.Unlock()
}

// SetPhoneOperator sets the phone operator.  If it's not set, it is taken
// from the device on login.
func (m *Manager) SetPhoneOperator(op string) {
	m.mu.Lock()
	m.cfg.PhoneOperator = op
	m.mu.Unlock()
}

// SetIP sets the IP address reported to the backend.  If it's not set, it is
// taken from the device on login.
func (m *Manager) SetIP(ip string) {
	m.mu.Lock()
	m.cfg.IP = ip
	m.mu.Unlock()
}

// SetMoreLoginOptions sets the icons of alternate login methods (i.e. WeChat
// or Apple), shown in the given order.  onClick is called with the zero-based
// index of the tapped icon, each time the user taps it, until the login
// screen is dismissed.
func (m *Manager) SetMoreLoginOptions(icons []Asset, onClick func(index int)) {
	m.mu.Lock()
	m.cfg.Icons = slices.Clone(icons)
	m.onIconClick = onClick
	m.mu.Unlock()
}

// SetPresentationHost sets the screen that hosts the login UI.  Manager does
// not own the host, see WeakHost.
func (m *Manager) SetPresentationHost(h HostHandle) {
	m.mu.Lock()
	m.host = h
	m.mu.Unlock()
}
