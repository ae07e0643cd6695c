package oneclick

import "strings"

// Credentials is the authorization triple issued to the application.
type Credentials struct {
	Token     string `json:"token,omitempty"`
	AccessKey string `json:"ak,omitempty"`
	SecretKey string `json:"sk,omitempty"`
}

// IsEmpty returns true if any of the fields is empty or blank.
func (c Credentials) IsEmpty() bool {
	return c.validate() != nil
}

// validate returns a ConfigurationError naming the first blank field.
func (c Credentials) validate() error {
	for _, f := range []struct {
		name, val string
	}{
		{"token", c.Token},
		{"access key", c.AccessKey},
		{"secret key", c.SecretKey},
	} {
		if strings.TrimSpace(f.val) == "" {
			return errConfig(f.name, "must not be empty")
		}
	}
	return nil
}

// Masked returns the form of credentials suitable for log messages.
func (c Credentials) Masked() string {
	return "token=" + mask(c.Token) + " ak=" + mask(c.AccessKey) + " sk=" + mask(c.SecretKey)
}

func mask(s string) string {
	const keep = 4
	if len(s) <= keep {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-keep) + s[len(s)-keep:]
}
