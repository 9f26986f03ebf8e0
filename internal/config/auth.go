package config

import "git.home.luguber.info/inful/sitebuilder/internal/foundation/normalization"

// AuthType enumerates supported git authentication methods.
type AuthType string

const (
	AuthTypeNone  AuthType = "none"
	AuthTypeSSH   AuthType = "ssh"
	AuthTypeToken AuthType = "token"
	AuthTypeBasic AuthType = "basic"
)

var authTypeNormalizer = normalization.New("auth type", map[string]AuthType{
	"none":  AuthTypeNone,
	"ssh":   AuthTypeSSH,
	"token": AuthTypeToken,
	"basic": AuthTypeBasic,
}, AuthTypeNone)

// AuthConfig holds credentials for cloning a remote content source.
type AuthConfig struct {
	Type     AuthType `yaml:"type" toml:"type"`
	Username string   `yaml:"username,omitempty" toml:"username,omitempty"`
	Password string   `yaml:"password,omitempty" toml:"password,omitempty"`
	Token    string   `yaml:"token,omitempty" toml:"token,omitempty"`
	KeyPath  string   `yaml:"key_path,omitempty" toml:"key_path,omitempty"`
}

// IsZero reports whether no auth method is specified.
func (a *AuthConfig) IsZero() bool { return a == nil || a.Type == "" || a.Type == AuthTypeNone }
