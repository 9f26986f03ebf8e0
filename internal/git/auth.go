package git

import (
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// authMethod builds the go-git auth method for a source. Nil or "none" auth
// returns nil.
func authMethod(auth *config.AuthConfig) (transport.AuthMethod, error) {
	if auth.IsZero() {
		return nil, nil
	}
	switch auth.Type {
	case config.AuthTypeSSH:
		keyPath := auth.KeyPath
		if keyPath == "" {
			home, _ := os.UserHomeDir()
			keyPath = filepath.Join(home, ".ssh", "id_rsa")
		}
		keys, err := ssh.NewPublicKeysFromFile("git", keyPath, auth.Password)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryGit, "failed to load SSH key").
				WithContext("key_path", keyPath).Build()
		}
		return keys, nil
	case config.AuthTypeToken:
		if auth.Token == "" {
			return nil, errors.GitError("token authentication requires a token").Build()
		}
		return &http.BasicAuth{Username: "token", Password: auth.Token}, nil
	case config.AuthTypeBasic:
		if auth.Username == "" || auth.Password == "" {
			return nil, errors.GitError("basic authentication requires username and password").Build()
		}
		return &http.BasicAuth{Username: auth.Username, Password: auth.Password}, nil
	default:
		return nil, errors.GitError("unsupported authentication type").
			WithContext("type", string(auth.Type)).Build()
	}
}
