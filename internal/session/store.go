package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// KeyToken is the config key the token is persisted under.
const KeyToken = "token"

type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// ViperStore keeps the token in the client's JSON config file next to the
// other client settings.
type ViperStore struct {
	v    *viper.Viper
	path string
}

// NewViperStore binds to v, reading path first if it exists.
func NewViperStore(v *viper.Viper, path string) (*ViperStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return &ViperStore{v: v, path: path}, nil
}

func (s *ViperStore) Load() (string, error) {
	return s.v.GetString(KeyToken), nil
}

func (s *ViperStore) Save(token string) error {
	s.v.Set(KeyToken, token)
	return s.v.WriteConfigAs(s.path)
}

func (s *ViperStore) Clear() error {
	s.v.Set(KeyToken, "")
	return s.v.WriteConfigAs(s.path)
}

// MemoryStore is a TokenStore that forgets everything on exit.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func (m *MemoryStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStore) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
