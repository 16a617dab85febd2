package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Tokens is the persisted session.
type Tokens struct {
	AccessToken  string    `yaml:"access_token"`
	RefreshToken string    `yaml:"refresh_token"`
	ExpiresAt    time.Time `yaml:"expires_at"`
	UserID       string    `yaml:"user_id"`
}

// TokenStore persists the session between calls. Load returns nil and no
// error when nobody is signed in.
type TokenStore interface {
	Load() (*Tokens, error)
	Save(tokens *Tokens) error
	Clear() error
}

type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens *Tokens
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Load() (*Tokens, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokens == nil {
		return nil, nil
	}
	t := *s.tokens
	return &t, nil
}

func (s *MemoryTokenStore) Save(tokens *Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := *tokens
	s.tokens = &t
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = nil
	return nil
}

// Config is the CLI configuration file.
type Config struct {
	BaseURL string  `yaml:"base_url"`
	Session *Tokens `yaml:"session,omitempty"`
}

// DefaultConfigPath is <user config dir>/cuidado/config.yaml.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config dir: %w", err)
	}
	return filepath.Join(dir, "cuidado", "config.yaml"), nil
}

// LoadConfig reads the file at path. A missing file yields an empty Config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveConfig writes cfg to path, readable by the owner only.
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// FileTokenStore keeps the session in the session section of a Config file,
// leaving the other settings untouched.
type FileTokenStore struct {
	path string
	mu   sync.Mutex
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Load() (*Tokens, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, err := LoadConfig(s.path)
	if err != nil {
		return nil, err
	}
	return cfg.Session, nil
}

func (s *FileTokenStore) Save(tokens *Tokens) error {
	return s.update(tokens)
}

func (s *FileTokenStore) Clear() error {
	return s.update(nil)
}

func (s *FileTokenStore) update(tokens *Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, err := LoadConfig(s.path)
	if err != nil {
		return err
	}
	cfg.Session = tokens
	return SaveConfig(s.path, cfg)
}
