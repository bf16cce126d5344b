package keyring

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/zalando/go-keyring"
	"golang.org/x/crypto/argon2"

	"github.com/dqai/oneapp/pkg/configprovider"
)

const (
	// Backend names accepted by NewManager
	BackendAuto   = "auto"
	BackendSystem = "system"
	BackendFile   = "file"

	// EnvKeyringPassword holds the master password of the file keyring
	EnvKeyringPassword = "DQAI_KEYRING_PASSWORD"
	// EnvKeyringPath overrides the file keyring location
	EnvKeyringPath = "DQAI_KEYRING_PATH"
	// EnvKeyringBackend selects the backend
	EnvKeyringBackend = "DQAI_KEYRING_BACKEND"

	systemProbeTimeout = 5 * time.Second
)

// ErrNotFound is returned when no secret is stored for a service/user pair
var ErrNotFound = errors.New("keyring entry not found")

// Store is a secret store keyed by service and user
type Store interface {
	Set(service, user, secret string) error
	Get(service, user string) (string, error)
	Delete(service, user string) error
}

// Manager dispatches to the OS keyring or an encrypted file keyring
type Manager struct {
	backend Store
	useFile bool
}

// NewManager creates a keyring manager. "system" always uses the OS
// keyring, "file" always uses the encrypted file, and "auto" probes the OS
// keyring and falls back to the file when it is unavailable.
func NewManager(path, masterPassword, backend string) *Manager {
	switch backend {
	case BackendSystem:
		return &Manager{backend: systemKeyring{}}
	case BackendFile:
		return &Manager{backend: NewFileKeyring(path, masterPassword), useFile: true}
	}

	if systemKeyringAvailable() {
		return &Manager{backend: systemKeyring{}}
	}
	return &Manager{backend: NewFileKeyring(path, masterPassword), useFile: true}
}

// NewManagerFromEnv creates a manager configured from DQAI_KEYRING_* variables
func NewManagerFromEnv() *Manager {
	backend := os.Getenv(EnvKeyringBackend)
	if backend == "" {
		backend = BackendAuto
	}
	return NewManager(DefaultPath(), MasterPasswordFromEnv(), backend)
}

// NewManagerFromConfig creates a manager from configured keyring settings.
// Empty settings fall back to the DQAI_KEYRING_* variables.
func NewManagerFromConfig(p configprovider.KeyringConfigProvider) *Manager {
	backend := p.GetKeyringBackend()
	if backend == "" {
		backend = os.Getenv(EnvKeyringBackend)
	}
	if backend == "" {
		backend = BackendAuto
	}
	path := p.GetKeyringPath()
	if path == "" {
		path = DefaultPath()
	}
	master := p.GetKeyringMasterKey()
	if master == "" {
		master = MasterPasswordFromEnv()
	}
	return NewManager(path, master, backend)
}

// UsesFile reports whether the manager stores secrets in the file keyring
func (m *Manager) UsesFile() bool {
	return m.useFile
}

// Set stores a secret
func (m *Manager) Set(service, user, secret string) error {
	return m.backend.Set(service, user, secret)
}

// Get retrieves a secret
func (m *Manager) Get(service, user string) (string, error) {
	return m.backend.Get(service, user)
}

// Delete removes a secret
func (m *Manager) Delete(service, user string) error {
	return m.backend.Delete(service, user)
}

// systemKeyringAvailable writes and removes a throwaway entry. Some headless
// systems block forever on D-Bus, so the probe runs under a timeout.
func systemKeyringAvailable() bool {
	done := make(chan error, 1)
	go func() {
		err := keyring.Set("dqai-probe", "probe", "probe")
		if err == nil {
			_ = keyring.Delete("dqai-probe", "probe")
		}
		done <- err
	}()

	select {
	case err := <-done:
		return err == nil
	case <-time.After(systemProbeTimeout):
		return false
	}
}

type systemKeyring struct{}

func (systemKeyring) Set(service, user, secret string) error {
	return keyring.Set(service, user, secret)
}

func (systemKeyring) Get(service, user string) (string, error) {
	secret, err := keyring.Get(service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	return secret, err
}

func (systemKeyring) Delete(service, user string) error {
	err := keyring.Delete(service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// FileKeyring stores AES-GCM encrypted secrets in a JSON file. The key is
// derived from the master password with Argon2id and a per-file salt.
type FileKeyring struct {
	mu             sync.Mutex
	path           string
	masterPassword string
}

type fileContents struct {
	Salt    string            `json:"salt"`
	Entries map[string]string `json:"entries"`
}

// NewFileKeyring creates a file keyring at path
func NewFileKeyring(path, masterPassword string) *FileKeyring {
	return &FileKeyring{path: path, masterPassword: masterPassword}
}

func entryKey(service, user string) string {
	return service + ":" + user
}

func (fk *FileKeyring) load() (*fileContents, error) {
	data, err := os.ReadFile(fk.path)
	if errors.Is(err, os.ErrNotExist) {
		salt := make([]byte, 16)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return nil, fmt.Errorf("failed to generate keyring salt: %w", err)
		}
		return &fileContents{
			Salt:    base64.StdEncoding.EncodeToString(salt),
			Entries: make(map[string]string),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keyring file: %w", err)
	}

	var contents fileContents
	if err := json.Unmarshal(data, &contents); err != nil {
		return nil, fmt.Errorf("failed to parse keyring file: %w", err)
	}
	if contents.Entries == nil {
		contents.Entries = make(map[string]string)
	}
	return &contents, nil
}

func (fk *FileKeyring) save(contents *fileContents) error {
	if err := os.MkdirAll(filepath.Dir(fk.path), 0o700); err != nil {
		return fmt.Errorf("failed to create keyring directory: %w", err)
	}
	data, err := json.Marshal(contents)
	if err != nil {
		return err
	}
	return os.WriteFile(fk.path, data, 0o600)
}

func (fk *FileKeyring) aead(salt string) (cipher.AEAD, error) {
	rawSalt, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return nil, fmt.Errorf("invalid keyring salt: %w", err)
	}
	key := argon2.IDKey([]byte(fk.masterPassword), rawSalt, 1, 64*1024, 4, 32)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Set stores an entry in the file keyring
func (fk *FileKeyring) Set(service, user, secret string) error {
	fk.mu.Lock()
	defer fk.mu.Unlock()

	contents, err := fk.load()
	if err != nil {
		return err
	}
	gcm, err := fk.aead(contents.Salt)
	if err != nil {
		return err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}
	sealed := gcm.Seal(nonce, nonce, []byte(secret), []byte(entryKey(service, user)))
	contents.Entries[entryKey(service, user)] = base64.StdEncoding.EncodeToString(sealed)

	return fk.save(contents)
}

// Get retrieves an entry from the file keyring
func (fk *FileKeyring) Get(service, user string) (string, error) {
	fk.mu.Lock()
	defer fk.mu.Unlock()

	contents, err := fk.load()
	if err != nil {
		return "", err
	}
	encoded, ok := contents.Entries[entryKey(service, user)]
	if !ok {
		return "", ErrNotFound
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("corrupt keyring entry: %w", err)
	}
	gcm, err := fk.aead(contents.Salt)
	if err != nil {
		return "", err
	}
	if len(data) < gcm.NonceSize() {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, []byte(entryKey(service, user)))
	if err != nil {
		return "", fmt.Errorf("failed to decrypt keyring entry: %w", err)
	}
	return string(plaintext), nil
}

// Delete removes an entry from the file keyring
func (fk *FileKeyring) Delete(service, user string) error {
	fk.mu.Lock()
	defer fk.mu.Unlock()

	if _, err := os.Stat(fk.path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	contents, err := fk.load()
	if err != nil {
		return err
	}
	delete(contents.Entries, entryKey(service, user))
	return fk.save(contents)
}

// MasterPasswordFromEnv gets the file keyring master password
func MasterPasswordFromEnv() string {
	if password := os.Getenv(EnvKeyringPassword); password != "" {
		return password
	}
	// Development default; set DQAI_KEYRING_PASSWORD in production
	return "default-master-password-change-me"
}

// DefaultPath returns the file keyring location
func DefaultPath() string {
	if path := os.Getenv(EnvKeyringPath); path != "" {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "dqai-keyring.json")
	}
	return filepath.Join(homeDir, ".local", "share", "dqai", "keyring.json")
}
