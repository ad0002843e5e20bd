package checker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"fut/pkg/logging"
)

const (
	DefaultReleaseURL  = "https://api.github.com/repos/hapifhir/org.hl7.fhir.core/releases/latest"
	DefaultDownloadURL = "https://github.com/hapifhir/org.hl7.fhir.core/releases/latest/download/validator_cli.jar"

	defaultAttempts   = 3
	defaultRetryDelay = 3 * time.Second
)

// DownloadObserver is notified around jar downloads, e.g. to drive a spinner.
type DownloadObserver interface {
	DownloadStarted(url string)
	DownloadFinished(err error)
}

// Options configure a Manager.
type Options struct {
	JarPath        string
	ReleaseURL     string
	DownloadURL    string
	AutoUpdate     bool
	RequestTimeout time.Duration
	Attempts       int
	RetryDelay     time.Duration
	Observer       DownloadObserver
}

// Handle identifies the validator a run uses. It does not change once issued.
type Handle struct {
	path    string
	version string
}

// NewHandle builds a Handle for an already verified jar.
func NewHandle(path, version string) Handle {
	return Handle{path: path, version: version}
}

func (h Handle) Path() string    { return h.path }
func (h Handle) Version() string { return h.version }

// FatalError means no usable validator is available and the run must stop.
type FatalError struct {
	Path   string
	Reason string
	Err    error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("validator %s: %s: %v", e.Path, e.Reason, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// Manager installs and updates the validator jar.
type Manager struct {
	opts   Options
	client *retryablehttp.Client
}

// NewManager applies defaults to opts and builds the HTTP client.
func NewManager(opts Options) *Manager {
	if opts.ReleaseURL == "" {
		opts.ReleaseURL = DefaultReleaseURL
	}
	if opts.DownloadURL == "" {
		opts.DownloadURL = DefaultDownloadURL
	}
	if opts.Attempts <= 0 {
		opts.Attempts = defaultAttempts
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	return &Manager{
		opts:   opts,
		client: newHTTPClient(opts.Attempts, opts.RetryDelay, opts.RequestTimeout),
	}
}

// EnsureCurrent makes sure a readable validator exists at the configured path,
// updating it when a newer release is published. A nil error means the
// returned Handle is usable; a *FatalError means the run cannot start.
// Failing to reach the release endpoint or to download an update only logs
// a warning and keeps the installed copy.
func (m *Manager) EnsureCurrent(ctx context.Context) (Handle, error) {
	path := m.opts.JarPath
	m.recoverStaged()

	if !fileExists(path) {
		logging.Info("Checker", "Validator not found at %s, downloading it", path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return Handle{}, &FatalError{Path: path, Reason: "cannot create install directory", Err: err}
		}
		if err := m.download(ctx, path); err != nil {
			return Handle{}, &FatalError{Path: path, Reason: "installation failed", Err: err}
		}
		version, err := ReadVersion(path)
		if err != nil {
			return Handle{}, &FatalError{Path: path, Reason: "downloaded validator is unreadable", Err: err}
		}
		logging.Info("Checker", "Installed validator %s", version)
		return NewHandle(path, version), nil
	}

	installed, err := ReadVersion(path)
	if err != nil {
		return Handle{}, &FatalError{Path: path, Reason: "installed validator is unreadable", Err: err}
	}
	current := NewHandle(path, installed)

	if !m.opts.AutoUpdate {
		logging.Debug("Checker", "Auto update disabled, using validator %s", installed)
		return current, nil
	}

	latest, err := m.LatestVersion(ctx)
	if err != nil {
		logging.Warn("Checker", "Could not determine the latest validator version, keeping %s: %v", installed, err)
		return current, nil
	}
	if CompareVersions(installed, latest) >= 0 {
		logging.Debug("Checker", "Validator %s is current (latest %s)", installed, latest)
		return current, nil
	}

	logging.Info("Checker", "Updating validator from %s to %s", installed, latest)
	version, err := m.replace(ctx)
	if err != nil {
		logging.Warn("Checker", "Validator update failed, keeping %s: %v", installed, err)
		return current, nil
	}
	logging.Info("Checker", "Validator updated to %s", version)
	return NewHandle(path, version), nil
}

// Update installs the validator or replaces it with the published release,
// ignoring AutoUpdate. Unless force is set a current install is left alone.
// An unreadable install is always replaced.
func (m *Manager) Update(ctx context.Context, force bool) (Handle, error) {
	path := m.opts.JarPath
	m.recoverStaged()

	if !fileExists(path) {
		return m.EnsureCurrent(ctx)
	}

	installed, err := ReadVersion(path)
	if err == nil && !force {
		latest, err := m.LatestVersion(ctx)
		if err != nil {
			return Handle{}, fmt.Errorf("could not determine the latest validator version: %w", err)
		}
		if CompareVersions(installed, latest) >= 0 {
			logging.Info("Checker", "Validator %s is already the latest", installed)
			return NewHandle(path, installed), nil
		}
	}

	version, err := m.replace(ctx)
	if err != nil {
		return Handle{}, fmt.Errorf("validator update failed: %w", err)
	}
	logging.Info("Checker", "Validator updated to %s", version)
	return NewHandle(path, version), nil
}

// Status describes the installed and published validator versions.
type Status struct {
	Path             string `json:"path"`
	Installed        bool   `json:"installed"`
	InstalledVersion string `json:"installedVersion,omitempty"`
	LatestVersion    string `json:"latestVersion,omitempty"`
	UpdateAvailable  bool   `json:"updateAvailable"`
	Error            string `json:"error,omitempty"`
}

// Status inspects the installation without changing it.
func (m *Manager) Status(ctx context.Context) Status {
	st := Status{Path: m.opts.JarPath, Installed: fileExists(m.opts.JarPath)}
	if st.Installed {
		v, err := ReadVersion(m.opts.JarPath)
		if err != nil {
			st.Error = err.Error()
		}
		st.InstalledVersion = v
	}

	latest, err := m.LatestVersion(ctx)
	if err != nil {
		if st.Error == "" {
			st.Error = err.Error()
		}
		return st
	}
	st.LatestVersion = latest
	st.UpdateAvailable = !st.Installed || CompareVersions(st.InstalledVersion, latest) < 0
	return st
}

func (m *Manager) stagingPath() string {
	dir, name := filepath.Split(m.opts.JarPath)
	return filepath.Join(dir, "."+name+".download")
}

// replace downloads into the staging sibling and renames it over the old jar.
// The old jar stays untouched until the new one is complete and readable.
func (m *Manager) replace(ctx context.Context) (string, error) {
	staged := m.stagingPath()
	if err := m.download(ctx, staged); err != nil {
		return "", err
	}

	version, err := ReadVersion(staged)
	if err != nil {
		_ = os.Remove(staged)
		return "", fmt.Errorf("downloaded validator is unreadable: %w", err)
	}

	if err := os.Rename(staged, m.opts.JarPath); err != nil {
		// Windows refuses to rename over an existing file.
		if rmErr := os.Remove(m.opts.JarPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			_ = os.Remove(staged)
			return "", fmt.Errorf("failed to remove old validator: %w", rmErr)
		}
		if err := os.Rename(staged, m.opts.JarPath); err != nil {
			return "", fmt.Errorf("failed to move new validator into place: %w", err)
		}
	}
	return version, nil
}

// recoverStaged finishes a swap interrupted after the old jar was removed,
// and discards staging files left next to an intact jar.
func (m *Manager) recoverStaged() {
	staged := m.stagingPath()
	if !fileExists(staged) {
		return
	}
	if fileExists(m.opts.JarPath) {
		logging.Debug("Checker", "Removing stale staging file %s", staged)
		_ = os.Remove(staged)
		return
	}
	if _, err := ReadVersion(staged); err != nil {
		_ = os.Remove(staged)
		return
	}
	if err := os.Rename(staged, m.opts.JarPath); err == nil {
		logging.Info("Checker", "Recovered validator from interrupted update")
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
