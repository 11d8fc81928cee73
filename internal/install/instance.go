package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/acarl005/stripansi"
	"github.com/fatih/color"

	"ldptw/internal/config"
)

// Downloader fetches url to dest unless dest already exists
type Downloader interface {
	Fetch(ctx context.Context, url, dest string) (bool, error)
}

// Stopper stops a running suite process
type Stopper interface {
	Stop() error
}

// Paths are the derived locations of one suite instance
type Paths struct {
	URL         string // Archive download URL
	Download    string // Cached archive
	InstanceDir string // Extracted and built suite
	Binary      string // Built shaded jar
	Checksum    string // Archive checksum marker
	VersionFile string // Installed version marker
}

// Instance is one installation of the LDP test suite
type Instance struct {
	config     *config.Config
	downloader Downloader
	builder    Builder
	out        io.Writer

	mu      sync.Mutex
	paths   *Paths
	scratch string
	stopper Stopper
}

// NewInstance creates a new Instance. A nil out discards status lines.
func NewInstance(cfg *config.Config, downloader Downloader, builder Builder, out io.Writer) *Instance {
	if out == nil {
		out = io.Discard
	}
	return &Instance{
		config:     cfg,
		downloader: downloader,
		builder:    builder,
		out:        out,
	}
}

// Version returns the suite version of this instance
func (i *Instance) Version() string {
	return i.config.Version
}

// Paths returns the derived paths, computing them on first use
func (i *Instance) Paths() Paths {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.paths == nil {
		p := derivePaths(i.config)
		i.paths = &p
	}
	return *i.paths
}

func derivePaths(cfg *config.Config) Paths {
	url := cfg.URL
	if url == "" {
		url = fmt.Sprintf("%s/%s.zip", strings.TrimSuffix(config.DefaultBaseURL, "/"), cfg.Version)
	}
	archiveName := path.Base(url)

	download := cfg.DownloadPath
	if download == "" {
		dir := cfg.DownloadDir
		if dir == "" {
			dir = os.TempDir()
		}
		download = filepath.Join(dir, archiveName)
	}

	instanceDir := cfg.InstanceDir
	if instanceDir == "" {
		instanceDir = filepath.Join(os.TempDir(), strings.TrimSuffix(archiveName, ".zip"))
	}

	return Paths{
		URL:         url,
		Download:    download,
		InstanceDir: instanceDir,
		Binary:      filepath.Join(instanceDir, "target", fmt.Sprintf("ldp-testsuite-%s-shaded.jar", cfg.Version)),
		Checksum:    download + ".md5",
		VersionFile: instanceDir + ".version",
	}
}

// Track registers the running suite process so Clean can stop it
func (i *Instance) Track(s Stopper) {
	i.mu.Lock()
	i.stopper = s
	i.mu.Unlock()
}

// Extracted reports whether the built suite jar is present
func (i *Instance) Extracted() bool {
	_, err := os.Stat(i.Paths().Binary)
	return err == nil
}

// ExtractAndConfigure makes sure the suite is downloaded, unpacked and built
func (i *Instance) ExtractAndConfigure(ctx context.Context) (string, error) {
	dir, err := i.Extract(ctx)
	if err != nil {
		return "", err
	}
	if err := i.Configure(ctx); err != nil {
		return "", err
	}
	return dir, nil
}

// Extract unpacks the suite into the install directory. It does nothing when
// the suite is already built there.
func (i *Instance) Extract(ctx context.Context) (string, error) {
	p := i.Paths()
	if i.Extracted() {
		return p.InstanceDir, nil
	}

	zipPath, err := i.download(ctx, p)
	if err != nil {
		return "", err
	}

	scratch, err := i.scratchDir()
	if err != nil {
		return "", &SetupError{Op: "unable to create extraction directory", Err: err}
	}
	defer i.removeScratch()

	color.New(color.FgCyan).Fprintf(i.out, "Extracting %s\n", zipPath)
	if err := unzip(zipPath, scratch); err != nil {
		return "", &SetupError{Op: fmt.Sprintf("unable to unzip %s into %s", zipPath, scratch), Err: err}
	}

	src := filepath.Join(scratch, "ldp-testsuite-"+i.config.Version)
	if err := replaceDir(src, p.InstanceDir); err != nil {
		return "", &SetupError{Op: fmt.Sprintf("unable to copy %s to %s", src, p.InstanceDir), Err: err}
	}

	if err := os.WriteFile(p.VersionFile, []byte(i.config.Version+"\n"), 0644); err != nil {
		return "", &SetupError{Op: "unable to write version marker", Err: err}
	}

	return p.InstanceDir, nil
}

// Configure builds the suite unless the jar already exists
func (i *Instance) Configure(ctx context.Context) error {
	p := i.Paths()
	if i.Extracted() {
		return nil
	}

	color.New(color.FgCyan).Fprintf(i.out, "Building test suite in %s\n", p.InstanceDir)
	output, err := i.builder.Build(ctx, p.InstanceDir)
	if err != nil {
		return &BuildError{Dir: p.InstanceDir, Output: stripansi.Strip(string(output)), Err: err}
	}
	if !i.Extracted() {
		return fmt.Errorf("%w: %s", ErrArtifactMissing, p.Binary)
	}

	color.New(color.FgGreen).Fprintf(i.out, "✓ Built %s\n", filepath.Base(p.Binary))
	return nil
}

// InstalledVersion returns the version recorded by the last extraction, or "" if none
func (i *Instance) InstalledVersion() string {
	data, err := os.ReadFile(i.Paths().VersionFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Clean stops the tracked suite process and removes everything the instance put on disk
func (i *Instance) Clean() error {
	i.mu.Lock()
	stopper := i.stopper
	i.stopper = nil
	i.mu.Unlock()

	var errs []error
	if stopper != nil {
		if err := stopper.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop suite process: %w", err))
		}
	}

	p := i.Paths()
	for _, target := range []string{p.InstanceDir, p.Download, p.Checksum, p.VersionFile} {
		if err := removeIfExists(target); err != nil {
			errs = append(errs, err)
		}
	}
	i.removeScratch()

	i.mu.Lock()
	i.paths = nil
	i.mu.Unlock()

	return errors.Join(errs...)
}

func (i *Instance) download(ctx context.Context, p Paths) (string, error) {
	if err := os.MkdirAll(filepath.Dir(p.Download), 0755); err != nil {
		return "", &SetupError{Op: "unable to create download directory", Err: err}
	}
	color.New(color.FgCyan).Fprintf(i.out, "Fetching %s\n", p.URL)
	if _, err := i.downloader.Fetch(ctx, p.URL, p.Download); err != nil {
		return "", &SetupError{Op: fmt.Sprintf("unable to download %s", p.URL), Err: err}
	}
	return p.Download, nil
}

func (i *Instance) scratchDir() (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.scratch != "" {
		return i.scratch, nil
	}
	dir, err := os.MkdirTemp("", "ldptw-extract-*")
	if err != nil {
		return "", err
	}
	i.scratch = dir
	return dir, nil
}

func (i *Instance) removeScratch() {
	i.mu.Lock()
	dir := i.scratch
	i.scratch = ""
	i.mu.Unlock()
	if dir != "" {
		_ = os.RemoveAll(dir)
	}
}

func removeIfExists(target string) error {
	if _, err := os.Lstat(target); err != nil {
		return nil
	}
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("remove %s: %w", target, err)
	}
	return nil
}
