package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestName is the session state file kept in the work directory.
const ManifestName = "session.yml"

// ErrNoSession is returned when resuming without a manifest.
var ErrNoSession = errors.New("no scan session to resume")

// Page is one scanned page and the files derived from it.
type Page struct {
	Index     int       `yaml:"index"`
	Image     string    `yaml:"image"`
	HOCR      string    `yaml:"hocr,omitempty"`
	Bitonal   string    `yaml:"bitonal,omitempty"`
	ScannedAt time.Time `yaml:"scanned_at"`
}

// Manifest records a scan session so it can be resumed.
type Manifest struct {
	Format    string    `yaml:"format"`
	Name      string    `yaml:"name"`
	StartedAt time.Time `yaml:"started_at"`
	Next      int       `yaml:"next"`
	Pages     []Page    `yaml:"pages"`
}

// Put records p, replacing any page with the same index. Pages stay ordered by index.
func (m *Manifest) Put(p Page) {
	for i := range m.Pages {
		if m.Pages[i].Index == p.Index {
			m.Pages[i] = p
			return
		}
	}
	m.Pages = append(m.Pages, p)
	sort.Slice(m.Pages, func(i, j int) bool { return m.Pages[i].Index < m.Pages[j].Index })
}

// LoadManifest reads the manifest in dir.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w in %s", ErrNoSession, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	sort.Slice(m.Pages, func(i, j int) bool { return m.Pages[i].Index < m.Pages[j].Index })
	if m.Next < 1 {
		m.Next = 1
	}
	return &m, nil
}

// Save writes the manifest into dir.
func (m *Manifest) Save(dir string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	path := filepath.Join(dir, ManifestName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return os.Rename(tmp, path)
}
