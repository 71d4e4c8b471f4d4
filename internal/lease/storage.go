package lease

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/athena-dhcpd/athena-dhclient/internal/metrics"
)

// Storage persists at most one lease per interface.
//
// Load returns nil, never an error, when no usable lease exists: a missing or
// corrupt record just means the client starts a fresh negotiation. Loaded
// leases are not checked for freshness — callers must test Expired()
// themselves before trusting one.
type Storage interface {
	Dump(l *Lease) error
	Load(iface string) *Lease
}

// DiscardStorage prints dumped leases for human inspection and never loads
// anything back.
type DiscardStorage struct {
	Out io.Writer
}

// Dump writes the lease as indented JSON to the output stream.
func (s *DiscardStorage) Dump(l *Lease) error {
	out := s.Out
	if out == nil {
		out = os.Stdout
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling lease for %s: %w", l.Interface, err)
	}
	data = append(data, '\n')
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("writing lease for %s: %w", l.Interface, err)
	}
	metrics.LeaseDumps.WithLabelValues("discard").Inc()
	return nil
}

// Load always returns nil.
func (s *DiscardStorage) Load(string) *Lease {
	return nil
}

// FileStorage keeps one JSON lease file per interface in a fixed directory.
type FileStorage struct {
	dir    string
	logger *slog.Logger
}

// NewFileStorage creates a file-backed storage rooted at dir. An empty dir
// means the working directory.
func NewFileStorage(dir string, logger *slog.Logger) *FileStorage {
	if dir == "" {
		dir = "."
	}
	return &FileStorage{dir: dir, logger: logger}
}

// Path returns the lease file for an interface, named after it.
func (s *FileStorage) Path(iface string) string {
	return filepath.Join(s.dir, iface+".lease.json")
}

// Dump writes the lease to its per-interface file.
func (s *FileStorage) Dump(l *Lease) error {
	path := s.Path(l.Interface)
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling lease for %s: %w", l.Interface, err)
	}
	s.logger.Info("writing lease",
		"interface", l.Interface,
		"path", path)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing lease file %s: %w", path, err)
	}
	metrics.LeaseDumps.WithLabelValues("file").Inc()
	return nil
}

// Load reads the lease file for an interface. A missing file is a normal
// miss; an unreadable or malformed one is logged and treated the same.
func (s *FileStorage) Load(iface string) *Lease {
	path := s.Path(iface)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("no existing lease",
				"interface", iface,
				"path", path)
			metrics.LeaseLoads.WithLabelValues("miss").Inc()
			return nil
		}
		s.logger.Warn("failed to read lease file",
			"path", path,
			"error", err)
		metrics.LeaseLoads.WithLabelValues("corrupt").Inc()
		return nil
	}
	l := decodeStored(data, iface, path, s.logger)
	if l == nil {
		return nil
	}
	s.logger.Info("loaded lease",
		"interface", iface,
		"path", path)
	metrics.LeaseLoads.WithLabelValues("hit").Inc()
	return l
}

// decodeStored unmarshals a persisted lease record, soft-failing to nil on
// anything that does not round-trip into a usable lease.
func decodeStored(data []byte, iface, source string, logger *slog.Logger) *Lease {
	l := &Lease{}
	if err := json.Unmarshal(data, l); err != nil {
		logger.Warn("discarding unreadable lease",
			"interface", iface,
			"source", source,
			"error", err)
		metrics.LeaseLoads.WithLabelValues("corrupt").Inc()
		return nil
	}
	if l.Ack == nil || l.Interface == "" {
		logger.Warn("discarding incomplete lease",
			"interface", iface,
			"source", source)
		metrics.LeaseLoads.WithLabelValues("corrupt").Inc()
		return nil
	}
	return l
}
