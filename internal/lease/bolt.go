package lease

import (
	"encoding/json"
	"fmt"
	"log/slog"

	bolt "go.etcd.io/bbolt"

	"github.com/athena-dhcpd/athena-dhclient/internal/metrics"
)

var bucketLeases = []byte("leases")

// BoltStorage persists leases in a BoltDB database, one record per interface.
type BoltStorage struct {
	db     *bolt.DB
	logger *slog.Logger
}

// NewBoltStorage opens or creates the lease database at path.
func NewBoltStorage(path string, logger *slog.Logger) (*BoltStorage, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening lease database %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketLeases)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing lease database %s: %w", path, err)
	}
	return &BoltStorage{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *BoltStorage) Close() error {
	return s.db.Close()
}

// Dump writes the lease under its interface name.
func (s *BoltStorage) Dump(l *Lease) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshalling lease for %s: %w", l.Interface, err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketLeases).Put([]byte(l.Interface), data)
	})
	if err != nil {
		return fmt.Errorf("writing lease for %s: %w", l.Interface, err)
	}
	metrics.LeaseDumps.WithLabelValues("bolt").Inc()
	return nil
}

// Load reads the lease stored for an interface, nil when there is none or
// the stored record no longer deserializes.
func (s *BoltStorage) Load(iface string) *Lease {
	var data []byte
	_ = s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketLeases).Get([]byte(iface)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if data == nil {
		s.logger.Info("no existing lease", "interface", iface)
		metrics.LeaseLoads.WithLabelValues("miss").Inc()
		return nil
	}
	l := decodeStored(data, iface, s.db.Path(), s.logger)
	if l == nil {
		return nil
	}
	metrics.LeaseLoads.WithLabelValues("hit").Inc()
	return l
}
