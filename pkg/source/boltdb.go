package source

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/fabricsync/fabricsync/pkg/types"
)

var (
	// Bucket names
	bucketTenants  = []byte("tenants")
	bucketNetworks = []byte("networks")
	bucketPorts    = []byte("ports")
	bucketProfiles = []byte("profiles")
)

// BoltSource implements Source using BoltDB. The platform-side feed
// populates it with Put/Delete calls; the sync loop only reads.
type BoltSource struct {
	db *bolt.DB
}

// NewBoltSource opens (or creates) the model database under dataDir.
func NewBoltSource(dataDir string) (*BoltSource, error) {
	dbPath := filepath.Join(dataDir, "fabricsync.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{bucketTenants, bucketNetworks, bucketPorts, bucketProfiles}
		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltSource{db: db}, nil
}

// Close closes the database
func (s *BoltSource) Close() error {
	return s.db.Close()
}

// Tenant operations
func (s *BoltSource) PutTenant(tenant types.Tenant) error {
	return s.put(bucketTenants, tenant.ID, tenant)
}

func (s *BoltSource) DeleteTenant(id string) error {
	return s.delete(bucketTenants, id)
}

func (s *BoltSource) ListTenants() ([]types.Tenant, error) {
	var tenants []types.Tenant
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTenants).ForEach(func(_, data []byte) error {
			var t types.Tenant
			if err := json.Unmarshal(data, &t); err != nil {
				return err
			}
			tenants = append(tenants, t)
			return nil
		})
	})
	return tenants, err
}

// Network operations
func (s *BoltSource) PutNetwork(network types.Network) error {
	return s.put(bucketNetworks, network.ID, network)
}

func (s *BoltSource) DeleteNetwork(id string) error {
	return s.delete(bucketNetworks, id)
}

func (s *BoltSource) ListNetworks(tenantID string) ([]types.Network, error) {
	var networks []types.Network
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketNetworks).ForEach(func(_, data []byte) error {
			var n types.Network
			if err := json.Unmarshal(data, &n); err != nil {
				return err
			}
			if tenantID == "" || n.TenantID == tenantID || n.Shared {
				networks = append(networks, n)
			}
			return nil
		})
	})
	return networks, err
}

// Port operations
func (s *BoltSource) PutPort(port types.Port) error {
	return s.put(bucketPorts, port.ID, port)
}

func (s *BoltSource) DeletePort(id string) error {
	return s.delete(bucketPorts, id)
}

func (s *BoltSource) ListPorts(tenantID string) ([]types.Port, error) {
	var ports []types.Port
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPorts).ForEach(func(_, data []byte) error {
			var p types.Port
			if err := json.Unmarshal(data, &p); err != nil {
				return err
			}
			if tenantID == "" || p.TenantID == tenantID {
				ports = append(ports, p)
			}
			return nil
		})
	})
	return ports, err
}

// Profile operations
func (s *BoltSource) PutPortProfile(portID string, profile types.PortProfile) error {
	return s.put(bucketProfiles, portID, profile)
}

func (s *BoltSource) PortProfiles(portIDs []string) (map[string]types.PortProfile, error) {
	profiles := make(map[string]types.PortProfile, len(portIDs))
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketProfiles)
		for _, id := range portIDs {
			data := b.Get([]byte(id))
			if data == nil {
				continue
			}
			var p types.PortProfile
			if err := json.Unmarshal(data, &p); err != nil {
				return err
			}
			profiles[id] = p
		}
		return nil
	})
	return profiles, err
}

func (s *BoltSource) put(bucket []byte, key string, value interface{}) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(value)
		if err != nil {
			return err
		}
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (s *BoltSource) delete(bucket []byte, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(key))
	})
}
