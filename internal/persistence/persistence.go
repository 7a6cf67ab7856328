package persistence

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/radxa-penta-fan-ctrl/pentafan/internal/ui"
	bolt "go.etcd.io/bbolt"
)

const (
	BucketSamples = "samples"
)

// Sample is one recorded control cycle. It is only ever read back for display.
type Sample struct {
	Time         time.Time `json:"time"`
	Cpu          float64   `json:"cpu"`
	CpuAvailable bool      `json:"cpuAvailable"`
	CpuAvg       float64   `json:"cpuAvg"`
	CpuTrend     float64   `json:"cpuTrend"`
	StorageMax   float64   `json:"storageMax"`
	StorageAvg   float64   `json:"storageAvg"`
	StorageTrend float64   `json:"storageTrend"`
	Duty         float64   `json:"duty"`
	HoldActive   bool      `json:"holdActive"`
}

type Persistence interface {
	Init() error

	SaveSample(sample Sample) error
	// LoadSamples returns all samples with from <= time < to, oldest first
	LoadSamples(from time.Time, to time.Time) ([]Sample, error)
	// PruneSamples deletes all samples older than before and returns how many were deleted
	PruneSamples(before time.Time) (int, error)
}

type persistence struct {
	dbPath string
}

func NewPersistence(dbPath string) Persistence {
	p := &persistence{
		dbPath: dbPath,
	}
	return p
}

func (p persistence) Init() (err error) {
	// get parent path of dbPath
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		// create directory
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p persistence) openPersistence() (db *bolt.DB, err error) {
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 10 * time.Second})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// sampleKey orders samples chronologically under bbolt's byte-wise key ordering
func sampleKey(t time.Time) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(t.UnixNano()))
	return key
}

// SaveSample stores a sample, replacing any sample with the same timestamp
func (p persistence) SaveSample(sample Sample) (err error) {
	db, err := p.openPersistence()
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	data, err := json.Marshal(sample)
	if err != nil {
		return err
	}

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketSamples))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		return b.Put(sampleKey(sample.Time), data)
	})
}

func (p persistence) LoadSamples(from time.Time, to time.Time) ([]Sample, error) {
	db, err := p.openPersistence()
	if err != nil {
		return nil, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	result := []Sample{}
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketSamples))
		if b == nil {
			// nothing recorded yet
			return nil
		}

		end := sampleKey(to)
		c := b.Cursor()
		for k, v := c.Seek(sampleKey(from)); k != nil && bytes.Compare(k, end) < 0; k, v = c.Next() {
			var sample Sample
			if err := json.Unmarshal(v, &sample); err != nil {
				ui.Warning("Skipping unreadable sample %x: %v", k, err)
				continue
			}
			result = append(result, sample)
		}
		return nil
	})

	return result, err
}

func (p persistence) PruneSamples(before time.Time) (int, error) {
	db, err := p.openPersistence()
	if err != nil {
		return 0, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	deleted := 0
	err = db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BucketSamples))
		if b == nil {
			return nil
		}

		end := sampleKey(before)
		var keys [][]byte
		c := b.Cursor()
		for k, _ := c.First(); k != nil && bytes.Compare(k, end) < 0; k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})

	return deleted, err
}
