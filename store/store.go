// store keeps run reports in a bolt database.
package store

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"
)

// log is the global logging variable.
var log = logging.MustGetLogger("store")

// REPORTS is the bucket name for all reports.
var REPORTS = []byte("reports")

// ErrNotFound is returned by Load if there is no report with the key.
var ErrNotFound = errors.New("report not found")

// Report is a stored command result.
type Report struct {
	Command string          `json:"command"`
	Time    time.Time       `json:"time"`
	Data    json.RawMessage `json:"data"`
}

// Store saves and loads reports.
type Store struct {
	db *bolt.DB
}

// Open opens or creates a database file.
func Open(fn string) (*Store, error) {
	db, err := bolt.Open(fn, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// New creates a store using an opened database.
func New(db *bolt.DB) *Store {
	return &Store{db: db}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save serializes the command result and stores it under the key.
func (s *Store) Save(key, command string, data interface{}) error {
	dataB, err := json.Marshal(data)
	if err != nil {
		log.Error("Error serializing report", err)
		return err
	}
	rep := Report{
		Command: command,
		Time:    time.Now().UTC(),
		Data:    dataB,
	}
	repB, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	err = SaveData(s.db, []byte(key), repB)
	if err != nil {
		log.Error("Error saving report", err)
		return err
	}
	log.Infof("Saved %s report as %q", command, key)
	return nil
}

// Load returns the report stored under the key.
func (s *Store) Load(key string) (*Report, error) {
	b, err := LoadData(s.db, []byte(key))
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	var rep Report
	if err = json.Unmarshal(b, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

// Keys returns all the report keys in the sorted order.
func (s *Store) Keys() (keys []string, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(REPORTS)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return
}

// SaveData saves values in bolt database.
func SaveData(db *bolt.DB, key []byte, data []byte) error {
	if db == nil {
		return nil
	}
	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(REPORTS)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}

// LoadData loads data from bolt database. Missing key gives nil.
func LoadData(db *bolt.DB, key []byte) ([]byte, error) {
	var data []byte
	if db == nil {
		return nil, nil
	}
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(REPORTS)
		if b == nil {
			return nil
		}
		// values are only valid during the transaction
		if v := b.Get(key); v != nil {
			data = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
