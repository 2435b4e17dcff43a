// Copyright 2025 The Telecom Routing Server Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package alrstore

import (
	"encoding/json"
	"os"
	"path"
	"sync"

	"github.com/boltdb/bolt"
	"github.com/golang/glog"

	"github.com/Frederick75/Carrier-Grade-Telecom-Signalling-Routing-Server/pkg/jsonutil"
)

const (
	AlrDBFile  = "alr.db"
	BucketName = "alr_subscribers"
)

type BoltStoreConfig struct {
	//boltdb dir
	Dir string
}

// BoltStore keeps the registry file in boltdb and serves lookups from
// an in-memory copy loaded at open. An empty registry file is seeded
// with the default subscribers.
type BoltStore struct {
	Conf       *BoltStoreConfig
	DB         *bolt.DB
	BucketName []byte

	mu sync.RWMutex
	db map[string]Record
}

func NewBoltStore(conf *BoltStoreConfig) (*BoltStore, error) {
	if conf == nil || len(conf.Dir) == 0 {
		return nil, ErrArgsNotAvailable
	}
	//if dir not exist, make dir
	if isFileExist(conf.Dir) == false {
		err := os.MkdirAll(conf.Dir, 0700)
		if err != nil {
			return nil, err
		}
	}
	dbFilePath := path.Join(conf.Dir, AlrDBFile)
	db, err := bolt.Open(dbFilePath, 0600, nil)
	if err != nil {
		glog.Errorf("[alr_bolt.go-NewBoltStore]:bolt Open error,err=%s,dbpath=%s", err.Error(), dbFilePath)
		return nil, err
	}

	s := &BoltStore{
		Conf:       conf,
		DB:         db,
		BucketName: []byte(BucketName),
		db:         make(map[string]Record),
	}
	if err = s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	if err = s.load(); err != nil {
		db.Close()
		return nil, err
	}
	if len(s.db) == 0 {
		if err = s.seedDefaults(); err != nil {
			db.Close()
			return nil, err
		}
		glog.Infof("[alr_bolt.go-NewBoltStore]:empty registry seeded with %d default subscribers,dbpath=%s",
			len(defaultRecords), dbFilePath)
	}
	return s, nil
}

func (s *BoltStore) LookupMsisdn(msisdn string) (*Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.db[msisdn]
	if !ok {
		return nil, false
	}
	return &rec, true
}

// Put provisions one subscriber in the file and the in-memory copy.
func (s *BoltStore) Put(msisdn string, rec *Record) error {
	if len(msisdn) == 0 || rec == nil {
		return ErrArgsNotAvailable
	}
	err := s.DB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.BucketName)
		return b.Put([]byte(msisdn), jsonutil.MustMarshal(rec))
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.db[msisdn] = *rec
	s.mu.Unlock()
	return nil
}

func (s *BoltStore) Close() error {
	s.DB.Close()
	return nil
}

// load pulls every registry entry into memory; lookups never touch the
// file afterwards.
func (s *BoltStore) load() error {
	return s.DB.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(s.BucketName)
		return bucket.ForEach(func(k, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				glog.Errorf("[alr_bolt.go-load]:bad record,msisdn=%s,err=%s", string(k), err.Error())
				return ErrBadRecord
			}
			s.db[string(k)] = rec
			return nil
		})
	})
}

func (s *BoltStore) seedDefaults() error {
	for msisdn, rec := range defaultRecords {
		r := rec
		if err := s.Put(msisdn, &r); err != nil {
			return err
		}
	}
	return nil
}

func isFileExist(filePath string) bool {
	if len(filePath) == 0 {
		return false
	}
	_, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false
		}
		glog.Errorf("[alr_bolt.go-isFileExist]:stat error:error=%s,dir=%s", err.Error(), filePath)
		return false
	}
	return true
}

// initialize is used to set up all of the buckets.
func (s *BoltStore) initialize() error {
	tx, err := s.DB.Begin(true)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Create bucket
	if _, err := tx.CreateBucketIfNotExists(s.BucketName); err != nil {
		glog.Errorf("[alr_bolt.go-initialize]:CreateBucketIfNotExists error:error=%s,BucketName=%s",
			err.Error(), string(s.BucketName))
		return err
	}

	return tx.Commit()
}
