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
	"testing"
)

func TestMemStoreLookup(t *testing.T) {
	s := NewMemStore()
	defer s.Close()

	rec, ok := s.LookupMsisdn("+14085551234")
	if !ok {
		t.Fatalf("seeded subscriber not found")
	}
	if rec.Imsi != "310150123456789" || rec.ServingMsc != "MSC_DALLAS_01" ||
		rec.ServingVlr != "VLR_DAL_01" || rec.Region != "US-SOUTH" {
		t.Fatalf("unexpected record:%+v", rec)
	}

	if _, ok := s.LookupMsisdn("+19999999999"); ok {
		t.Fatalf("unknown subscriber should miss")
	}
}

func TestMemStoreLookupCopies(t *testing.T) {
	s := NewMemStore()
	defer s.Close()

	rec, _ := s.LookupMsisdn("+12125550123")
	rec.Region = "MUTATED"

	again, _ := s.LookupMsisdn("+12125550123")
	if again.Region != "US-EAST" {
		t.Fatalf("lookup result must not alias the registry:%+v", again)
	}
}

func TestRoutePolicy(t *testing.T) {
	cases := []struct {
		region string
		want   string
	}{
		{"US-EAST", RouteGroupEast},
		{"US-SOUTH", RouteGroupSouth},
		{"UK", RouteGroupIntl},
		{"", RouteGroupIntl},
	}
	for _, c := range cases {
		got := RoutePolicy(&Record{Region: c.region})
		if got != c.want {
			t.Fatalf("region %q expect %q,got %q", c.region, c.want, got)
		}
	}
}

func TestBoltStoreSeedsWhenEmpty(t *testing.T) {
	dir := t.TempDir()
	s, err := NewBoltStore(&BoltStoreConfig{Dir: dir})
	if err != nil {
		t.Fatalf("NewBoltStore error:%s", err.Error())
	}
	defer s.Close()

	rec, ok := s.LookupMsisdn("+442079460123")
	if !ok {
		t.Fatalf("empty registry should be seeded with defaults")
	}
	if rec.ServingMsc != "MSC_LON_01" || rec.Region != "UK" {
		t.Fatalf("unexpected record:%+v", rec)
	}
}

func TestBoltStorePutAndReload(t *testing.T) {
	dir := t.TempDir()
	s, err := NewBoltStore(&BoltStoreConfig{Dir: dir})
	if err != nil {
		t.Fatalf("NewBoltStore error:%s", err.Error())
	}

	put := &Record{Imsi: "460001234567890", ServingMsc: "MSC_SHA_01", ServingVlr: "VLR_SHA_01", Region: "CN"}
	if err := s.Put("+8613800138000", put); err != nil {
		t.Fatalf("Put error:%s", err.Error())
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close error:%s", err.Error())
	}

	// provisioned subscriber survives a reopen
	s2, err := NewBoltStore(&BoltStoreConfig{Dir: dir})
	if err != nil {
		t.Fatalf("reopen NewBoltStore error:%s", err.Error())
	}
	defer s2.Close()

	rec, ok := s2.LookupMsisdn("+8613800138000")
	if !ok {
		t.Fatalf("provisioned subscriber lost on reload")
	}
	if *rec != *put {
		t.Fatalf("record mismatch,expect %+v,got %+v", put, rec)
	}
}

func TestBoltStoreBadArgs(t *testing.T) {
	if _, err := NewBoltStore(nil); err != ErrArgsNotAvailable {
		t.Fatalf("expect ErrArgsNotAvailable,got %v", err)
	}
	if _, err := NewBoltStore(&BoltStoreConfig{}); err != ErrArgsNotAvailable {
		t.Fatalf("expect ErrArgsNotAvailable,got %v", err)
	}
}
