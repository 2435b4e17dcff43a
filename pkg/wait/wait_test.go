// Copyright 2015 The etcd Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package wait

import (
	"testing"
	"time"
)

func TestWait(t *testing.T) {
	const eid = 1
	wt := New()
	ch := wt.Register(eid)
	if !wt.Trigger(eid, "foo") {
		t.Fatalf("Trigger should report a registered slot")
	}
	v := <-ch
	if g, w := v.(string), "foo"; g != w {
		t.Errorf("<-ch = %v, want %v", g, w)
	}

	if g := <-ch; g != nil {
		t.Errorf("unexpected non-nil value: %v (%T)", g, g)
	}
}

func TestRegisterDupPanic(t *testing.T) {
	const eid = 1
	wt := New()
	ch1 := wt.Register(eid)

	panicC := make(chan struct{}, 1)

	func() {
		defer func() {
			if r := recover(); r != nil {
				panicC <- struct{}{}
			}
		}()
		wt.Register(eid)
	}()

	select {
	case <-panicC:
	case <-time.After(1 * time.Second):
		t.Errorf("failed to receive panic")
	}

	wt.Trigger(eid, "foo")
	<-ch1
}

func TestTriggerDupSuppression(t *testing.T) {
	const eid = 1
	wt := New()
	ch := wt.Register(eid)
	if !wt.Trigger(eid, "foo") {
		t.Fatalf("first Trigger should hit")
	}
	// the slot is gone, a late completion must be a silent no-op
	if wt.Trigger(eid, "bar") {
		t.Fatalf("second Trigger should miss")
	}

	v := <-ch
	if g, w := v.(string), "foo"; g != w {
		t.Errorf("<-ch = %v, want %v", g, w)
	}
}

func TestIsRegistered(t *testing.T) {
	wt := New()
	if wt.IsRegistered(0) {
		t.Errorf("bare table should have no registrations")
	}
	wt.Register(0)
	wt.Register(1)
	wt.Register(2)

	for i := uint64(0); i <= 2; i++ {
		if !wt.IsRegistered(i) {
			t.Errorf("id %d should be registered", i)
		}
	}
	if wt.IsRegistered(4) {
		t.Errorf("id 4 should not be registered")
	}

	wt.Trigger(0, "foo")
	if wt.IsRegistered(0) {
		t.Errorf("id 0 should not be registered after trigger")
	}
}

func TestSize(t *testing.T) {
	wt := New()
	if wt.Size() != 0 {
		t.Fatalf("empty table size = %d, want 0", wt.Size())
	}
	for i := uint64(0); i < 10; i++ {
		wt.Register(i)
	}
	if wt.Size() != 10 {
		t.Fatalf("table size = %d, want 10", wt.Size())
	}
	wt.Trigger(3, nil)
	wt.Trigger(7, nil)
	if wt.Size() != 8 {
		t.Fatalf("table size = %d, want 8", wt.Size())
	}
}
