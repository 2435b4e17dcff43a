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
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Wait is the pending-transaction table: it maps a correlation id to a
// one-shot completion slot. A slot is completed by whichever side calls
// Trigger first; everyone else observes a missing entry.
type Wait interface {
	// Register returns a chan that waits on the given ID.
	// The chan will be triggered when Trigger is called with
	// the same ID.
	Register(id uint64) <-chan interface{}
	// Trigger completes and removes the slot with the given ID.
	// It reports whether a slot was still registered; a late Trigger
	// is a no-op returning false.
	Trigger(id uint64, x interface{}) bool
	IsRegistered(id uint64) bool
	// Size is the number of in-flight slots. It drives backpressure
	// rejection on the routing server.
	Size() int
}

type list struct {
	l               sync.Mutex
	m               map[uint64]chan interface{}
	t               map[uint64]time.Time
	needStats       bool
	summaryVec      *prometheus.SummaryVec
	summaryVecLabel string
}

// New creates a Wait.
func New() Wait {
	return &list{
		m:         make(map[uint64]chan interface{}),
		needStats: false,
	}
}

// NewWithStats creates a Wait that reports time-in-table milliseconds
// to the given summary.
func NewWithStats(summaryVec *prometheus.SummaryVec, summaryVecLabel string) Wait {
	return &list{
		m:               make(map[uint64]chan interface{}),
		t:               make(map[uint64]time.Time),
		needStats:       true,
		summaryVec:      summaryVec,
		summaryVecLabel: summaryVecLabel,
	}
}

func (w *list) Register(id uint64) <-chan interface{} {
	w.l.Lock()
	defer w.l.Unlock()
	ch := w.m[id]
	if ch == nil {
		ch = make(chan interface{}, 1)
		w.m[id] = ch
		if w.needStats {
			w.t[id] = time.Now()
		}
	} else {
		// ids come from an atomic generator, a duplicate is a bug
		log.Panicf("dup id %x", id)
	}
	return ch
}

func (w *list) Trigger(id uint64, x interface{}) bool {
	var beginTime time.Time
	w.l.Lock()
	ch := w.m[id]
	delete(w.m, id)
	if w.needStats {
		beginTime = w.t[id]
		delete(w.t, id)
	}
	w.l.Unlock()

	if ch == nil {
		return false
	}
	if w.needStats {
		w.summaryVec.WithLabelValues(w.summaryVecLabel).Observe(float64(time.Since(beginTime) / time.Millisecond))
	}
	ch <- x
	close(ch)
	return true
}

func (w *list) IsRegistered(id uint64) bool {
	w.l.Lock()
	defer w.l.Unlock()
	_, ok := w.m[id]
	return ok
}

func (w *list) Size() int {
	w.l.Lock()
	defer w.l.Unlock()
	return len(w.m)
}
