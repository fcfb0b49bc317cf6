// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package host

import (
	"container/list"

	"github.com/Thermoquad/snrf/pkg/snrf"
)

// pendingQueue holds messages that arrived while waiting for something else,
// in arrival order
type pendingQueue struct {
	l list.List
}

func (q *pendingQueue) push(m snrf.Message) {
	q.l.PushBack(m)
}

func (q *pendingQueue) pop() (snrf.Message, bool) {
	e := q.l.Front()
	if e == nil {
		return snrf.Message{}, false
	}
	return q.l.Remove(e).(snrf.Message), true
}

// popOp removes the oldest message with op, leaving the others in place
func (q *pendingQueue) popOp(op snrf.Op) (snrf.Message, bool) {
	for e := q.l.Front(); e != nil; e = e.Next() {
		if e.Value.(snrf.Message).Op == op {
			return q.l.Remove(e).(snrf.Message), true
		}
	}
	return snrf.Message{}, false
}

func (q *pendingQueue) len() int {
	return q.l.Len()
}
