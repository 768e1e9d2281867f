package xobserve

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/omeyang/xresil/pkg/resilience/xbreaker"
	"github.com/omeyang/xresil/pkg/resilience/xretry"
)

// recordingSink 收集收到的事件，用于断言广播行为
type recordingSink struct {
	attempts    []xretry.AttemptRecord
	transitions []xbreaker.Transition
}

func (s *recordingSink) OnAttempt(r xretry.AttemptRecord)   { s.attempts = append(s.attempts, r) }
func (s *recordingSink) OnTransition(t xbreaker.Transition) { s.transitions = append(s.transitions, t) }

func TestNoopSink(t *testing.T) {
	s := NewNoopSink()

	assert.NotPanics(t, func() {
		s.OnAttempt(xretry.AttemptRecord{Operation: "op", Attempt: 1})
		s.OnTransition(xbreaker.Transition{Name: "dep"})
	})
}

func TestFanout(t *testing.T) {
	t.Run("BroadcastsToAllSinks", func(t *testing.T) {
		first := &recordingSink{}
		second := &recordingSink{}
		f := Fanout(first, second)

		record := xretry.AttemptRecord{
			Operation: "upload",
			Attempt:   2,
			Err:       errors.New("transient"),
			Retryable: true,
			Delay:     time.Second,
		}
		trans := xbreaker.Transition{
			Name: "dep",
			From: xbreaker.StateClosed,
			To:   xbreaker.StateOpen,
		}

		f.OnAttempt(record)
		f.OnTransition(trans)

		for _, s := range []*recordingSink{first, second} {
			assert.Equal(t, []xretry.AttemptRecord{record}, s.attempts)
			assert.Equal(t, []xbreaker.Transition{trans}, s.transitions)
		}
	})

	t.Run("SkipsNilSinks", func(t *testing.T) {
		only := &recordingSink{}
		f := Fanout(nil, only, nil)

		f.OnAttempt(xretry.AttemptRecord{Operation: "op"})

		assert.Len(t, only.attempts, 1)
	})

	t.Run("EmptyFanoutIsNoop", func(t *testing.T) {
		f := Fanout()

		assert.NotPanics(t, func() {
			f.OnAttempt(xretry.AttemptRecord{})
			f.OnTransition(xbreaker.Transition{})
		})
	})
}
