package xbreaker_test

import (
	"fmt"
	"time"

	"github.com/omeyang/xresil/pkg/resilience/xbreaker"
)

func ExampleNewBreaker() {
	b, err := xbreaker.NewBreaker("asset-upload", xbreaker.Config{
		FailureThreshold: 2,
		RecoveryTimeout:  30 * time.Second,
		SuccessThreshold: 1,
	})
	if err != nil {
		panic(err)
	}

	fmt.Println(b.Allow(), b.State())
	b.RecordFailure()
	b.RecordFailure()
	fmt.Println(b.Allow(), b.State())
	// Output:
	// true closed
	// false open
}

func ExampleBreaker_Snapshot() {
	b, _ := xbreaker.NewBreaker("metrics-api", xbreaker.DefaultConfig())

	b.RecordFailure()
	snap := b.Snapshot()
	fmt.Println(snap.Name, snap.State, snap.ConsecutiveFailures)
	// Output: metrics-api closed 1
}

func ExampleWithOnStateChange() {
	b, _ := xbreaker.NewBreaker("catalog-db",
		xbreaker.Config{FailureThreshold: 1, RecoveryTimeout: time.Minute, SuccessThreshold: 1},
		xbreaker.WithOnStateChange(func(tr xbreaker.Transition) {
			fmt.Printf("%s: %s -> %s\n", tr.Name, tr.From, tr.To)
		}),
	)

	b.RecordFailure()
	// Output: catalog-db: closed -> open
}
