package xretry_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/omeyang/duallog/pkg/resilience/xretry"
)

func ExampleRetryer_Do() {
	r := xretry.NewRetryer(
		xretry.WithRetryPolicy(xretry.NewFixedRetry(3)),
		xretry.WithBackoffPolicy(xretry.NewNoBackoff()),
		xretry.WithOnRetry(func(attempt int, err error) {
			fmt.Printf("attempt %d failed: %v\n", attempt, err)
		}),
	)

	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("file locked")
		}
		return nil
	})
	fmt.Println(err, calls)
	// Output:
	// attempt 1 failed: file locked
	// attempt 2 failed: file locked
	// <nil> 3
}
