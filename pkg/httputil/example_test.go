package httputil_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/seatmap/pkg/httputil"
)

func ExampleRetry() {
	calls := 0
	err := httputil.Retry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		if calls == 1 {
			return httputil.Retryable(errors.New("502 bad gateway"))
		}
		return nil
	})
	fmt.Println("calls:", calls)
	fmt.Println("err:", err)
	// Output:
	// calls: 2
	// err: <nil>
}
