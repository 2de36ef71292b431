package health

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Pinger is implemented by dependencies that can report their own
// reachability, such as the history store and the source client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck adapts a Pinger.
func PingCheck(p Pinger) CheckFunc {
	return p.Ping
}

// FileFreshnessCheck fails when path is missing or older than maxAge. A
// zero maxAge only checks that the file exists.
func FileFreshnessCheck(path string, maxAge time.Duration) CheckFunc {
	return func(ctx context.Context) error {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if maxAge > 0 {
			if age := time.Since(info.ModTime()); age > maxAge {
				return fmt.Errorf("%s is stale (%s old)", info.Name(), age.Truncate(time.Second))
			}
		}
		return nil
	}
}
