package lifecycle

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// DefaultWaitInterval is the polling period of WaitReady.
const DefaultWaitInterval = 100 * time.Millisecond

// WaitReady polls the machine until it reaches the ready or running state.
// A failed machine aborts the wait with its failure cause; hitting the
// timeout returns the poll error.
func WaitReady(ctx context.Context, m *Machine, timeout time.Duration) error {
	err := wait.PollUntilContextTimeout(ctx, DefaultWaitInterval, timeout, true,
		func(context.Context) (bool, error) {
			switch m.State() {
			case StateReady, StateRunning:
				return true, nil
			case StateFailed:
				return false, fmt.Errorf("lifecycle failed: %w", m.Err())
			case StateStopped:
				return false, fmt.Errorf("lifecycle stopped before becoming ready")
			default:
				return false, nil
			}
		})
	if err != nil {
		return fmt.Errorf("waiting for readiness: %w", err)
	}
	return nil
}
