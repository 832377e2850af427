package tvsearch

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// execRunner runs a real external command, bounded by the context deadline.
func execRunner(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%s timed out: %w", name, ctx.Err())
		}
		return "", fmt.Errorf("%s: %w (%s)", name, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.String(), nil
}
