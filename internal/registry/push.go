package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/distribution/reference"

	"github.com/elasticdl/edl/internal/runtime"
)

// Maximum number of push attempts before giving up. Registry pushes fail
// transiently (rate limits, blob upload resets), so a few retries with
// exponential backoff cover the common cases.
const maxPushRetries = 4

var ErrPush = errors.New("push failed")

// Controls an image push.
type Options struct {
	Archive string // Path to the exported OCI archive.
	Ref     string // Target image reference (e.g. "registry.example.com/team/mnist:v1").
	Keep    bool   // Keep the imported image in the content store after the push.
}

// Publishes an exported OCI archive to a registry.
//
// The archive is imported into the content store under the normalized
// reference, pushed with exponential backoff retries, and removed from the
// store afterwards unless Keep is set. Returns the fully qualified
// reference that was pushed.
func Push(ctx context.Context, rt *runtime.Runtime, opts Options) (string, error) {
	ref, err := Normalize(opts.Ref)
	if err != nil {
		return "", err
	}

	slog.Info("pushing image", "archive", opts.Archive, "ref", ref)

	if err := rt.ImportImage(ctx, opts.Archive, ref, runtime.DefaultPlatform()); err != nil {
		return "", fmt.Errorf("%w: %w", ErrPush, err)
	}

	if !opts.Keep {
		defer func() {
			if err := rt.DestroyImage(context.WithoutCancel(ctx), ref); err != nil {
				slog.Warn("failed to remove pushed image from store", "ref", ref, "error", err)
			}
		}()
	}

	if err := pushWithRetry(ctx, rt, ref); err != nil {
		return "", fmt.Errorf("%w: %w", ErrPush, err)
	}

	slog.Info("image pushed", "ref", ref)
	return ref, nil
}

// Pushes the tagged image, retrying transient failures.
func pushWithRetry(ctx context.Context, rt *runtime.Runtime, ref string) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(newBackOff(), maxPushRetries),
		ctx,
	)

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := rt.PushImage(ctx, ref)
		if err != nil {
			slog.Warn("push attempt failed", "ref", ref, "attempt", attempt, "error", err)
		}
		return err
	}, policy)
}

// Returns the backoff policy for push retries.
func newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	return b
}

// Normalizes an image reference to its fully qualified, tagged form.
//
// Short references are expanded (e.g. "team/mnist" becomes
// "docker.io/team/mnist:latest"). Digested references are rejected: a push
// target must be addressable by tag.
func Normalize(ref string) (string, error) {
	named, err := reference.ParseDockerRef(ref)
	if err != nil {
		return "", fmt.Errorf("%w: invalid reference %q: %w", ErrPush, ref, err)
	}

	if _, ok := named.(reference.Canonical); ok {
		return "", fmt.Errorf("%w: digested reference %q cannot be a push target", ErrPush, ref)
	}

	return reference.TagNameOnly(named).String(), nil
}
