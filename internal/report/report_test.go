package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChannel_DeliversReports(t *testing.T) {
	c := NewChannel()
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := c.Subscribe(ctx)
	c.Report(ConfigurationNotFound, "could not open grammar for %q", "zig")

	select {
	case ev := <-sub:
		require.Equal(t, ConfigurationNotFound, ev.Payload.Kind)
		require.Equal(t, `could not open grammar for "zig"`, ev.Payload.Message)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for report")
	}
}

func TestChannel_NeverBlocksWithoutSubscribers(t *testing.T) {
	c := NewChannel()
	defer c.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			c.Report(PatternCompileFailure, "rule %d", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reporting blocked with no subscribers")
	}
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "ConfigurationNotFound", ConfigurationNotFound.String())
	require.Equal(t, "ConfigurationInvalid", ConfigurationInvalid.String())
	require.Equal(t, "PatternCompileFailure", PatternCompileFailure.String())
}

func TestRecorder_CountsByKind(t *testing.T) {
	var r Recorder
	r.Report(ConfigurationInvalid, "unknown category %q", "parens")
	r.Report(ConfigurationInvalid, "unknown category %q", "digits")
	r.Report(PatternCompileFailure, "bad rule")

	require.Equal(t, 2, r.Count(ConfigurationInvalid))
	require.Equal(t, 1, r.Count(PatternCompileFailure))
	require.Equal(t, 0, r.Count(ConfigurationNotFound))
}
