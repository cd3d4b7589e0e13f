// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package davsync

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroIntervalNeverFires(t *testing.T) {
	f := newFixture(t, Options{TickUnit: 5 * time.Millisecond})
	f.configure(t, 0)
	require.NoError(t, f.orch.Start(context.Background()))

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, f.dav.puts.Load())
	assert.Zero(t, f.orch.Interval())

	st, err := f.orch.Status(context.Background())
	require.NoError(t, err)
	assert.Nil(t, st.NextRun)
}

func TestIntervalFiresUntilDisarmed(t *testing.T) {
	f := newFixture(t, Options{TickUnit: 2 * time.Millisecond})
	f.configure(t, 5)
	assert.Equal(t, 5, f.orch.Interval())

	require.Eventually(t, func() bool { return f.dav.puts.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)

	st, err := f.orch.Status(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, st.NextRun)

	f.configure(t, 0)
	// Let an in-flight tick finish before sampling.
	time.Sleep(30 * time.Millisecond)
	n := f.dav.puts.Load()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, n, f.dav.puts.Load())
}

func TestSchedulerKeepsRunningOnFailure(t *testing.T) {
	f := newFixture(t, Options{TickUnit: 2 * time.Millisecond})
	f.dav.setPut(http.StatusInternalServerError)
	f.configure(t, 1)

	require.Eventually(t, func() bool { return f.dav.puts.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	st, err := f.orch.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateFailed, st.State)
}

func TestStartArmsFromStoredInterval(t *testing.T) {
	f := newFixture(t, Options{TickUnit: 2 * time.Millisecond})
	f.configure(t, 3)
	f.orch.Stop()
	assert.Zero(t, f.orch.Interval())

	require.NoError(t, f.orch.Start(context.Background()))
	assert.Equal(t, 3, f.orch.Interval())
	require.Eventually(t, func() bool { return f.dav.puts.Load() >= 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestStopCancelsWithContext(t *testing.T) {
	f := newFixture(t, Options{TickUnit: 2 * time.Millisecond})
	f.configure(t, 0)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, f.orch.Start(ctx))
	f.orch.Reschedule(1)
	cancel()

	time.Sleep(30 * time.Millisecond)
	n := f.dav.puts.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, f.dav.puts.Load())
}
