package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dockhand/internal/boundaries/in"
	"github.com/bnema/dockhand/internal/domain"
)

// fakeView replays a scripted stream through the hooks it was created with.
type fakeView struct {
	mu       sync.Mutex
	hooks    in.ViewHooks
	logs     []string
	samples  []domain.StatsSample
	endState domain.ConnectionState
	banner   *domain.ClassifiedError
	openErr  error
	closed   bool
	opened   []string
}

func (f *fakeView) NewView(_ context.Context, hooks in.ViewHooks) in.LiveView {
	f.hooks = hooks
	return f
}

func (f *fakeView) ToggleStats(_ context.Context, resourceID string) (bool, error) {
	if f.openErr != nil {
		return false, f.openErr
	}
	f.opened = append(f.opened, "stats/"+resourceID)
	for _, s := range f.samples {
		f.hooks.OnStats(resourceID, s)
	}
	f.end(domain.StreamKey{ResourceID: resourceID, Kind: domain.StreamStats})
	return true, nil
}

func (f *fakeView) StatsExpanded(string) bool { return false }

func (f *fakeView) Stats(string) (domain.StatsSample, bool) { return domain.StatsSample{}, false }

func (f *fakeView) OpenLogs(_ context.Context, resourceID string) error {
	if f.openErr != nil {
		return f.openErr
	}
	f.opened = append(f.opened, "logs/"+resourceID)
	for _, line := range f.logs {
		f.hooks.OnLog(resourceID, line)
	}
	f.end(domain.StreamKey{ResourceID: resourceID, Kind: domain.StreamLogs})
	return nil
}

func (f *fakeView) end(key domain.StreamKey) {
	if f.endState == "" {
		return
	}
	f.hooks.OnEnded(key, f.endState)
}

func (f *fakeView) CloseLogs() {}

func (f *fakeView) Logs() (string, domain.LogChunk, domain.ConnectionState) {
	return "", nil, domain.StateClosed
}

func (f *fakeView) Banner() (domain.ClassifiedError, bool) {
	if f.banner == nil {
		return domain.ClassifiedError{}, false
	}
	return *f.banner, true
}

func (f *fakeView) DismissBanner() { f.banner = nil }

func (f *fakeView) Streams() []domain.StreamChannel { return nil }

func (f *fakeView) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeView) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func TestRunLogs_StopsWhenIdle(t *testing.T) {
	view := &fakeView{logs: []string{"booting\n", "ready\n"}}

	var out bytes.Buffer
	err := runLogs(context.Background(), view, "abc", logsOptions{Idle: 20 * time.Millisecond}, &out)
	require.NoError(t, err)
	assert.Equal(t, "booting\nready\n", out.String())
	assert.Equal(t, []string{"logs/abc"}, view.opened)
	assert.True(t, view.isClosed())
}

func TestRunLogs_ReturnsWhenStreamCloses(t *testing.T) {
	view := &fakeView{logs: []string{"bye\n"}, endState: domain.StateClosed}

	var out bytes.Buffer
	err := runLogs(context.Background(), view, "abc", logsOptions{Follow: true}, &out)
	require.NoError(t, err)
	assert.Equal(t, "bye\n", out.String())
}

func TestRunLogs_FollowStopsOnCancel(t *testing.T) {
	view := &fakeView{logs: []string{"tick\n"}}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	err := runLogs(ctx, view, "abc", logsOptions{Follow: true, Idle: time.Millisecond}, &out)
	require.NoError(t, err)
	assert.Equal(t, "tick\n", out.String())
}

func TestRunLogs_ErroredStreamReturnsBanner(t *testing.T) {
	banner := domain.ClassifiedError{Kind: domain.ErrorKindNetworkUnavailable, UserMessage: "Network unavailable"}
	view := &fakeView{endState: domain.StateErrored, banner: &banner}

	var out bytes.Buffer
	err := runLogs(context.Background(), view, "abc", logsOptions{Follow: true}, &out)
	require.Error(t, err)
	assert.Equal(t, "Network unavailable", errorMessage(err))
}

func TestRunLogs_ErroredStreamWithoutBanner(t *testing.T) {
	view := &fakeView{endState: domain.StateErrored}

	err := runLogs(context.Background(), view, "abc", logsOptions{Follow: true}, &bytes.Buffer{})
	require.ErrorIs(t, err, domain.ErrStreamErrored)
	assert.EqualError(t, err, "log stream failed: stream channel errored")
}

func TestRunLogs_ClosedStreamWithBannerFails(t *testing.T) {
	banner := domain.ClassifiedError{Kind: domain.ErrorKindUnknown, UserMessage: "Logs error: Container gone"}
	view := &fakeView{logs: []string{"last\n"}, endState: domain.StateClosed, banner: &banner}

	var out bytes.Buffer
	err := runLogs(context.Background(), view, "abc", logsOptions{Follow: true}, &out)
	require.Error(t, err)
	assert.Equal(t, "Logs error: Container gone", errorMessage(err))
	assert.Equal(t, "last\n", out.String())
}

func TestRunLogs_OpenFailure(t *testing.T) {
	view := &fakeView{openErr: domain.ErrNotAuthenticated}

	err := runLogs(context.Background(), view, "abc", logsOptions{}, &bytes.Buffer{})
	require.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.True(t, view.isClosed())
}

func testSamples() []domain.StatsSample {
	at := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)
	return []domain.StatsSample{
		{CPUPercent: 12.5, MemUsedBytes: 256 << 20, MemLimitBytes: 1 << 30, NetInputBytes: 2048, NetOutputBytes: 1024, SampledAt: at},
		{CPUPercent: 13, MemUsedBytes: 300 << 20, MemLimitBytes: 1 << 30, SampledAt: at.Add(time.Second)},
		{CPUPercent: 14, MemUsedBytes: 310 << 20, SampledAt: at.Add(2 * time.Second)},
	}
}

func TestRunStats_StopsAfterCount(t *testing.T) {
	view := &fakeView{samples: testSamples()}

	var out bytes.Buffer
	err := runStats(context.Background(), view, "abc", statsOptions{Count: 2}, outputTable, &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "CPU")
	assert.Contains(t, lines[0], "MEM")
	assert.Contains(t, lines[0], "NET I/O")
	assert.Equal(t, []string{"stats/abc"}, view.opened)
}

func TestRunStats_JSONLines(t *testing.T) {
	view := &fakeView{samples: testSamples()}

	var out bytes.Buffer
	err := runStats(context.Background(), view, "abc", statsOptions{Count: 3}, outputJSON, &out)
	require.NoError(t, err)

	var got []statsView
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var v statsView
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &v))
		got = append(got, v)
	}
	require.Len(t, got, 3)
	assert.Equal(t, "abc", got[0].ContainerID)
	assert.InDelta(t, 12.5, got[0].CPUPercent, 0.001)
	require.NotNil(t, got[0].MemPercent)
	assert.InDelta(t, 25.0, *got[0].MemPercent, 0.001)
	assert.Nil(t, got[2].MemPercent)
}

func TestRunStats_ErroredStreamReturnsBanner(t *testing.T) {
	banner := domain.ClassifiedError{Kind: domain.ErrorKindPermissionDenied, UserMessage: "Permission denied"}
	view := &fakeView{endState: domain.StateErrored, banner: &banner}

	err := runStats(context.Background(), view, "abc", statsOptions{}, outputTable, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, "Permission denied", errorMessage(err))
}

func TestRunStats_ClosedStreamWithBannerFails(t *testing.T) {
	banner := domain.ClassifiedError{Kind: domain.ErrorKindUnknown, UserMessage: "Stats error: Oom"}
	view := &fakeView{endState: domain.StateClosed, banner: &banner}

	err := runStats(context.Background(), view, "abc", statsOptions{}, outputTable, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, "Stats error: Oom", errorMessage(err))
}

func TestRunStats_ClosedStreamWithoutBannerSucceeds(t *testing.T) {
	view := &fakeView{endState: domain.StateClosed}

	err := runStats(context.Background(), view, "abc", statsOptions{}, outputTable, &bytes.Buffer{})
	require.NoError(t, err)
}

func TestRunStats_StopsOnCancel(t *testing.T) {
	view := &fakeView{}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := runStats(ctx, view, "abc", statsOptions{}, outputTable, &bytes.Buffer{})
	require.NoError(t, err)
}
