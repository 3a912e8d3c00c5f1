package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dockhand/internal/boundaries/in/mocks"
	"github.com/bnema/dockhand/internal/domain"
)

func testOverview() domain.SystemOverview {
	return domain.SystemOverview{
		Info: domain.SystemInfo{
			Name:              "node-1",
			ServerVersion:     "27.3.1",
			OperatingSystem:   "Debian GNU/Linux 12",
			KernelVersion:     "6.1.0",
			Architecture:      "x86_64",
			NCPU:              8,
			MemTotal:          16 << 30,
			Containers:        3,
			ContainersRunning: 2,
			ContainersStopped: 1,
			Images:            5,
			Driver:            "overlay2",
		},
		Disk: domain.DiskUsage{
			LayersSize: 3 << 30,
			Images:     []domain.DiskUsageImage{{ID: "sha256:a", Size: 1 << 30}, {ID: "sha256:b", Size: 512 << 20}},
			Containers: []domain.DiskUsageContainer{{ID: "c1", SizeRw: 1024}},
			Volumes:    []domain.DiskUsageVolume{{Name: "data", Size: 2048}, {Name: "unknown", Size: -1}},
		},
	}
}

func TestRunSystem(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		svc := mocks.NewMockConsoleService(t)
		svc.EXPECT().SystemOverview(mock.Anything).Return(testOverview(), nil)

		var out bytes.Buffer
		require.NoError(t, runSystem(context.Background(), svc, outputTable, &out))

		text := out.String()
		assert.Contains(t, text, "node-1")
		assert.Contains(t, text, "16 GB")
		assert.Contains(t, text, "3 (2 running, 0 paused, 1 stopped)")
		assert.Contains(t, text, "1.5 GB")
		assert.Contains(t, text, "2 KB")
	})

	t.Run("json", func(t *testing.T) {
		svc := mocks.NewMockConsoleService(t)
		svc.EXPECT().SystemOverview(mock.Anything).Return(testOverview(), nil)

		var out bytes.Buffer
		require.NoError(t, runSystem(context.Background(), svc, outputJSON, &out))

		var got systemView
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, "node-1", got.Info.Name)
		assert.Equal(t, 2, got.Disk.Images)
		assert.Equal(t, int64(1536<<20), got.Disk.ImagesSize)
		assert.Equal(t, int64(2048), got.Disk.VolumesSize)
	})
}

func TestSummarizeDisk_IgnoresUnknownVolumeSizes(t *testing.T) {
	got := summarizeDisk(domain.DiskUsage{Volumes: []domain.DiskUsageVolume{{Size: -1}, {Size: 10}}})
	assert.Equal(t, 2, got.Volumes)
	assert.Equal(t, int64(10), got.VolumesSize)
}
