package restclient

import (
	"time"

	"github.com/bnema/dockhand/internal/adapters/dto"
	"github.com/bnema/dockhand/internal/domain"
)

// timeLayouts are tried in order. The backend serializes LocalDateTime
// values without a zone; those are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseTime returns the zero time for empty or unparseable values.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func toUser(u dto.UserResponse) domain.User {
	return domain.User{
		ID:        u.ID,
		Email:     u.Email,
		Role:      domain.Role(u.Role),
		CreatedAt: parseTime(u.CreatedAt),
	}
}

func toResource(r dto.ContainerResponse) domain.Resource {
	return domain.Resource{
		ID:        r.ID,
		Name:      r.Name,
		Image:     r.Image,
		State:     domain.ParseResourceState(r.State),
		Status:    r.Status,
		OwnerID:   r.UserID,
		CreatedAt: parseTime(r.CreatedAt),
	}
}

func toSystemInfo(s dto.SystemInfoResponse) domain.SystemInfo {
	return domain.SystemInfo{
		ID:                s.ID,
		Name:              s.Name,
		ServerVersion:     s.ServerVersion,
		KernelVersion:     s.KernelVersion,
		OperatingSystem:   s.OperatingSystem,
		Architecture:      s.Architecture,
		NCPU:              s.NCPU,
		MemTotal:          s.MemTotal,
		Containers:        s.Containers,
		ContainersRunning: s.ContainersRunning,
		ContainersPaused:  s.ContainersPaused,
		ContainersStopped: s.ContainersStopped,
		Images:            s.Images,
		Driver:            s.Driver,
		Labels:            s.Labels,
	}
}

func toDiskUsage(d dto.DiskUsageResponse) domain.DiskUsage {
	usage := domain.DiskUsage{LayersSize: d.LayersSize}
	for _, img := range d.Images {
		usage.Images = append(usage.Images, domain.DiskUsageImage{
			ID:         img.ID,
			RepoTags:   img.RepoTags,
			Size:       img.Size,
			Containers: img.Containers,
		})
	}
	for _, c := range d.Containers {
		usage.Containers = append(usage.Containers, domain.DiskUsageContainer{
			ID:     c.ID,
			Image:  c.Image,
			State:  c.State,
			Status: c.Status,
			SizeRw: c.SizeRw,
		})
	}
	for _, v := range d.Volumes {
		usage.Volumes = append(usage.Volumes, domain.DiskUsageVolume{
			Name:       v.Name,
			Mountpoint: v.Mountpoint,
			Size:       v.Size,
		})
	}
	return usage
}
