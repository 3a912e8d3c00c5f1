package cli

import (
	"time"

	"github.com/bnema/dockhand/internal/domain"
	"github.com/bnema/dockhand/internal/usecase/telemetry"
)

// Structured output shapes for -o json and -o yaml.

type sessionView struct {
	UserID    string     `json:"userId" yaml:"userId"`
	Email     string     `json:"email" yaml:"email"`
	Role      string     `json:"role" yaml:"role"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
}

func toSessionView(s domain.Session) sessionView {
	v := sessionView{UserID: s.UserID, Email: s.Email, Role: string(s.Role)}
	if !s.ExpiresAt.IsZero() {
		exp := s.ExpiresAt
		v.ExpiresAt = &exp
	}
	return v
}

type resourceView struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Image     string    `json:"image,omitempty" yaml:"image,omitempty"`
	State     string    `json:"state" yaml:"state"`
	Status    string    `json:"status,omitempty" yaml:"status,omitempty"`
	OwnerID   string    `json:"ownerId,omitempty" yaml:"ownerId,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

func toResourceView(r domain.Resource) resourceView {
	return resourceView{
		ID:        r.ID,
		Name:      r.Name,
		Image:     r.Image,
		State:     string(r.State),
		Status:    r.Status,
		OwnerID:   r.OwnerID,
		CreatedAt: r.CreatedAt,
	}
}

func toResourceViews(list []domain.Resource) []resourceView {
	views := make([]resourceView, len(list))
	for i, r := range list {
		views[i] = toResourceView(r)
	}
	return views
}

type userView struct {
	ID         string         `json:"id" yaml:"id"`
	Email      string         `json:"email" yaml:"email"`
	Role       string         `json:"role" yaml:"role"`
	CreatedAt  *time.Time     `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	Containers []resourceView `json:"containers,omitempty" yaml:"containers,omitempty"`
}

func toUserView(u domain.User) userView {
	v := userView{ID: u.ID, Email: u.Email, Role: string(u.Role)}
	if !u.CreatedAt.IsZero() {
		created := u.CreatedAt
		v.CreatedAt = &created
	}
	return v
}

type statsView struct {
	ContainerID    string    `json:"containerId" yaml:"containerId"`
	CPUPercent     float64   `json:"cpuPercent" yaml:"cpuPercent"`
	MemUsedBytes   int64     `json:"memUsedBytes" yaml:"memUsedBytes"`
	MemLimitBytes  int64     `json:"memLimitBytes" yaml:"memLimitBytes"`
	MemPercent     *float64  `json:"memPercent" yaml:"memPercent"`
	NetInputBytes  int64     `json:"netInputBytes" yaml:"netInputBytes"`
	NetOutputBytes int64     `json:"netOutputBytes" yaml:"netOutputBytes"`
	SampledAt      time.Time `json:"sampledAt" yaml:"sampledAt"`
}

func toStatsView(id string, s domain.StatsSample) statsView {
	v := statsView{
		ContainerID:    id,
		CPUPercent:     s.CPUPercent,
		MemUsedBytes:   s.MemUsedBytes,
		MemLimitBytes:  s.MemLimitBytes,
		NetInputBytes:  s.NetInputBytes,
		NetOutputBytes: s.NetOutputBytes,
		SampledAt:      s.SampledAt,
	}
	if p, ok := s.MemPercent(); ok {
		v.MemPercent = &p
	}
	return v
}

// statsLine renders one sample for table output.
func statsLine(s domain.StatsSample) string {
	return cliRenderMeta("CPU", telemetry.FormatCPU(s.CPUPercent)) + "  " +
		cliRenderMeta("MEM", telemetry.FormatMemory(s)+" ("+telemetry.FormatMemPercent(s)+")") + "  " +
		cliRenderMeta("NET I/O", telemetry.FormatNetwork(s))
}

type systemView struct {
	Info systemInfoView `json:"info" yaml:"info"`
	Disk diskUsageView  `json:"disk" yaml:"disk"`
}

type systemInfoView struct {
	Name              string   `json:"name" yaml:"name"`
	ServerVersion     string   `json:"serverVersion" yaml:"serverVersion"`
	OperatingSystem   string   `json:"operatingSystem" yaml:"operatingSystem"`
	KernelVersion     string   `json:"kernelVersion" yaml:"kernelVersion"`
	Architecture      string   `json:"architecture" yaml:"architecture"`
	NCPU              int      `json:"ncpu" yaml:"ncpu"`
	MemTotal          int64    `json:"memTotal" yaml:"memTotal"`
	Driver            string   `json:"driver" yaml:"driver"`
	Containers        int      `json:"containers" yaml:"containers"`
	ContainersRunning int      `json:"containersRunning" yaml:"containersRunning"`
	ContainersPaused  int      `json:"containersPaused" yaml:"containersPaused"`
	ContainersStopped int      `json:"containersStopped" yaml:"containersStopped"`
	Images            int      `json:"images" yaml:"images"`
	Labels            []string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

type diskUsageView struct {
	LayersSize     int64 `json:"layersSize" yaml:"layersSize"`
	Images         int   `json:"images" yaml:"images"`
	ImagesSize     int64 `json:"imagesSize" yaml:"imagesSize"`
	Containers     int   `json:"containers" yaml:"containers"`
	ContainersSize int64 `json:"containersSize" yaml:"containersSize"`
	Volumes        int   `json:"volumes" yaml:"volumes"`
	VolumesSize    int64 `json:"volumesSize" yaml:"volumesSize"`
}

func toSystemView(o domain.SystemOverview) systemView {
	info := o.Info
	return systemView{
		Info: systemInfoView{
			Name:              info.Name,
			ServerVersion:     info.ServerVersion,
			OperatingSystem:   info.OperatingSystem,
			KernelVersion:     info.KernelVersion,
			Architecture:      info.Architecture,
			NCPU:              info.NCPU,
			MemTotal:          info.MemTotal,
			Driver:            info.Driver,
			Containers:        info.Containers,
			ContainersRunning: info.ContainersRunning,
			ContainersPaused:  info.ContainersPaused,
			ContainersStopped: info.ContainersStopped,
			Images:            info.Images,
			Labels:            info.Labels,
		},
		Disk: summarizeDisk(o.Disk),
	}
}

func summarizeDisk(d domain.DiskUsage) diskUsageView {
	v := diskUsageView{
		LayersSize: d.LayersSize,
		Images:     len(d.Images),
		Containers: len(d.Containers),
		Volumes:    len(d.Volumes),
	}
	for _, img := range d.Images {
		v.ImagesSize += img.Size
	}
	for _, c := range d.Containers {
		v.ContainersSize += c.SizeRw
	}
	for _, vol := range d.Volumes {
		if vol.Size > 0 {
			v.VolumesSize += vol.Size
		}
	}
	return v
}
