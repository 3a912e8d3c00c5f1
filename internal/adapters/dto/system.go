package dto

// SystemInfoResponse is returned by GET /system/info.
type SystemInfoResponse struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	ServerVersion     string   `json:"serverVersion"`
	KernelVersion     string   `json:"kernelVersion"`
	OperatingSystem   string   `json:"operatingSystem"`
	Architecture      string   `json:"architecture"`
	NCPU              int      `json:"nCpu"`
	MemTotal          int64    `json:"memTotal"`
	Containers        int      `json:"containers"`
	ContainersRunning int      `json:"containersRunning"`
	ContainersPaused  int      `json:"containersPaused"`
	ContainersStopped int      `json:"containersStopped"`
	Images            int      `json:"images"`
	Driver            string   `json:"driver"`
	Labels            []string `json:"labels"`
}

// DiskUsageResponse is returned by GET /system/disk-usage.
type DiskUsageResponse struct {
	LayersSize int64                        `json:"layersSize"`
	Images     []DiskUsageImageResponse     `json:"images"`
	Containers []DiskUsageContainerResponse `json:"containers"`
	Volumes    []DiskUsageVolumeResponse    `json:"volumes"`
}

// DiskUsageImageResponse is one image of a disk usage report.
type DiskUsageImageResponse struct {
	ID         string   `json:"id"`
	RepoTags   []string `json:"repoTags"`
	Size       int64    `json:"size"`
	Containers int64    `json:"containers"`
}

// DiskUsageContainerResponse is one container of a disk usage report.
type DiskUsageContainerResponse struct {
	ID     string `json:"id"`
	Image  string `json:"image"`
	State  string `json:"state"`
	Status string `json:"status"`
	SizeRw int64  `json:"sizeRw"`
}

// DiskUsageVolumeResponse is one volume of a disk usage report.
type DiskUsageVolumeResponse struct {
	Name       string `json:"name"`
	Mountpoint string `json:"mountpoint"`
	Size       int64  `json:"size"`
}
