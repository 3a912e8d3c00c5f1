package domain

// SystemInfo describes the container host.
type SystemInfo struct {
	ID                string
	Name              string
	ServerVersion     string
	KernelVersion     string
	OperatingSystem   string
	Architecture      string
	NCPU              int
	MemTotal          int64
	Containers        int
	ContainersRunning int
	ContainersPaused  int
	ContainersStopped int
	Images            int
	Driver            string
	Labels            []string
}

// DiskUsage summarizes the storage consumed on the container host.
type DiskUsage struct {
	LayersSize int64
	Images     []DiskUsageImage
	Containers []DiskUsageContainer
	Volumes    []DiskUsageVolume
}

// DiskUsageImage is one image entry of a disk usage report.
type DiskUsageImage struct {
	ID         string
	RepoTags   []string
	Size       int64
	Containers int64
}

// DiskUsageContainer is one container entry of a disk usage report.
type DiskUsageContainer struct {
	ID     string
	Image  string
	State  string
	Status string
	SizeRw int64
}

// DiskUsageVolume is one volume entry of a disk usage report.
type DiskUsageVolume struct {
	Name       string
	Mountpoint string
	Size       int64
}

// SystemOverview combines host information and disk usage.
type SystemOverview struct {
	Info SystemInfo
	Disk DiskUsage
}
