// Package health builds a diagnostic snapshot of the widget process, its
// configuration files and the reachability of the chat endpoint.
package health

import "time"

const defaultDialTimeout = 3 * time.Second

// Options controls what Collect inspects.
type Options struct {
	ConfigPath string
	LogFile    string
	Endpoint   string
	SendPolicy string

	// Probe dials the endpoint host. No request is sent.
	Probe       bool
	DialTimeout time.Duration
}

func (o Options) normalize() Options {
	if o.DialTimeout <= 0 {
		o.DialTimeout = defaultDialTimeout
	}
	return o
}

// Snapshot is the result of Collect.
type Snapshot struct {
	Status    string        `json:"status" yaml:"status"`
	Runtime   RuntimeInfo   `json:"runtime" yaml:"runtime"`
	Memory    MemoryInfo    `json:"memory" yaml:"memory"`
	Config    *ConfigInfo   `json:"config,omitempty" yaml:"config,omitempty"`
	Endpoint  *EndpointInfo `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Timestamp string        `json:"timestamp" yaml:"timestamp"`
}

type RuntimeInfo struct {
	Version    string `json:"version" yaml:"version"`
	OS         string `json:"os" yaml:"os"`
	Arch       string `json:"arch" yaml:"arch"`
	CPUs       int    `json:"cpus" yaml:"cpus"`
	Goroutines int    `json:"goroutines" yaml:"goroutines"`
}

type MemoryInfo struct {
	AllocMB      float64 `json:"allocMB" yaml:"allocMB"`
	TotalAllocMB float64 `json:"totalAllocMB" yaml:"totalAllocMB"`
	SysMB        float64 `json:"sysMB" yaml:"sysMB"`
	NumGC        uint32  `json:"numGC" yaml:"numGC"`
}

// ConfigInfo describes the config and log files on disk.
type ConfigInfo struct {
	Path       string    `json:"path" yaml:"path"`
	Exists     bool      `json:"exists" yaml:"exists"`
	SendPolicy string    `json:"sendPolicy,omitempty" yaml:"sendPolicy,omitempty"`
	LogFile    *FileInfo `json:"logFile,omitempty" yaml:"logFile,omitempty"`
}

type FileInfo struct {
	Path      string `json:"path" yaml:"path"`
	Exists    bool   `json:"exists" yaml:"exists"`
	SizeBytes int64  `json:"sizeBytes,omitempty" yaml:"sizeBytes,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// EndpointInfo is the result of dialing the chat endpoint.
type EndpointInfo struct {
	URL       string `json:"url" yaml:"url"`
	Address   string `json:"address,omitempty" yaml:"address,omitempty"`
	Probed    bool   `json:"probed" yaml:"probed"`
	Reachable bool   `json:"reachable" yaml:"reachable"`
	LatencyMs int64  `json:"latencyMs,omitempty" yaml:"latencyMs,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}
