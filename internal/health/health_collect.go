package health

import (
	"context"
	"errors"
	"os"
	"runtime"
	"time"
)

// Collect returns a health snapshot for the current process. Status is
// "degraded" when a probed endpoint is unreachable.
func Collect(ctx context.Context, opts Options) Snapshot {
	opts = opts.normalize()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	s := Snapshot{
		Status: "healthy",
		Runtime: RuntimeInfo{
			Version:    runtime.Version(),
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			CPUs:       runtime.NumCPU(),
			Goroutines: runtime.NumGoroutine(),
		},
		Memory: MemoryInfo{
			AllocMB:      float64(mem.Alloc) / 1024 / 1024,
			TotalAllocMB: float64(mem.TotalAlloc) / 1024 / 1024,
			SysMB:        float64(mem.Sys) / 1024 / 1024,
			NumGC:        mem.NumGC,
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if opts.ConfigPath != "" {
		s.Config = &ConfigInfo{
			Path:       opts.ConfigPath,
			Exists:     inspectFile(opts.ConfigPath).Exists,
			SendPolicy: opts.SendPolicy,
		}
		if opts.LogFile != "" {
			s.Config.LogFile = inspectFile(opts.LogFile)
		}
	}

	if opts.Endpoint != "" {
		s.Endpoint = probeEndpoint(ctx, opts.Endpoint, opts.Probe, opts.DialTimeout)
		if s.Endpoint.Probed && !s.Endpoint.Reachable {
			s.Status = "degraded"
		}
	}

	return s
}

func inspectFile(path string) *FileInfo {
	info := &FileInfo{Path: path}
	stat, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			info.Error = err.Error()
		}
		return info
	}
	info.Exists = true
	info.SizeBytes = stat.Size()
	info.UpdatedAt = stat.ModTime().Format(time.RFC3339)
	return info
}
