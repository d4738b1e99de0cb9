package main

import (
	"fmt"
	"net/http"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"
)

type DebugInfo struct {
	Name     string
	Value    any
	Children []DebugInfo
}

func (server *Server) debugHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := MustLoadCommonData(ctx)
	logger := LogCtx(ctx)

	var procMem runtime.MemStats
	runtime.ReadMemStats(&procMem)

	machine := []DebugInfo{
		{Name: "NumCPU", Value: runtime.NumCPU()},
	}
	if avg, err := load.Avg(); err != nil {
		logger.Warn("getting machine load", zap.Error(err))
	} else {
		machine = append(machine, DebugInfo{Name: "Load avg (1m, 5m, 15m)", Value: fmt.Sprintf("%.2f, %.2f, %.2f", avg.Load1, avg.Load5, avg.Load15)})
	}
	if h, err := host.Info(); err != nil {
		logger.Warn("getting machine info", zap.Error(err))
	} else {
		machine = append(machine,
			DebugInfo{Name: "Hostname", Value: h.Hostname},
			DebugInfo{Name: "Platform", Value: h.Platform + " " + h.PlatformVersion},
			DebugInfo{Name: "Booted", Value: time.Unix(int64(h.BootTime), 0).Format(recordDateFormat)},
		)
	}
	if vm, err := mem.VirtualMemory(); err != nil {
		logger.Warn("getting machine memory", zap.Error(err))
	} else {
		machine = append(machine,
			DebugInfo{Name: "Memory total (MB)", Value: toMB(vm.Total)},
			DebugInfo{Name: "Memory available (MB)", Value: toMB(vm.Available)},
			DebugInfo{Name: "Memory used (%)", Value: fmt.Sprintf("%.1f", vm.UsedPercent)},
		)
	}

	buildInfo := []DebugInfo{}
	if info, ok := debug.ReadBuildInfo(); ok {
		buildInfo = append(buildInfo, DebugInfo{Name: "Go", Value: info.GoVersion})
		for _, setting := range info.Settings {
			buildInfo = append(buildInfo, DebugInfo{Name: setting.Key, Value: setting.Value})
		}
	}

	info := []DebugInfo{
		{
			Name:     "Machine",
			Children: machine,
		},
		{
			Name: "Process",
			Children: []DebugInfo{
				{Name: "Goroutines", Value: runtime.NumGoroutine()},
				{Name: "Started", Value: server.Runtime.TimeStarted.Format(recordDateFormat)},
				{Name: "Uptime", Value: time.Since(server.Runtime.TimeStarted).Round(time.Second).String()},
				{Name: "Alloc MB", Value: toMB(procMem.Alloc)},
				{Name: "Total MB", Value: toMB(procMem.Sys)},
			},
		},
		{
			Name: "App",
			Children: []DebugInfo{
				{Name: "Build key", Value: server.BuildKey},
				{Name: "Identity provider", Value: server.Auth.Provider().Name()},
				{Name: "Mocked", Value: server.Auth.IsMocked()},
				{Name: "Google sign-in", Value: server.OAuthConfig != nil},
				{Name: "Sessions with history", Value: server.History.Sessions()},
			},
		},
		{
			Name:     "Build",
			Children: buildInfo,
		},
	}

	_ = DebugPage(data, info).Render(ctx, w)
}

func toMB(v uint64) string {
	return fmt.Sprintf("%.0f", float64(v)/1024/1024)
}
