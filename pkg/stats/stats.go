package stats

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const (
	BYTE = 1 << (10 * iota)
	KILOBYTE
	MEGABYTE
	GIGABYTE
	TERABYTE
)

// toGigabytes returns given memory in bytes to gigabytes.
func toGigabytes(bytes uint64) float64 {
	return float64(bytes) / GIGABYTE
}

// PrintMemoryStatistics prints memory statistics using go runtime library.
func PrintMemoryStatistics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	log.Infof(
		"Total allocated: %.3fGB, Heap allocated: %.3fGB, "+
			"Allocated objects count: %v, Freed objects count: %v",
		toGigabytes(memStats.TotalAlloc),
		toGigabytes(memStats.HeapAlloc),
		memStats.Mallocs,
		memStats.Frees,
	)
}

// PrintNumOfRoutines prints number of go routines currently running
func PrintNumOfRoutines() {
	log.Infof("Num of go routines: %v", runtime.NumGoroutine())
}

// LogMetrics logs one line for every sample of the metrics gathered from g
// whose name starts with prefix.
func LogMetrics(g prometheus.Gatherer, prefix string) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}

	for _, family := range families {
		if !strings.HasPrefix(family.GetName(), prefix) {
			continue
		}
		for _, m := range family.GetMetric() {
			fields := log.Fields{}
			for _, label := range m.GetLabel() {
				fields[label.GetName()] = label.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				fields["value"] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				fields["value"] = m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				fields["count"] = m.GetHistogram().GetSampleCount()
				fields["sum"] = m.GetHistogram().GetSampleSum()
			}
			log.WithFields(fields).Info(family.GetName())
		}
	}
	return nil
}

// DumpMetrics appends the metrics gathered from g to the file at path.
func DumpMetrics(g prometheus.Gatherer, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModeDir|0755); err != nil {
		return err
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	families, err := g.Gather()
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(file)
	for _, v := range families {
		if _, err := writer.WriteString(v.String() + "\n"); err != nil {
			return err
		}
	}
	return writer.Flush()
}
