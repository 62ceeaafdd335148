package compressing

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters updated by compressing writers.
// All counters are labelled by format name. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	ChunksFlushed    *prometheus.CounterVec
	RawBytes         *prometheus.CounterVec
	CompressedBytes  *prometheus.CounterVec
	BulkCopiedChunks *prometheus.CounterVec
	ReencodedDocs    *prometheus.CounterVec
}

// NewMetrics creates the codec metrics and registers them with reg
// unless reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ChunksFlushed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "compressing_chunks_flushed_total",
			Help: "Chunks compressed and written by compressing writers.",
		}, []string{"format"}),
		RawBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "compressing_raw_bytes_total",
			Help: "Uncompressed bytes handed to the compressor.",
		}, []string{"format"}),
		CompressedBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "compressing_compressed_bytes_total",
			Help: "Bytes written to data files for flushed chunks, headers included.",
		}, []string{"format"}),
		BulkCopiedChunks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "compressing_merge_bulk_copied_chunks_total",
			Help: "Chunks copied verbatim from a source segment during merges.",
		}, []string{"format"}),
		ReencodedDocs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "compressing_merge_reencoded_docs_total",
			Help: "Documents decoded and written again during merges.",
		}, []string{"format"}),
	}
	if reg != nil {
		reg.MustRegister(m.ChunksFlushed, m.RawBytes, m.CompressedBytes,
			m.BulkCopiedChunks, m.ReencodedDocs)
	}
	return m
}

func (m *Metrics) chunkFlushed(format string, raw int, written int64) {
	if m == nil {
		return
	}
	m.ChunksFlushed.WithLabelValues(format).Inc()
	m.RawBytes.WithLabelValues(format).Add(float64(raw))
	m.CompressedBytes.WithLabelValues(format).Add(float64(written))
}

func (m *Metrics) chunkCopied(format string) {
	if m == nil {
		return
	}
	m.BulkCopiedChunks.WithLabelValues(format).Inc()
}

func (m *Metrics) docReencoded(format string) {
	if m == nil {
		return
	}
	m.ReencodedDocs.WithLabelValues(format).Inc()
}
