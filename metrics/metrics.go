package metrics

import (
	"github.com/achilleasa/sbvh/bvh"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	kindLabel   = "kind"
	reasonLabel = "reason"
)

// BuildMetrics collects BVH build statistics into a dedicated prometheus
// registry.
type BuildMetrics struct {
	registry *prometheus.Registry

	builds        prometheus.Counter
	triangles     prometheus.Counter
	references    prometheus.Counter
	interiorNodes prometheus.Counter
	leaves        *prometheus.CounterVec
	splits        *prometheus.CounterVec
	refDecisions  *prometheus.CounterVec
	tasks         prometheus.Counter
	chunks        *prometheus.CounterVec
	maxDepth      prometheus.Gauge
	maxLeafSize   prometheus.Gauge
	buildLatency  prometheus.Histogram
}

// Create a new set of build metrics.
func New() *BuildMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &BuildMetrics{
		registry: reg,

		builds: factory.NewCounter(prometheus.CounterOpts{
			Name: "bvh_builds_total",
			Help: "The number of completed BVH builds.",
		}),
		triangles: factory.NewCounter(prometheus.CounterOpts{
			Name: "bvh_triangles_total",
			Help: "The number of input triangles.",
		}),
		references: factory.NewCounter(prometheus.CounterOpts{
			Name: "bvh_leaf_references_total",
			Help: "The number of triangle references stored in leaves.",
		}),
		interiorNodes: factory.NewCounter(prometheus.CounterOpts{
			Name: "bvh_interior_nodes_total",
			Help: "The number of interior nodes.",
		}),
		leaves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bvh_leaves_total",
			Help: "The number of leaves by the reason they were created.",
		}, []string{
			reasonLabel,
		}),
		splits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bvh_splits_total",
			Help: "The number of node splits by split kind.",
		}, []string{
			kindLabel,
		}),
		refDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bvh_straddling_references_total",
			Help: "The number of references straddling a spatial split plane by outcome.",
		}, []string{
			kindLabel,
		}),
		tasks: factory.NewCounter(prometheus.CounterOpts{
			Name: "bvh_tasks_total",
			Help: "The number of subtree build tasks.",
		}),
		chunks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bvh_chunks_total",
			Help: "The number of allocated result chunks.",
		}, []string{
			kindLabel,
		}),
		maxDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bvh_max_depth",
			Help: "The max leaf depth of the last build.",
		}),
		maxLeafSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bvh_max_leaf_size",
			Help: "The max leaf size of the last build.",
		}),
		buildLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bvh_build_seconds",
			Help:    "The time to build a BVH.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

// Record the statistics of a completed build.
func (m *BuildMetrics) ObserveBuild(stats bvh.Stats) {
	m.builds.Inc()
	m.triangles.Add(float64(stats.Triangles))
	m.references.Add(float64(stats.References))
	m.interiorNodes.Add(float64(stats.InteriorNodes))

	m.leaves.With(prometheus.Labels{reasonLabel: "threshold"}).Add(float64(stats.ThresholdLeaves))
	m.leaves.With(prometheus.Labels{reasonLabel: "sah"}).Add(float64(stats.SAHLeaves))
	m.leaves.With(prometheus.Labels{reasonLabel: "depth"}).Add(float64(stats.DepthLeaves))

	m.splits.With(prometheus.Labels{kindLabel: "object"}).Add(float64(stats.ObjectSplits))
	m.splits.With(prometheus.Labels{kindLabel: "spatial"}).Add(float64(stats.SpatialSplits))
	m.splits.With(prometheus.Labels{kindLabel: "arbitrary"}).Add(float64(stats.ArbitrarySplits))

	m.refDecisions.With(prometheus.Labels{kindLabel: "clipped"}).Add(float64(stats.ClippedReferences))
	m.refDecisions.With(prometheus.Labels{kindLabel: "unsplit"}).Add(float64(stats.UnsplitReferences))

	m.tasks.Add(float64(stats.Tasks))
	m.chunks.With(prometheus.Labels{kindLabel: "node"}).Add(float64(stats.NodeChunks))
	m.chunks.With(prometheus.Labels{kindLabel: "leaf"}).Add(float64(stats.LeafChunks))

	m.maxDepth.Set(float64(stats.MaxDepth))
	m.maxLeafSize.Set(float64(stats.MaxLeafSize))
	m.buildLatency.Observe(stats.BuildTime.Seconds())
}

// Get the registry holding the build metrics.
func (m *BuildMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Write the collected metrics to a file using the prometheus text format so
// it can be picked up by the node exporter textfile collector.
func (m *BuildMetrics) WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, m.registry)
}
