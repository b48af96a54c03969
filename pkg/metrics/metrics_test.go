package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording ingestion metrics", func() {
			Convey("Then it should not panic", func() {
				So(func() {
					RecordMessagesFetched(42)
					RecordThreadExpanded()
					RecordMerge(3, 1, 120)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording quality and transport metrics", func() {
			Convey("Then it should not panic", func() {
				So(func() {
					RecordParseSkip()
					RecordTransportError("fetch")
					RecordPostSent("text")
					RecordPostSent("image")
				}, ShouldNotPanic)
			})
		})

		Convey("When recording directory and pass metrics", func() {
			Convey("Then it should not panic", func() {
				So(func() {
					RecordDirectoryRefresh()
					RecordAvatarFailure()
					RecordPassDuration(1.5)
				}, ShouldNotPanic)
			})
		})

		Convey("When reading the registry", func() {
			Convey("Then it should expose the custom registry", func() {
				So(GetRegistry(), ShouldNotBeNil)
			})
		})
	})
}
