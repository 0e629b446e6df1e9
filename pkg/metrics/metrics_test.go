package metrics

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it registers its collectors there", func() {
				So(manager, ShouldNotBeNil)
				manager.resultsRecorded.WithLabelValues("W").Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When options carry empty values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "handicap")
				So(manager.subsystem, ShouldEqual, "league")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When results and adjustments are recorded", func() {
			before := testutil.ToFloat64(globalManager.adjustmentsTriggered.WithLabelValues("cut"))
			RecordResult("W")
			RecordResult("L")
			RecordUndo()
			RecordAdjustment("cut")
			RecordMatchResult()
			RecordAnnouncement()

			Convey("Then the counters move", func() {
				So(testutil.ToFloat64(globalManager.adjustmentsTriggered.WithLabelValues("cut")), ShouldEqual, before+1)
			})
		})

		Convey("When roster gauges are updated", func() {
			UpdateRoster(12, 140)

			Convey("Then the gauges hold the latest values", func() {
				So(testutil.ToFloat64(globalManager.rosterSize), ShouldEqual, 12)
				So(testutil.ToFloat64(globalManager.gamesRecorded), ShouldEqual, 140)
			})
		})

		Convey("When persistence and HTTP metrics are recorded", func() {
			So(func() {
				RecordPersistFailure("s3", "save")
				RecordPersistLatency("file", "load", 1.5)
				RecordDocumentReset()
				RecordHTTPRequest("/players", "GET", "200")
				RecordHTTPRequestDuration("/players", "GET", "200", 3)
				RecordErrorByEndpoint("/players", "PUT", "client_error")
				RecordAdminAuthFailure("bad_pin")
			}, ShouldNotPanic)
		})

		Convey("Then the registry is the custom one", func() {
			So(GetRegistry(), ShouldEqual, customRegistry)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					RecordResult("W")
					RecordHTTPRequest("/table", "GET", "200")
				}
			}()
		}
		wg.Wait()

		Convey("Then nothing races or panics", func() {
			So(testutil.ToFloat64(globalManager.resultsRecorded.WithLabelValues("W")), ShouldBeGreaterThanOrEqualTo, 800)
		})
	})
}
