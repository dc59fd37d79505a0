package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a custom registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("matching"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestRecordingHelpers(t *testing.T) {
	Convey("Given the package-level recording helpers", t, func() {
		Convey("Pipeline counters record without panicking", func() {
			So(func() {
				RecordMatchRequest()
				RecordCacheHit()
				RecordCacheMiss()
				RecordCacheInvalidation()
				RecordCandidatesScored(50)
				RecordScoringDuration(0.012)
			}, ShouldNotPanic)
		})

		Convey("Store health counters record without panicking", func() {
			So(func() {
				RecordStoreError()
				RecordFilteredFallback()
				RecordDegradedResponse()
				RecordStoreCallDuration(0.004)
			}, ShouldNotPanic)
		})

		Convey("HTTP metrics record without panicking", func() {
			So(func() {
				RecordHTTPRequest("matches", "GET", "200")
				RecordHTTPRequest("matches", "DELETE", "204")
				RecordHTTPRequestDuration("matches", "GET", 0.02)
			}, ShouldNotPanic)
		})

		Convey("Edge values are accepted", func() {
			So(func() {
				RecordCandidatesScored(0)
				RecordScoringDuration(0)
				RecordHTTPRequest("", "", "500")
			}, ShouldNotPanic)
		})
	})
}

func TestRecordingConcurrency(t *testing.T) {
	Convey("Concurrent recording does not race or panic", t, func() {
		done := make(chan bool, 8)
		for i := 0; i < 8; i++ {
			go func() {
				for j := 0; j < 100; j++ {
					RecordMatchRequest()
					RecordCandidatesScored(j)
					RecordHTTPRequest("matches", "GET", "200")
				}
				done <- true
			}()
		}
		for i := 0; i < 8; i++ {
			<-done
		}
		So(true, ShouldBeTrue)
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("The global registry is exposed for the scrape handler", t, func() {
		So(GetRegistry(), ShouldNotBeNil)

		families, err := GetRegistry().Gather()
		So(err, ShouldBeNil)
		So(len(families), ShouldBeGreaterThan, 0)
	})
}
