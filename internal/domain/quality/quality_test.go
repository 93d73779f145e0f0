package quality_test

import (
	"testing"

	"github.com/okian/swingiq/internal/domain/benchmark"
	"github.com/okian/swingiq/internal/domain/quality"
	"github.com/okian/swingiq/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func ptr(v float64) *float64 { return &v }

func TestFrontLegStability(t *testing.T) {
	Convey("Given a braced front side", t, func() {
		a := quality.ComputeFrontLegStability(ptr(152), ptr(12), ptr(11.5))

		Convey("Then every component is optimal and the swing is elite", func() {
			So(a.Kind, ShouldEqual, quality.KindFrontLeg)
			So(a.OverallScore, ShouldEqual, 100)
			So(a.OverallStatus, ShouldEqual, benchmark.TierElite)
			So(a.Assessed, ShouldEqual, 3)
			So(a.RecommendedDrill, ShouldBeEmpty)
			So(a.PredictedOutput, ShouldEqual, benchmark.Default().FrontLegBands[0].Label)
			So(a.Feedback, ShouldContainKey, quality.BottomLine)
			So(a.Feedback[quality.BottomLine], ShouldStartWith, "Front leg: ")
		})
	})

	Convey("Given no front-leg measurements", t, func() {
		a := quality.ComputeFrontLegStability(nil, nil, nil)

		Convey("Then the score is zero with no drill and N/A feedback", func() {
			So(a.OverallScore, ShouldEqual, 0)
			So(a.OverallStatus, ShouldEqual, benchmark.TierCritical)
			So(a.Assessed, ShouldEqual, 0)
			So(a.RecommendedDrill, ShouldBeEmpty)
			for _, c := range []string{benchmark.ComponentKnee, benchmark.ComponentAnkle, benchmark.ComponentDeceleration} {
				So(a.ComponentScores[c].Status, ShouldEqual, scoring.StatusNA)
				So(a.Feedback[c], ShouldStartWith, "Not assessed")
			}
		})
	})

	Convey("Given a missing knee angle", t, func() {
		a := quality.ComputeFrontLegStability(nil, ptr(12), ptr(11.5))

		Convey("Then the knee weight is lost and the drill skips the N/A component", func() {
			So(a.OverallScore, ShouldAlmostEqual, 60, 1e-9)
			So(a.OverallStatus, ShouldEqual, benchmark.TierBeginner)
			So(a.RecommendedDrill, ShouldEqual, quality.Drill(quality.KindFrontLeg, benchmark.ComponentAnkle))
		})
	})

	Convey("Given a collapsing front knee", t, func() {
		a := quality.ComputeFrontLegStability(ptr(100), ptr(12), ptr(11.5))

		Convey("Then the knee drill is recommended", func() {
			So(a.ComponentScores[benchmark.ComponentKnee].Status, ShouldEqual, scoring.StatusNeedsWork)
			So(a.OverallScore, ShouldBeLessThan, 90)
			So(a.RecommendedDrill, ShouldEqual, quality.Drill(quality.KindFrontLeg, benchmark.ComponentKnee))
		})
	})
}

func TestSwingMechanics(t *testing.T) {
	Convey("Given a scorer and optimal mechanics components", t, func() {
		s := scoring.New()
		direction := s.Direction(ptr(11))
		timing := s.Timing(ptr(3))
		efficiency := s.Efficiency(ptr(950), ptr(1200))

		Convey("When bat speed is not measured", func() {
			a := quality.ComputeSwingMechanicsQuality(direction, timing, efficiency, nil)

			Convey("Then the three-component weights apply", func() {
				So(a.OverallScore, ShouldEqual, 100)
				So(a.OverallStatus, ShouldEqual, benchmark.TierElite)
				So(len(a.Weights), ShouldEqual, 3)
				So(a.ComponentScores, ShouldNotContainKey, benchmark.ComponentBatSpeed)
			})
		})

		Convey("When bat speed sits at the floor", func() {
			a := quality.ComputeSwingMechanicsQuality(direction, timing, efficiency, ptr(45))

			Convey("Then the bat-speed weights apply and its drill is recommended", func() {
				So(len(a.Weights), ShouldEqual, 4)
				So(a.OverallScore, ShouldAlmostEqual, 85, 1e-9)
				So(a.OverallStatus, ShouldEqual, benchmark.TierGood)
				So(a.RecommendedDrill, ShouldEqual, quality.Drill(quality.KindSwingMechanics, benchmark.ComponentBatSpeed))
			})
		})

		Convey("When the attack angle fell back to the default", func() {
			a := quality.ComputeSwingMechanicsQuality(s.Direction(nil), timing, efficiency, nil)

			Convey("Then the default still scores but is reported as not assessed", func() {
				So(a.OverallScore, ShouldEqual, 100)
				So(a.Assessed, ShouldEqual, 2)
				So(a.ComponentScores[benchmark.ComponentDirection].Defaulted, ShouldBeTrue)
			})
		})

		Convey("When nothing was measured", func() {
			a := quality.ComputeSwingMechanicsQuality(s.Direction(nil), s.Timing(nil), s.Efficiency(nil, nil), nil)

			Convey("Then only the defaulted direction contributes", func() {
				So(a.Assessed, ShouldEqual, 0)
				So(a.OverallScore, ShouldAlmostEqual, 35, 1e-9)
				So(a.ComponentScores[benchmark.ComponentTiming].Value, ShouldEqual, 0)
				So(a.ComponentScores[benchmark.ComponentEfficiency].Value, ShouldEqual, 0)
			})
		})
	})
}

func TestWeightTransfer(t *testing.T) {
	Convey("Given a clean weight shift", t, func() {
		a := quality.ComputeWeightTransfer(ptr(2), ptr(120), ptr(80), ptr(6))

		Convey("Then it is elite", func() {
			So(a.OverallScore, ShouldEqual, 100)
			So(a.OverallStatus, ShouldEqual, benchmark.TierElite)
			So(a.PredictedOutput, ShouldEqual, "+4-6 mph exit velocity")
		})
	})

	Convey("Given a missing acceleration peak", t, func() {
		a := quality.ComputeWeightTransfer(ptr(2), ptr(120), ptr(80), nil)

		Convey("Then the tie among the rest resolves in weight order", func() {
			So(a.OverallScore, ShouldAlmostEqual, 85, 1e-9)
			So(a.OverallStatus, ShouldEqual, benchmark.TierGood)
			So(a.RecommendedDrill, ShouldEqual, quality.Drill(quality.KindWeightTransfer, benchmark.ComponentVertical))
		})
	})
}

func TestEngines_Invariants(t *testing.T) {
	Convey("Given the default engines", t, func() {
		e := quality.New()
		engines := []quality.Engine{
			e.MechanicsEngine(false),
			e.MechanicsEngine(true),
			e.FrontLegEngine(),
			e.WeightTransferEngine(),
		}

		Convey("Then every weight table sums to one", func() {
			for _, eng := range engines {
				So(eng.Weights.Sum(), ShouldAlmostEqual, 1, 1e-9)
			}
		})

		Convey("Then repeated computation is identical", func() {
			a := e.FrontLegStability(ptr(140), ptr(25), ptr(8))
			b := e.FrontLegStability(ptr(140), ptr(25), ptr(8))
			So(a, ShouldResemble, b)
		})

		Convey("Then overall scores are rounded to two decimals and bounded", func() {
			for knee := 100.0; knee <= 200; knee += 3.7 {
				a := e.FrontLegStability(ptr(knee), ptr(7), ptr(17))
				So(a.OverallScore, ShouldBeBetweenOrEqual, 0, 100)
				So(a.OverallScore*100, ShouldAlmostEqual, float64(int64(a.OverallScore*100+0.5)), 1e-6)
			}
		})
	})

	Convey("Given engines over overridden tables", t, func() {
		tables, err := benchmark.Default().Apply(map[string]benchmark.Override{
			benchmark.MetricKneeAngle: {OptimalMin: ptr(100), DevelopingMin: ptr(90)},
		})
		So(err, ShouldBeNil)
		e := quality.New(quality.WithScorer(scoring.New(scoring.WithTables(tables))))

		Convey("Then the overrides drive the assessment", func() {
			a := e.FrontLegStability(ptr(110), ptr(12), ptr(11.5))
			So(a.OverallScore, ShouldEqual, 100)
		})
	})
}
