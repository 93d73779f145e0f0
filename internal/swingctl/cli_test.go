package swingctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands(t *testing.T) {
	convey.Convey("Given the swingctl command tree", t, func() {
		convey.Convey("When profiles are listed", func() {
			out, err := execute("profiles")

			convey.Convey("Then the catalogue is printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Freeman")
				convey.So(out, convey.ShouldContainSubstring, "Trout")
			})
		})

		convey.Convey("When the edge cases run", func() {
			out, err := execute("edge-cases")

			convey.Convey("Then they all pass", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Edge case: ")
				convey.So(out, convey.ShouldNotContainSubstring, "FAIL")
			})
		})

		convey.Convey("When the reference catalogue is validated", func() {
			out, err := execute("catalogue")

			convey.Convey("Then every profile validates", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "validation vs Betts  PASS")
			})
		})

		convey.Convey("When reference markers are validated", func() {
			out, err := execute("validate", "--profile", "freeman", "--load", "700", "--fire", "200", "--pelvis", "120")

			convey.Convey("Then the report passes", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "validation vs Freeman  PASS  score 100")
			})
		})

		convey.Convey("When markers are out of order", func() {
			out, err := execute("validate", "--profile", "Freeman", "--load", "200", "--fire", "700")

			convey.Convey("Then the command fails after printing the report", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(out, convey.ShouldContainSubstring, "FAIL")
			})
		})

		convey.Convey("When the profile is unknown", func() {
			_, err := execute("validate", "--profile", "Nobody", "--load", "700", "--fire", "200")

			convey.Convey("Then the command fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When record files are scored as JSON", func() {
			dir := t.TempDir()
			writeFile(t, dir, "a.yaml", `
athlete_id: a-1
metrics:
  knee_angle: 152
markers:
  load_start_ms: 700
  fire_start_ms: 200
`)
			writeFile(t, dir, "b.json", `{"analysis_id":"b","athlete_id":"a-2"}`)
			out, err := execute("score", filepath.Join(dir, "*"), "--json", "--profile", "Freeman")

			convey.Convey("Then one analysis per record is printed", func() {
				convey.So(err, convey.ShouldBeNil)
				var got []map[string]any
				convey.So(json.Unmarshal([]byte(out), &got), convey.ShouldBeNil)
				convey.So(got, convey.ShouldHaveLength, 2)
				convey.So(got[0]["analysis_id"], convey.ShouldEqual, filepath.Join(dir, "a.yaml"))
				convey.So(got[0]["profile"], convey.ShouldEqual, "Freeman")
				convey.So(got[0]["tempo_ratio"], convey.ShouldEqual, 2.5)
				convey.So(got[1]["analysis_id"], convey.ShouldEqual, "b")
			})
		})

		convey.Convey("When a record is missing its athlete", func() {
			dir := t.TempDir()
			writeFile(t, dir, "a.json", `{"analysis_id":"x"}`)
			_, err := execute("score", filepath.Join(dir, "*.json"))

			convey.Convey("Then scoring stops with the file name", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "a.json")
			})
		})

		convey.Convey("When records are submitted to a server", func() {
			var hits int64
			srv := fakeServer(&hits)
			defer srv.Close()

			dir := t.TempDir()
			writeFile(t, dir, "batch.json", `[{"analysis_id":"s1","athlete_id":"a"},{"analysis_id":"dup","athlete_id":"a"}]`)
			out, err := execute("submit", filepath.Join(dir, "*.json"), "--server", srv.URL)

			convey.Convey("Then the totals are printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(atomic.LoadInt64(&hits), convey.ShouldEqual, 2)
				convey.So(out, convey.ShouldContainSubstring, "submitted 2: 1 accepted, 1 duplicate, 0 failed")
			})
		})

		convey.Convey("When the server rejects a record", func() {
			var hits int64
			srv := fakeServer(&hits)
			defer srv.Close()

			dir := t.TempDir()
			writeFile(t, dir, "bad.json", `{"analysis_id":"bad","athlete_id":"a"}`)
			_, err := execute("submit", filepath.Join(dir, "*.json"), "--server", srv.URL)

			convey.Convey("Then the command reports ErrSubmitFailed", func() {
				convey.So(errors.Is(err, ErrSubmitFailed), convey.ShouldBeTrue)
			})
		})
	})
}
