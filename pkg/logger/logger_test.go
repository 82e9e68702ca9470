package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns a logger", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with console format", func() {
			So(Init(WithFormat("console")), ShouldBeNil)
			So(Get(), ShouldNotBeNil)
		})

		Convey("When initialized with an unknown format", func() {
			So(Init(WithFormat("xml")), ShouldNotBeNil)
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithOutput(&buf)), ShouldBeNil)
		So(SetLevelString("info"), ShouldBeNil)

		Convey("When logging with fields and a request id", func() {
			ctx := WithRequestID(context.Background(), "req-1")
			Named("api").Info(ctx, "created talker",
				Int("id", 3),
				String("name", "Ana"),
				Error(errors.New("boom")),
			)

			var entry map[string]interface{}
			So(json.Unmarshal(buf.Bytes(), &entry), ShouldBeNil)

			Convey("Then the entry carries every attribute", func() {
				So(entry["message"], ShouldEqual, "created talker")
				So(entry["level"], ShouldEqual, "info")
				So(entry["logger"], ShouldEqual, "api")
				So(entry["request_id"], ShouldEqual, "req-1")
				So(entry["id"], ShouldEqual, 3.0)
				So(entry["name"], ShouldEqual, "Ana")
				So(entry["error"], ShouldEqual, "boom")
				So(entry["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised above the message level", func() {
			So(SetLevelString("error"), ShouldBeNil)
			Get().Info(context.Background(), "hidden")
			Get().Debug(context.Background(), "hidden too")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When named loggers nest", func() {
			Named("app").Named("writer").Warn(context.Background(), "slow save")

			Convey("Then names are joined with dots", func() {
				So(strings.Contains(buf.String(), `"logger":"app.writer"`), ShouldBeTrue)
			})
		})

		Reset(func() { _ = SetLevelString("info") })
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		for _, lvl := range []string{"debug", "INFO", " warn ", "warning", "error", ""} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("verbose"), ShouldNotBeNil)
		_ = SetLevelString("info")
	})
}

func TestNop(t *testing.T) {
	Convey("Given a nop logger", t, func() {
		l := Nop()

		Convey("Then logging never panics", func() {
			So(func() {
				l.Info(context.Background(), "x", Any("k", []int{1}))
				l.Named("n").Error(context.Background(), "y")
			}, ShouldNotPanic)
		})
	})
}
