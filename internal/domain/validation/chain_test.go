package validation

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestChain(t *testing.T) {
	Convey("Given a chain of three rules", t, func() {
		var evaluated []string
		rule := func(name string, reject bool) Rule[int] {
			return Rule[int]{Name: name, Status: 400, Message: name + " failed", Reject: func(int) bool {
				evaluated = append(evaluated, name)
				return reject
			}}
		}

		Convey("When every rule accepts", func() {
			c := NewChain("demo", rule("a", false), rule("b", false), rule("c", false))

			Convey("Then Validate returns nil after running all of them in order", func() {
				So(c.Validate(0), ShouldBeNil)
				So(evaluated, ShouldResemble, []string{"a", "b", "c"})
			})
		})

		Convey("When the middle rule rejects", func() {
			c := NewChain("demo", rule("a", false), rule("b", true), rule("c", true))
			f := c.Validate(0)

			Convey("Then it short-circuits with the middle rule's failure", func() {
				So(f, ShouldNotBeNil)
				So(f.Chain, ShouldEqual, "demo")
				So(f.Rule, ShouldEqual, "b")
				So(f.Status, ShouldEqual, 400)
				So(f.Error(), ShouldEqual, "b failed")
				So(evaluated, ShouldResemble, []string{"a", "b"})
			})
		})

		Convey("When listing rule names", func() {
			c := NewChain("demo", rule("x", false), rule("y", false))
			So(c.Name(), ShouldEqual, "demo")
			So(c.RuleNames(), ShouldResemble, []string{"x", "y"})
		})
	})
}
