package model

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTalkerJSON(t *testing.T) {
	Convey("Given a talker", t, func() {
		fields := TalkerFields{Name: "Henrique Albuquerque", Age: 62, Talk: Talk{WatchedAt: "23/10/2020", Rate: 5}}
		talker := fields.WithID(1)

		Convey("When encoded", func() {
			b, err := json.Marshal(talker)
			So(err, ShouldBeNil)

			Convey("Then it uses the wire field names in id, name, age, talk order", func() {
				So(string(b), ShouldEqual,
					`{"id":1,"name":"Henrique Albuquerque","age":62,"talk":{"watchedAt":"23/10/2020","rate":5}}`)
			})
		})

		Convey("When WithID is applied to the same fields twice", func() {
			other := fields.WithID(7)

			Convey("Then only the id differs", func() {
				So(other.ID, ShouldEqual, 7)
				So(other.Name, ShouldEqual, talker.Name)
				So(other.Talk, ShouldResemble, talker.Talk)
			})
		})
	})
}
