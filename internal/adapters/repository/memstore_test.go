package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/okian/talker/internal/adapters/repository"
	"github.com/okian/talker/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryStore(t *testing.T) {
	Convey("Given a seeded memory store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(talker(1, "Ana Maria"))

		Convey("When a loaded slice is modified", func() {
			talkers, err := store.Load(ctx)
			So(err, ShouldBeNil)
			talkers[0].Name = "changed"

			Convey("Then the store is unaffected", func() {
				again, _ := store.Load(ctx)
				So(again[0].Name, ShouldEqual, "Ana Maria")
			})
		})

		Convey("When saving a new collection", func() {
			next := []model.Talker{talker(1, "Ana Maria"), talker(2, "Bia Souza")}
			So(store.Save(ctx, next), ShouldBeNil)
			next[1].Name = "changed"

			Convey("Then later loads return the saved copy", func() {
				talkers, _ := store.Load(ctx)
				So(len(talkers), ShouldEqual, 2)
				So(talkers[1].Name, ShouldEqual, "Bia Souza")
			})
		})

		Convey("When failures are injected", func() {
			boom := fmt.Errorf("%w: disk gone", repository.ErrStorage)
			store.FailWith(boom, boom)

			Convey("Then Load and Save report them", func() {
				_, err := store.Load(ctx)
				So(errors.Is(err, repository.ErrStorage), ShouldBeTrue)
				So(errors.Is(store.Save(ctx, nil), repository.ErrStorage), ShouldBeTrue)
			})

			Convey("And clearing them restores normal operation", func() {
				store.FailWith(nil, nil)
				_, err := store.Load(ctx)
				So(err, ShouldBeNil)
			})
		})

		Convey("When the store starts empty", func() {
			talkers, err := repository.NewMemoryStore().Load(ctx)

			Convey("Then Load returns an empty, non-nil slice", func() {
				So(err, ShouldBeNil)
				So(talkers, ShouldNotBeNil)
				So(len(talkers), ShouldEqual, 0)
			})
		})
	})
}

func TestFind(t *testing.T) {
	Convey("Given a talker collection", t, func() {
		talkers := []model.Talker{talker(1, "Ana Maria"), talker(3, "Caio Lima")}

		Convey("Then Find matches by id", func() {
			got, err := repository.Find(talkers, 3)
			So(err, ShouldBeNil)
			So(got.Name, ShouldEqual, "Caio Lima")
		})

		Convey("And unknown ids are not found", func() {
			_, err := repository.Find(talkers, 2)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}
