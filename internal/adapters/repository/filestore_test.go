package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/talker/internal/adapters/repository"
	"github.com/okian/talker/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func talker(id int, name string) model.Talker {
	return model.Talker{ID: id, Name: name, Age: 30, Talk: model.Talk{WatchedAt: "01/01/2020", Rate: 4}}
}

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "talker.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileStoreLoad(t *testing.T) {
	Convey("Given a file store", t, func() {
		ctx := context.Background()

		Convey("When the file holds talkers", func() {
			path := writeFile(t, `[
  {"id":1,"name":"Henrique Albuquerque","age":62,"talk":{"watchedAt":"23/10/2020","rate":5}},
  {"id":2,"name":"Heloísa Albuquerque","age":67,"talk":{"watchedAt":"23/10/2020","rate":5}}
]`)
			talkers, err := repository.NewFileStore(path).Load(ctx)

			Convey("Then they load in file order", func() {
				So(err, ShouldBeNil)
				So(len(talkers), ShouldEqual, 2)
				So(talkers[0].ID, ShouldEqual, 1)
				So(talkers[1].Name, ShouldEqual, "Heloísa Albuquerque")
				So(talkers[1].Talk.Rate, ShouldEqual, 5)
			})
		})

		Convey("When the file holds an empty array", func() {
			talkers, err := repository.NewFileStore(writeFile(t, `[]`)).Load(ctx)

			Convey("Then the result is empty but not nil", func() {
				So(err, ShouldBeNil)
				So(talkers, ShouldNotBeNil)
				So(len(talkers), ShouldEqual, 0)
			})
		})

		Convey("When the file is missing", func() {
			_, err := repository.NewFileStore(filepath.Join(t.TempDir(), "nope.json")).Load(ctx)

			Convey("Then it fails with a storage error", func() {
				So(errors.Is(err, repository.ErrStorage), ShouldBeTrue)
				So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
			})
		})

		Convey("When the file is malformed", func() {
			_, err := repository.NewFileStore(writeFile(t, `[{"id":`)).Load(ctx)

			Convey("Then it fails with a storage error", func() {
				So(errors.Is(err, repository.ErrStorage), ShouldBeTrue)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := repository.NewFileStore(writeFile(t, `[]`)).Load(cctx)

			Convey("Then the context error is returned", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestFileStoreSave(t *testing.T) {
	Convey("Given a file store over an existing file", t, func() {
		ctx := context.Background()
		path := writeFile(t, `[]`)
		store := repository.NewFileStore(path)

		Convey("When saving talkers", func() {
			err := store.Save(ctx, []model.Talker{talker(1, "Ana Maria"), talker(2, "João Silva")})
			So(err, ShouldBeNil)

			Convey("Then a reload returns them unchanged", func() {
				talkers, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(talkers, ShouldResemble, []model.Talker{talker(1, "Ana Maria"), talker(2, "João Silva")})
			})

			Convey("And the file is indented JSON without escaped unicode", func() {
				data, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, "\n  {\n")
				So(string(data), ShouldContainSubstring, "João Silva")
			})

			Convey("And no temp files are left behind", func() {
				entries, err := os.ReadDir(filepath.Dir(path))
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 1)
			})
		})

		Convey("When saving nil", func() {
			So(store.Save(ctx, nil), ShouldBeNil)

			Convey("Then the file holds an empty array", func() {
				data, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, "[]\n")
			})
		})

		Convey("When saving compact JSON", func() {
			compact := repository.NewFileStore(path, repository.WithIndent(""))
			So(compact.Save(ctx, []model.Talker{talker(1, "Ana Maria")}), ShouldBeNil)

			Convey("Then the file has a single line", func() {
				data, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual,
					`[{"id":1,"name":"Ana Maria","age":30,"talk":{"watchedAt":"01/01/2020","rate":4}}]`+"\n")
			})
		})

		Convey("When the target directory does not exist", func() {
			missing := repository.NewFileStore(filepath.Join(t.TempDir(), "no", "such", "talker.json"))
			err := missing.Save(ctx, []model.Talker{talker(1, "Ana Maria")})

			Convey("Then it fails with a storage error", func() {
				So(errors.Is(err, repository.ErrStorage), ShouldBeTrue)
			})
		})

		Convey("When a custom file mode is set", func() {
			s := repository.NewFileStore(path, repository.WithFileMode(0o600))
			So(s.Save(ctx, nil), ShouldBeNil)

			Convey("Then the file carries it", func() {
				info, err := os.Stat(path)
				So(err, ShouldBeNil)
				So(info.Mode().Perm(), ShouldEqual, os.FileMode(0o600))
				So(s.Path(), ShouldEqual, path)
			})
		})
	})
}
