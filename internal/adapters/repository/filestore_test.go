package repository_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hucklog/hucklog/internal/adapters/repository"
	"github.com/hucklog/hucklog/internal/domain/model"
	"github.com/hucklog/hucklog/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newStore(t *testing.T) *repository.FileStore {
	t.Helper()
	return repository.NewFileStore(filepath.Join(t.TempDir(), "messages.csv"))
}

func TestFileStoreMerge(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		store := newStore(t)

		Convey("When merging fresh records", func() {
			stats, err := store.Merge(ctx, []model.Message{
				{Text: "!throw 30", User: "U1", TS: "100"},
				{Text: "!gym", User: "U2", TS: "200", ThreadTS: "100"},
			})

			Convey("Then all records are inserted", func() {
				So(err, ShouldBeNil)
				So(stats, ShouldResemble, model.MergeStats{New: 2, Updated: 0, Final: 2})
			})

			Convey("And a read immediately after observes the merged state", func() {
				rows, err := store.List(ctx)
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 2)
				So(rows[0].Text, ShouldEqual, "!throw 30")
				So(rows[1].ThreadTS, ShouldEqual, "100")
			})
		})

		Convey("When merging a record without a ts key", func() {
			_, err := store.Merge(ctx, []model.Message{{Text: "x", User: "U1"}})

			Convey("Then the merge is rejected", func() {
				So(errors.Is(err, repository.ErrMissingKey), ShouldBeTrue)
			})
		})
	})

	Convey("Given a store with {ts1: a}", t, func() {
		ctx := context.Background()
		store := newStore(t)
		_, err := store.Merge(ctx, []model.Message{{Text: "a", User: "U1", TS: "ts1"}})
		So(err, ShouldBeNil)

		Convey("When merging {ts1: b, ts2: c}", func() {
			stats, err := store.Merge(ctx, []model.Message{
				{Text: "b", User: "U1", TS: "ts1"},
				{Text: "c", User: "U1", TS: "ts2"},
			})

			Convey("Then the edit wins and the new row is inserted", func() {
				So(err, ShouldBeNil)
				So(stats, ShouldResemble, model.MergeStats{New: 1, Updated: 1, Final: 2})

				rows, err := store.List(ctx)
				So(err, ShouldBeNil)
				So(rows[0].Text, ShouldEqual, "b")
				So(rows[1].Text, ShouldEqual, "c")
			})
		})

		Convey("When re-merging an already-merged set", func() {
			_, err := store.Merge(ctx, []model.Message{
				{Text: "b", User: "U1", TS: "ts1"},
				{Text: "c", User: "U1", TS: "ts2"},
			})
			So(err, ShouldBeNil)

			stats, err := store.Merge(ctx, []model.Message{
				{Text: "b", User: "U1", TS: "ts1"},
				{Text: "c", User: "U1", TS: "ts2"},
			})

			Convey("Then the merge is a no-op", func() {
				So(err, ShouldBeNil)
				So(stats, ShouldResemble, model.MergeStats{New: 0, Updated: 0, Final: 2})
			})
		})

		Convey("When merging an identical record", func() {
			stats, err := store.Merge(ctx, []model.Message{{Text: "a", User: "U1", TS: "ts1"}})

			Convey("Then nothing changes", func() {
				So(err, ShouldBeNil)
				So(stats, ShouldResemble, model.MergeStats{New: 0, Updated: 0, Final: 1})
			})
		})
	})
}

func TestFileStoreUnionSchema(t *testing.T) {
	Convey("Given a store with extra columns on disk", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		path := filepath.Join(dir, "messages.csv")
		csv := "text,user,ts,thread_ts,reactions\nhello,U1,100,,+1\n"
		So(os.WriteFile(path, []byte(csv), 0o644), ShouldBeNil)
		store := repository.NewFileStore(path)

		Convey("When merging records that do not know the column", func() {
			_, err := store.Merge(ctx, []model.Message{{Text: "!gym", User: "U2", TS: "200"}})
			So(err, ShouldBeNil)

			Convey("Then the extra column survives and new rows get the empty marker", func() {
				rows, err := store.List(ctx)
				So(err, ShouldBeNil)
				So(len(rows), ShouldEqual, 2)
				So(rows[0].Extra["reactions"], ShouldEqual, "+1")
				So(rows[1].Extra["reactions"], ShouldEqual, "")

				raw, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(strings.Contains(string(raw), "reactions"), ShouldBeTrue)
			})
		})

		Convey("When merging records with their own extra columns", func() {
			_, err := store.Merge(ctx, []model.Message{
				{Text: "!gym", User: "U2", TS: "200", Extra: map[string]string{"subtype": "thread_broadcast"}},
			})
			So(err, ShouldBeNil)

			Convey("Then the schema is the union of both sides", func() {
				raw, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				head := strings.SplitN(string(raw), "\n", 2)[0]
				So(head, ShouldEqual, "text,user,ts,thread_ts,reactions,subtype")
			})
		})
	})

	Convey("Given no file on disk", t, func() {
		ctx := context.Background()
		store := newStore(t)

		Convey("When listing", func() {
			rows, err := store.List(ctx)

			Convey("Then the store is empty", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldBeEmpty)

				n, err := store.Count(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a corrupt file on disk", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		path := filepath.Join(dir, "messages.csv")
		So(os.WriteFile(path, []byte("text,user\n\"unterminated\n"), 0o644), ShouldBeNil)
		store := repository.NewFileStore(path)

		Convey("When listing", func() {
			_, err := store.List(ctx)

			Convey("Then the corrupt-log sentinel surfaces", func() {
				So(errors.Is(err, repository.ErrCorruptLog), ShouldBeTrue)
			})
		})
	})
}
