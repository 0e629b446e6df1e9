package repository_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/go-cmp/cmp"
	"github.com/okian/handicap/internal/adapters/repository"
	"github.com/okian/handicap/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleDocument() *model.Document {
	three, one := 3, 1
	created := time.Date(2025, 9, 4, 20, 0, 0, 0, time.UTC)
	doc := model.NewDocument()
	doc.Players = []model.Player{
		{Name: "Alice", StartHandicap: -14, Team: "East", Results: []model.Outcome{"W", "W", "W", "W"}, Adjustments: []model.Adjustment{{GameIndex: 3, Change: -7}}},
		{Name: "Bob", StartHandicap: 0, Team: "", Results: []model.Outcome{}, Adjustments: []model.Adjustment{}},
	}
	doc.Announcements = []model.Announcement{{ID: "a1", Message: "Alice handicap cut to -21", CreatedAt: created, ExpiresAt: created.Add(7 * 24 * time.Hour)}}
	doc.Announcement = "Season starts Thursday"
	doc.LeagueResults[1] = []model.MatchResult{{Home: "East", Away: "Shorts", HomeFrames: &three, AwayFrames: &one}, {Home: "Premier", Away: "QE2 A"}}
	return doc
}

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	getErr  error
	putErr  error
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	raw, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(raw))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return nil, f.putErr
	}
	raw, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = raw
	return &s3.PutObjectOutput{}, nil
}

func TestDecode(t *testing.T) {
	ctx := context.Background()

	Convey("Given stored bytes", t, func() {
		Convey("When they are empty or malformed", func() {
			for _, raw := range []string{"", "   ", "{not json", `{"players": 7}`} {
				doc := repository.Decode(ctx, nil, "test", []byte(raw))
				So(doc, ShouldResemble, model.NewDocument())
			}
		})

		Convey("When a player lacks newer fields", func() {
			doc := repository.Decode(ctx, nil, "test", []byte(`{"players":[{"name":"Ann","start_handicap":-7}]}`))

			Convey("Then defaults are filled", func() {
				So(doc.Players[0].Team, ShouldEqual, "")
				So(doc.Players[0].Results, ShouldResemble, []model.Outcome{})
				So(doc.Players[0].Adjustments, ShouldResemble, []model.Adjustment{})
				So(doc.LeagueResults, ShouldNotBeNil)
				So(doc.Announcements, ShouldNotBeNil)
			})
		})
	})
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a file store in a fresh directory", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "nested", "handicap.json")
		store := repository.NewFileStore(path)

		Convey("When nothing has been saved", func() {
			doc, err := store.Load(ctx)

			Convey("Then the default document is returned", func() {
				So(err, ShouldBeNil)
				So(doc, ShouldResemble, model.NewDocument())
			})
		})

		Convey("When a document is saved and loaded", func() {
			want := sampleDocument()
			So(store.Save(ctx, want), ShouldBeNil)
			got, err := store.Load(ctx)
			So(err, ShouldBeNil)

			Convey("Then it round trips", func() {
				So(cmp.Diff(want, got), ShouldBeEmpty)
			})

			Convey("Then no temp files are left and the file is private", func() {
				entries, err := os.ReadDir(filepath.Dir(path))
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 1)
				info, err := os.Stat(path)
				So(err, ShouldBeNil)
				So(info.Mode().Perm(), ShouldEqual, os.FileMode(0o600))
			})
		})

		Convey("When the file holds garbage", func() {
			So(os.MkdirAll(filepath.Dir(path), 0o755), ShouldBeNil)
			So(os.WriteFile(path, []byte("<<<"), 0o600), ShouldBeNil)
			doc, err := store.Load(ctx)

			Convey("Then the default document is returned", func() {
				So(err, ShouldBeNil)
				So(doc, ShouldResemble, model.NewDocument())
			})
		})

		Convey("When the path cannot be written", func() {
			blocker := filepath.Join(dir, "file")
			So(os.WriteFile(blocker, nil, 0o600), ShouldBeNil)
			bad := repository.NewFileStore(filepath.Join(blocker, "handicap.json"))

			Convey("Then save fails", func() {
				So(bad.Save(ctx, sampleDocument()), ShouldNotBeNil)
			})
		})
	})
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()

	Convey("Given an S3 store over a fake bucket", t, func() {
		client := newFakeS3()
		store := repository.NewS3StoreWithClient(client, "league", "handicap.json")
		So(store.Name(), ShouldEqual, "s3")

		Convey("When the object does not exist", func() {
			doc, err := store.Load(ctx)
			So(err, ShouldBeNil)
			So(doc, ShouldResemble, model.NewDocument())
		})

		Convey("When a document is saved and loaded", func() {
			want := sampleDocument()
			So(store.Save(ctx, want), ShouldBeNil)
			So(client.objects, ShouldContainKey, "league/handicap.json")
			got, err := store.Load(ctx)
			So(err, ShouldBeNil)
			So(cmp.Diff(want, got), ShouldBeEmpty)
		})

		Convey("When the bucket is unreachable", func() {
			client.getErr = errors.New("dial tcp: timeout")
			client.putErr = errors.New("dial tcp: timeout")

			_, err := store.Load(ctx)
			So(err, ShouldNotBeNil)
			So(store.Save(ctx, sampleDocument()), ShouldNotBeNil)
		})
	})

	Convey("Given incomplete S3 settings", t, func() {
		_, err := repository.NewS3Store(ctx, repository.S3Config{Bucket: "league"})
		So(err, ShouldNotBeNil)
	})
}

func TestFallbackStore(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	Convey("Given a primary and a secondary store", t, func() {
		primary := repository.NewMemoryStore("primary")
		secondary := repository.NewMemoryStore("secondary")
		store := repository.NewFallbackStore(primary, secondary)
		So(store.Name(), ShouldEqual, "primary+secondary")

		Convey("When the primary works", func() {
			So(store.Save(ctx, sampleDocument()), ShouldBeNil)

			Convey("Then only the primary is written", func() {
				So(primary.Saves(), ShouldEqual, 1)
				So(secondary.Saves(), ShouldEqual, 0)
			})
		})

		Convey("When the primary save fails", func() {
			primary.SetFailure(nil, boom)
			doc := sampleDocument()
			So(store.Save(ctx, doc), ShouldBeNil)

			Convey("Then the secondary holds the document and is read first", func() {
				So(secondary.Saves(), ShouldEqual, 1)
				got, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(cmp.Diff(doc, got), ShouldBeEmpty)
			})

			Convey("Then a later primary success restores the order", func() {
				primary.SetFailure(nil, nil)
				So(store.Save(ctx, model.NewDocument()), ShouldBeNil)
				got, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(got.Players, ShouldBeEmpty)
			})
		})

		Convey("When the primary load fails", func() {
			So(secondary.Save(ctx, sampleDocument()), ShouldBeNil)
			primary.SetFailure(boom, nil)
			got, err := store.Load(ctx)

			Convey("Then the secondary is read", func() {
				So(err, ShouldBeNil)
				So(len(got.Players), ShouldEqual, 2)
			})
		})

		Convey("When both fail", func() {
			primary.SetFailure(boom, boom)
			secondary.SetFailure(boom, boom)

			Convey("Then the sentinel kinds are reported", func() {
				So(errors.Is(store.Save(ctx, sampleDocument()), repository.ErrPersist), ShouldBeTrue)
				_, err := store.Load(ctx)
				So(errors.Is(err, repository.ErrLoad), ShouldBeTrue)
				So(errors.Is(err, boom), ShouldBeTrue)
			})
		})
	})
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a memory store with raw bytes", t, func() {
		store := repository.NewMemoryStore("")
		So(store.Name(), ShouldEqual, "memory")
		store.SetRaw([]byte(`{"players":[{"name":"Ann"}],"announcement":"hi"}`))

		doc, err := store.Load(context.Background())
		So(err, ShouldBeNil)
		So(doc.Players[0].Name, ShouldEqual, "Ann")
		So(doc.Announcement, ShouldEqual, "hi")
	})
}
