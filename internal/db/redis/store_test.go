package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/campus-maps/vendmap/internal/db"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

// --- search.go tests ---

func TestSearchDocs_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	// WITHSCORES reply: [total, key, score, fields, ...]
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[1] == "vendmap:machines:idx"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisString("vendmap:machine:m-1"),
			mock.RedisString("1.5"),
			mock.RedisArray(
				mock.RedisString("machine_id"), mock.RedisString("m-1"),
				mock.RedisString("services"), mock.RedisString("snacks,drinks"),
			),
			mock.RedisString("vendmap:machine:m-2"),
			mock.RedisString("0.8"),
			mock.RedisArray(
				mock.RedisString("machine_id"), mock.RedisString("m-2"),
			),
		)))

	s := NewStoreForTest(c)
	res, err := s.SearchDocs(context.Background(), &db.DocQuery{
		IndexName: "vendmap:machines:idx",
		Size:      20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 2 {
		t.Errorf("Total = %d, want 2", res.Total)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(res.Entries))
	}
	if res.Entries[0].Key != "vendmap:machine:m-1" {
		t.Errorf("Key = %q", res.Entries[0].Key)
	}
	if res.Entries[0].Score != 1.5 {
		t.Errorf("Score = %f", res.Entries[0].Score)
	}
	if res.Entries[0].Fields["services"] != "snacks,drinks" {
		t.Errorf("Fields = %v", res.Entries[0].Fields)
	}
}

func TestSearchDocs_ZeroSizeKeepsTotal(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	// LIMIT 0 0: reply carries the count and no documents.
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(5))))

	s := NewStoreForTest(c)
	res, err := s.SearchDocs(context.Background(), &db.DocQuery{IndexName: "idx", Size: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 5 {
		t.Errorf("Total = %d, want 5", res.Total)
	}
	if len(res.Entries) != 0 {
		t.Errorf("len(Entries) = %d, want 0", len(res.Entries))
	}
}

func TestSearchDocs_TransportFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.SearchDocs(context.Background(), &db.DocQuery{IndexName: "idx", Size: 20})
	if !errors.Is(err, db.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if errors.Is(err, db.ErrRejected) {
		t.Fatal("transport failure must not classify as rejection")
	}
}

func TestSearchDocs_BackendRejection(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisError("Unknown field `bogus`")))

	s := NewStoreForTest(c)
	_, err := s.SearchDocs(context.Background(), &db.DocQuery{IndexName: "idx", Size: 20})
	if !errors.Is(err, db.ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	// The backend diagnostic travels with the error.
	if got := err.Error(); !contains(got, "Unknown field") {
		t.Errorf("error %q should carry backend diagnostic", got)
	}
}

func TestSearchDocs_RequiresIndexName(t *testing.T) {
	s := NewStoreForTest(nil)
	if _, err := s.SearchDocs(context.Background(), &db.DocQuery{}); err == nil {
		t.Fatal("expected error for missing index name")
	}
}

func TestSearchDocs_NegativePagination(t *testing.T) {
	s := NewStoreForTest(nil)
	_, err := s.SearchDocs(context.Background(), &db.DocQuery{IndexName: "idx", From: -1, Size: 10})
	if err == nil {
		t.Fatal("expected error for negative offset")
	}
}

func TestSearchDocs_SortByAddsSortArgs(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			for i, a := range cmd {
				if a == "SORTBY" {
					return i+2 < len(cmd) && cmd[i+1] == "store_name" && cmd[i+2] == "ASC"
				}
			}
			return false
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	_, err := s.SearchDocs(context.Background(), &db.DocQuery{
		IndexName: "idx",
		Size:      20,
		Sort:      &db.SortSpec{Field: "store_name"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- hash.go tests ---

func TestHSet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "HSET" && cmd[1] == "vendmap:machine:m-1"
		})).
		Return(mock.Result(mock.RedisInt64(2)))

	s := NewStoreForTest(c)
	err := s.HSet(context.Background(), "vendmap:machine:m-1", map[string]string{
		"machine_id": "m-1",
		"campus":     "North",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHSetMulti_Empty(t *testing.T) {
	s := NewStoreForTest(nil)
	if err := s.HSetMulti(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHSetMulti_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(1)),
			mock.Result(mock.RedisInt64(1)),
		})

	s := NewStoreForTest(c)
	err := s.HSetMulti(context.Background(), []db.HashSetItem{
		{Key: "k1", Fields: map[string]string{"f": "a"}},
		{Key: "k2", Fields: map[string]string{"f": "b"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- index.go tests ---

func TestCreateIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	def := db.NewIndex("idx").Tag("services").MustBuild()
	err := s.CreateIndex(context.Background(), def)
	if !errors.Is(err, db.ErrIndexExists) {
		t.Fatalf("expected ErrIndexExists, got %v", err)
	}
}

func TestIndexExists_Absent(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "idx")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	exists, err := s.IndexExists(context.Background(), "idx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected false")
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && containsIgnoreCase(s, substr)
}
