package collection_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/centraunit/headless/collection"
	"github.com/centraunit/headless/mock"
	"github.com/stretchr/testify/suite"
)

type product struct {
	ID   string
	Name string
}

type CollectionTestSuite struct {
	suite.Suite
}

func (s *CollectionTestSuite) TestPreSuppliedItemsSkipRemote() {
	fetcher := &mock.Fetcher[product]{}
	svc := collection.New(collection.Config[product]{
		Fetcher: fetcher,
		Items:   []product{},
	})

	s.False(svc.Loading().Get())
	s.Empty(svc.ErrorMessage().Get())
	s.NotNil(svc.Items().Get())
	s.Empty(svc.Items().Get())
	s.Equal(int32(0), fetcher.AllCalls.Load(), "pre-supplied data must not trigger a fetch")
}

func (s *CollectionTestSuite) TestLoadWithoutFetcherReportsError() {
	svc := collection.New(collection.Config[product]{
		Items: []product{{ID: "1", Name: "seeded"}},
	})

	svc.Load(context.Background())
	s.Equal("no fetcher configured", svc.ErrorMessage().Get())
	s.False(svc.Loading().Get())
	s.Equal("seeded", svc.Items().Get()[0].Name, "seeded data survives the rejected load")

	svc.LoadOne(context.Background(), "1")
	s.Equal("no fetcher configured", svc.ErrorMessage().Get())
	s.False(svc.Loading().Get())
}

func (s *CollectionTestSuite) TestLoadOne() {
	fetcher := mock.NewGatedFetcher[product]()
	fetcher.Script("abc", product{ID: "abc", Name: "X"}, nil)

	svc := collection.New(collection.Config[product]{Fetcher: fetcher, ID: "abc"})
	s.False(svc.Loading().Get(), "construction must not start a load")

	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.LoadOne(context.Background(), "")
	}()

	id := <-fetcher.Entered
	s.Equal("abc", id, "empty id should fall back to the configured one")
	s.True(svc.Loading().Get(), "loading flag is raised before the remote call resolves")

	close(fetcher.Release)
	<-done

	s.False(svc.Loading().Get())
	s.Empty(svc.ErrorMessage().Get())
	s.Equal("X", svc.Data().Get().Name)
}

func (s *CollectionTestSuite) TestLoadFailureKeepsData() {
	fetcher := &mock.Fetcher[product]{
		AllFunc: func(ctx context.Context) ([]product, error) {
			return nil, fmt.Errorf("boom")
		},
	}
	svc := collection.New(collection.Config[product]{
		Fetcher: fetcher,
		Items:   []product{{ID: "1", Name: "kept"}},
	})

	svc.Load(context.Background())

	s.False(svc.Loading().Get())
	s.Equal("boom", svc.ErrorMessage().Get())
	s.Equal("kept", svc.Items().Get()[0].Name, "failed load must not clobber existing data")
}

func (s *CollectionTestSuite) TestRetryClearsErrorBeforePublishing() {
	var fail bool
	fetcher := &mock.Fetcher[product]{
		AllFunc: func(ctx context.Context) ([]product, error) {
			if fail {
				return nil, fmt.Errorf("boom")
			}
			return []product{{ID: "1", Name: "fresh"}}, nil
		},
	}
	svc := collection.New(collection.Config[product]{Fetcher: fetcher})

	fail = true
	svc.Load(context.Background())
	s.Equal("boom", svc.ErrorMessage().Get())

	var errAtPublish string
	svc.Items().Subscribe(func([]product) {
		errAtPublish = svc.ErrorMessage().Get()
	})

	fail = false
	svc.Load(context.Background())
	s.Empty(errAtPublish, "error signal must be cleared before success data lands")
	s.Empty(svc.ErrorMessage().Get())
	s.Equal("fresh", svc.Items().Get()[0].Name)
}

func (s *CollectionTestSuite) TestStaleLoadIsDiscarded() {
	fetcher := mock.NewGatedFetcher[product]()
	fetcher.Script("old", product{ID: "old", Name: "stale"}, nil)
	fetcher.Script("new", product{ID: "new", Name: "current"}, nil)

	svc := collection.New(collection.Config[product]{Fetcher: fetcher})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		svc.LoadOne(context.Background(), "old")
	}()
	<-fetcher.Entered

	go func() {
		defer wg.Done()
		svc.LoadOne(context.Background(), "new")
	}()
	<-fetcher.Entered

	close(fetcher.Release)
	wg.Wait()

	s.Equal("current", svc.Data().Get().Name,
		"the superseded load must not overwrite the newer result")
	s.Empty(svc.ErrorMessage().Get())
}

func (s *CollectionTestSuite) TestCancelledLoadIsNotAnError() {
	fetcher := mock.NewGatedFetcher[product]()
	svc := collection.New(collection.Config[product]{Fetcher: fetcher})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.LoadOne(ctx, "abc")
	}()
	<-fetcher.Entered

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		s.FailNow("cancelled load did not return")
	}

	s.False(svc.Loading().Get())
	s.Empty(svc.ErrorMessage().Get(), "cancellation is not a user-visible failure")
}

func TestCollectionSuite(t *testing.T) {
	suite.Run(t, new(CollectionTestSuite))
}
