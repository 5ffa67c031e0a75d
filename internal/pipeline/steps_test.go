package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/zotsearch/zotsearch/internal/database"
	"github.com/zotsearch/zotsearch/internal/index"
	"github.com/zotsearch/zotsearch/internal/model"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeCrawler returns a fixed result per seed.
type fakeCrawler struct {
	results map[string]*model.CrawlResult
	err     error
	seeds   []string
}

func (c *fakeCrawler) Crawl(_ context.Context, seedURL string, _ int) (*model.CrawlResult, error) {
	c.seeds = append(c.seeds, seedURL)
	if c.err != nil {
		return nil, c.err
	}
	if r, ok := c.results[seedURL]; ok {
		return r, nil
	}
	return model.NewCrawlResult(), nil
}

// fakeFetcher serves pages by URL and fails for unknown ones.
type fakeFetcher struct {
	pages   map[string]*model.Page
	fetched []string
}

func (f *fakeFetcher) Fetch(_ context.Context, pageURL string) (*model.Page, error) {
	f.fetched = append(f.fetched, pageURL)
	if page, ok := f.pages[pageURL]; ok {
		return page, nil
	}
	return nil, errors.New("not found")
}

func result(entries ...[3]string) *model.CrawlResult {
	r := model.NewCrawlResult()
	for _, e := range entries {
		r.Add(e[0], e[1], e[2])
	}
	return r
}

func setupBuilder(t *testing.T) (*index.Builder, *database.IndexDB) {
	t.Helper()

	db, err := database.Open(database.DefaultOptions(t.TempDir()))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return index.NewBuilder(db, index.WithBuilderLogger(discard)), db
}

// TestCrawlStep tests seed crawling and merging.
func TestCrawlStep(t *testing.T) {
	t.Parallel()

	t.Run("merges seeds with first seed winning", func(t *testing.T) {
		t.Parallel()

		c := &fakeCrawler{results: map[string]*model.CrawlResult{
			"https://en.wikipedia.org/wiki/Ant": result(
				[3]string{"Ant", "https://en.wikipedia.org/wiki/Ant", "ant text"},
				[3]string{"Insect", "https://en.wikipedia.org/wiki/Insect", "insect text"},
			),
			"https://en.wikipedia.org/wiki/Bee": result(
				[3]string{"Bee", "https://en.wikipedia.org/wiki/Bee", "bee text"},
				[3]string{"Insect", "https://en.wikipedia.org/wiki/Insects", "other text"},
			),
		}}

		run := &model.IndexRun{
			Seeds:  []string{"https://en.wikipedia.org/wiki/Ant", "https://en.wikipedia.org/wiki/Bee"},
			Height: 1,
		}
		if err := NewCrawlStep(c, discard).Do(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if run.Result.Len() != 3 {
			t.Errorf("expected 3 documents, got %d", run.Result.Len())
		}
		if got := run.Result.Documents["Insect"]; got != "https://en.wikipedia.org/wiki/Insect" {
			t.Errorf("expected first seed's url to win, got %q", got)
		}
		if !reflect.DeepEqual(c.seeds, run.Seeds) {
			t.Errorf("expected seeds crawled in order, got %v", c.seeds)
		}
	})

	t.Run("crawler error fails the step", func(t *testing.T) {
		t.Parallel()

		c := &fakeCrawler{err: errors.New("invalid seed")}
		run := &model.IndexRun{Seeds: []string{"not a url"}}

		if err := NewCrawlStep(c, discard).Do(context.Background(), run); !errors.Is(err, c.err) {
			t.Errorf("expected crawler error, got %v", err)
		}
	})

	t.Run("empty crawl is an error", func(t *testing.T) {
		t.Parallel()

		run := &model.IndexRun{Seeds: []string{"https://en.wikipedia.org/wiki/Nothing"}}
		if err := NewCrawlStep(&fakeCrawler{}, discard).Do(context.Background(), run); !errors.Is(err, ErrNoDocuments) {
			t.Errorf("expected ErrNoDocuments, got %v", err)
		}
	})
}

// TestFetchTextStep tests filling in missing texts.
func TestFetchTextStep(t *testing.T) {
	t.Parallel()

	t.Run("fetches only missing texts", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: map[string]*model.Page{
			"https://en.wikipedia.org/wiki/Mammal": {Title: "Mammal", Text: "Mammals have fur."},
		}}

		r := model.NewCrawlResult()
		r.Add("Ant", "https://en.wikipedia.org/wiki/Ant", "ant text")
		r.Documents["Mammal"] = "https://en.wikipedia.org/wiki/Mammal"
		r.Documents["Ghost"] = "https://en.wikipedia.org/wiki/Ghost"
		run := &model.IndexRun{Result: r}

		step := NewFetchTextStep(f, WithFetchDelay(0), WithFetchLogger(discard))
		if err := step.Do(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := r.Texts["Mammal"]; got != "Mammals have fur." {
			t.Errorf("expected fetched text, got %q", got)
		}
		if _, ok := r.Texts["Ghost"]; ok {
			t.Error("expected failed fetch to leave the text missing")
		}
		if r.Texts["Ant"] != "ant text" {
			t.Error("expected existing text to be kept")
		}
		want := []string{"https://en.wikipedia.org/wiki/Ghost", "https://en.wikipedia.org/wiki/Mammal"}
		if !reflect.DeepEqual(f.fetched, want) {
			t.Errorf("expected fetches %v, got %v", want, f.fetched)
		}
	})

	t.Run("cancelled context stops fetching", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := model.NewCrawlResult()
		r.Documents["Ant"] = "https://en.wikipedia.org/wiki/Ant"

		step := NewFetchTextStep(&fakeFetcher{}, WithFetchLogger(discard))
		if err := step.Do(ctx, &model.IndexRun{Result: r}); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("no documents", func(t *testing.T) {
		t.Parallel()

		step := NewFetchTextStep(&fakeFetcher{}, WithFetchDelay(0))
		if err := step.Do(context.Background(), &model.IndexRun{}); !errors.Is(err, ErrNoDocuments) {
			t.Errorf("expected ErrNoDocuments, got %v", err)
		}
	})
}

// TestBuildStep tests index writes from a run.
func TestBuildStep(t *testing.T) {
	t.Parallel()

	builder, db := setupBuilder(t)
	run := &model.IndexRun{Result: result(
		[3]string{"Ant", "https://en.wikipedia.org/wiki/Ant", "The ant eats ants."},
	)}

	if err := NewBuildStep(builder).Do(context.Background(), run); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Indexed != 1 || run.NewDocuments != 1 || run.Postings != 4 {
		t.Errorf("unexpected run counters %+v", run)
	}

	count, err := db.DocumentCount(context.Background())
	if err != nil {
		t.Fatalf("failed to count documents: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 document, got %d", count)
	}
}

// TestNewIndexPipeline tests the standard pipeline end to end.
func TestNewIndexPipeline(t *testing.T) {
	t.Parallel()

	t.Run("crawl then build", func(t *testing.T) {
		t.Parallel()

		builder, db := setupBuilder(t)
		c := &fakeCrawler{results: map[string]*model.CrawlResult{
			"https://en.wikipedia.org/wiki/Anteater": result(
				[3]string{"Anteater", "https://en.wikipedia.org/wiki/Anteater", "anteaters eat ants"},
				[3]string{"Ant", "https://en.wikipedia.org/wiki/Ant", "ants"},
				[3]string{"Mammal", "https://en.wikipedia.org/wiki/Mammal", "fur"},
			),
		}}
		f := &fakeFetcher{}

		p := NewIndexPipeline(c, NewFetchTextStep(f, WithFetchDelay(0)), builder, WithLogger(discard))
		if want := []string{"crawl", "fetch_text", "build_index"}; !reflect.DeepEqual(p.StepNames(), want) {
			t.Fatalf("expected steps %v, got %v", want, p.StepNames())
		}

		run := &model.IndexRun{Seeds: []string{"https://en.wikipedia.org/wiki/Anteater"}, Height: 1}
		if err := p.Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.fetched) != 0 {
			t.Errorf("expected no extra fetches after a crawl, got %v", f.fetched)
		}

		postings, err := db.PostingsForTerm(context.Background(), "ants")
		if err != nil {
			t.Fatalf("failed to read postings: %v", err)
		}
		if len(postings) != 2 {
			t.Errorf("expected 2 postings for ants, got %v", postings)
		}
	})

	t.Run("without crawler starts at fetch", func(t *testing.T) {
		t.Parallel()

		builder, _ := setupBuilder(t)
		p := NewIndexPipeline(nil, NewFetchTextStep(&fakeFetcher{}), builder)
		if want := []string{"fetch_text", "build_index"}; !reflect.DeepEqual(p.StepNames(), want) {
			t.Errorf("expected steps %v, got %v", want, p.StepNames())
		}
	})
}
