package upload

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/autoblogdata/autobot/engine/semantic"
	"github.com/autoblogdata/autobot/engine/store"
	"github.com/autoblogdata/autobot/pkg/metrics"
)

// Embedder turns a batch of texts into embedding vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorWriter is the slice of the vector store the uploader needs.
type VectorWriter interface {
	Upsert(ctx context.Context, records []semantic.VectorRecord) error
}

// Options tunes the uploader. Zero values fall back to defaults.
type Options struct {
	Workers   int
	ChunkSize int
	Overlap   int
	// EmbedsPerSecond caps embedding API calls. 0 disables the limit.
	EmbedsPerSecond float64
}

// Stats summarises one upload run.
type Stats struct {
	Articles int
	Launches int
	Chunks   int
	Failures int
}

// Uploader pushes pending documents into the vector store with a bounded
// worker pool.
type Uploader struct {
	store   *store.Store
	vectors VectorWriter
	embed   Embedder
	limiter *rate.Limiter
	log     *slog.Logger
	opts    Options
	now     func() time.Time

	uploaded *metrics.Counter
	failed   *metrics.Counter
}

// New creates an Uploader. reg may be nil.
func New(s *store.Store, vectors VectorWriter, embed Embedder, log *slog.Logger, reg *metrics.Registry, opts Options) *Uploader {
	if log == nil {
		log = slog.Default()
	}
	if reg == nil {
		reg = metrics.New()
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.Overlap < 0 {
		opts.Overlap = DefaultOverlap
	}
	var limiter *rate.Limiter
	if opts.EmbedsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.EmbedsPerSecond), 1)
	}
	return &Uploader{
		store:    s,
		vectors:  vectors,
		embed:    embed,
		limiter:  limiter,
		log:      log,
		opts:     opts,
		now:      time.Now,
		uploaded: reg.Counter("autobot_documents_uploaded_total", "Documents pushed to the vector store."),
		failed:   reg.Counter("autobot_document_upload_failures_total", "Documents that failed to upload."),
	}
}

type job struct {
	kind    semantic.DocKind
	docID   int64
	title   string
	content string
}

// Run uploads up to limit pending articles and launches (limit <= 0 means
// all). A document that fails is logged and retried on a later run.
func (u *Uploader) Run(ctx context.Context, limit int) (Stats, error) {
	var stats Stats

	articles, err := u.store.ArticlesToUpload(ctx, limit)
	if err != nil {
		return stats, fmt.Errorf("load articles to upload: %w", err)
	}
	launches, err := u.store.LaunchesToUpload(ctx, limit)
	if err != nil {
		return stats, fmt.Errorf("load launches to upload: %w", err)
	}

	jobs := make(chan job, len(articles)+len(launches))
	for _, a := range articles {
		jobs <- job{kind: semantic.KindArticle, docID: a.ID, title: a.Title, content: a.Content}
	}
	for _, l := range launches {
		jobs <- job{kind: semantic.KindLaunch, docID: l.ID, title: l.Title, content: l.Content}
	}
	close(jobs)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for w := 0; w < u.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if ctx.Err() != nil {
					return
				}
				chunks, err := u.uploadDoc(ctx, j)
				mu.Lock()
				if err != nil {
					stats.Failures++
					u.failed.Inc()
					u.log.Error("document upload failed",
						"kind", j.kind, "doc_id", j.docID, "error", err)
				} else {
					switch j.kind {
					case semantic.KindArticle:
						stats.Articles++
					case semantic.KindLaunch:
						stats.Launches++
					}
					stats.Chunks += chunks
					u.uploaded.Inc()
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	u.log.Info("upload run complete",
		"articles", stats.Articles,
		"launches", stats.Launches,
		"chunks", stats.Chunks,
		"failures", stats.Failures)
	return stats, ctx.Err()
}

func (u *Uploader) uploadDoc(ctx context.Context, j job) (int, error) {
	chunks := chunkText(j.title+"\n"+j.content, u.opts.ChunkSize, u.opts.Overlap)
	if len(chunks) > 0 {
		if u.limiter != nil {
			if err := u.limiter.Wait(ctx); err != nil {
				return 0, err
			}
		}
		embeddings, err := u.embed.Embed(ctx, chunks)
		if err != nil {
			return 0, fmt.Errorf("embed: %w", err)
		}
		if len(embeddings) != len(chunks) {
			return 0, fmt.Errorf("embed: got %d vectors for %d chunks", len(embeddings), len(chunks))
		}

		records := make([]semantic.VectorRecord, len(chunks))
		for i, text := range chunks {
			records[i] = semantic.VectorRecord{
				ID:        pointID(j.kind, j.docID, i),
				Embedding: embeddings[i],
				Kind:      j.kind,
				DocID:     j.docID,
				Title:     j.title,
				Content:   text,
				Chunk:     i,
			}
		}
		if err := u.vectors.Upsert(ctx, records); err != nil {
			return 0, fmt.Errorf("upsert: %w", err)
		}
	}

	now := u.now()
	var err error
	switch j.kind {
	case semantic.KindArticle:
		err = u.store.MarkArticleUploaded(ctx, j.docID, now)
	case semantic.KindLaunch:
		err = u.store.MarkLaunchUploaded(ctx, j.docID, now)
	}
	if err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// pointID derives a stable UUID per chunk so re-uploads overwrite instead of
// duplicating.
func pointID(kind semantic.DocKind, docID int64, chunk int) string {
	name := fmt.Sprintf("autobot://%s/%d#%d", kind, docID, chunk)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
