package worker

import (
	"context"
	"log"
	"time"

	"catalog-service/internal/broker"
	"catalog-service/internal/models"
	"catalog-service/internal/util"

	"go.uber.org/zap"
)

// DocumentSource provides the full document set for the reindex sweep.
type DocumentSource interface {
	AllListingDocuments(ctx context.Context) ([]models.ListingDocument, error)
}

// Indexer writes listing documents into the search backend.
type Indexer interface {
	Index(ctx context.Context, doc models.ListingDocument) error
	Delete(ctx context.Context, slug string) error
}

// IndexWorker consumes the index event feed and applies it to the
// search backend. Index failures are logged and the offset committed
// anyway: the sweeper repairs any document the feed drops.
type IndexWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewIndexWorker creates a new index worker
func NewIndexWorker(consumer *broker.Consumer, indexer Indexer) *IndexWorker {
	logger := util.GetLogger()
	eventHandler := broker.NewEventHandler()

	eventHandler.OnListingIndex(func(ctx context.Context, event *models.ListingIndexEvent) error {
		if err := indexer.Index(ctx, event.Document); err != nil {
			logger.Error("Failed to index listing",
				zap.String("slug", event.Document.Slug), zap.Error(err))
		}
		return nil
	})
	eventHandler.OnListingDelete(func(ctx context.Context, event *models.ListingDeleteEvent) error {
		if err := indexer.Delete(ctx, event.Slug); err != nil {
			logger.Error("Failed to delete listing from index",
				zap.String("slug", event.Slug), zap.Error(err))
		}
		return nil
	})

	return &IndexWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		logger:       logger,
	}
}

// Start starts the worker
func (w *IndexWorker) Start(ctx context.Context) error {
	log.Println("Starting index worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *IndexWorker) Stop() error {
	log.Println("Stopping index worker...")
	return w.consumer.Close()
}

// ReindexSweeper periodically rebuilds the whole search index from the
// relational store. The live feed keeps the index fresh; the sweep
// makes it durable.
type ReindexSweeper struct {
	source   DocumentSource
	indexer  Indexer
	interval time.Duration
	logger   *zap.Logger
}

// NewReindexSweeper creates a new reindex sweeper
func NewReindexSweeper(source DocumentSource, indexer Indexer, interval time.Duration) *ReindexSweeper {
	return &ReindexSweeper{
		source:   source,
		indexer:  indexer,
		interval: interval,
		logger:   util.GetLogger(),
	}
}

// Start runs the sweep loop until the context is cancelled.
func (s *ReindexSweeper) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ReindexSweeper) sweep(ctx context.Context) {
	start := time.Now()

	docs, err := s.source.AllListingDocuments(ctx)
	if err != nil {
		s.logger.Error("Reindex sweep failed to load documents", zap.Error(err))
		return
	}

	var failed int
	for _, doc := range docs {
		if err := s.indexer.Index(ctx, doc); err != nil {
			failed++
			s.logger.Warn("Reindex sweep failed to index listing",
				zap.String("slug", doc.Slug), zap.Error(err))
		}
	}

	s.logger.Info("Reindex sweep completed",
		zap.Int("documents", len(docs)),
		zap.Int("failed", failed),
		zap.Duration("took", time.Since(start)))
}
