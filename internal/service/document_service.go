package service

import (
	"context"
	"errors"
	"fmt"

	"ai-qa-agent-be/internal/apperr"
	"ai-qa-agent-be/internal/dto"
	"ai-qa-agent-be/internal/pkg/logger"
	"ai-qa-agent-be/pkg/chunker"
	"ai-qa-agent-be/pkg/events"
	"ai-qa-agent-be/pkg/objectstore"
)

type IDocumentService interface {
	// Process loads a stored document, splits it and fans the chunks out to
	// the embedding queue. It returns as soon as the chunks are queued;
	// indexing completes asynchronously.
	Process(ctx context.Context, request *dto.ProcessDocumentRequest) (*dto.ProcessDocumentResponse, error)
}

type documentService struct {
	store          objectstore.Store
	splitter       *chunker.Chunker
	publisher      IPublisherService
	eventPublisher EventPublisher
	log            logger.ILogger
}

func NewDocumentService(
	store objectstore.Store,
	splitter *chunker.Chunker,
	publisher IPublisherService,
	eventPublisher EventPublisher,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		store:          store,
		splitter:       splitter,
		publisher:      publisher,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (ds *documentService) Process(ctx context.Context, request *dto.ProcessDocumentRequest) (*dto.ProcessDocumentResponse, error) {
	raw, err := ds.store.Get(ctx, request.DocumentKey)
	if err != nil {
		if errors.Is(err, objectstore.ErrObjectNotFound) {
			return nil, apperr.NotFound(fmt.Sprintf("document %s not found", request.DocumentKey))
		}
		return nil, apperr.Upstream("failed to load document", err)
	}

	chunks, err := ds.splitter.Split(request.DocumentKey, string(raw))
	if err != nil {
		if errors.Is(err, chunker.ErrEmptyInput) || errors.Is(err, chunker.ErrNoChunks) {
			return nil, apperr.Validation(fmt.Sprintf("document %s has no extractable text", request.DocumentKey))
		}
		return nil, apperr.Upstream("failed to split document", err)
	}

	result, err := ds.publisher.DispatchChunks(ctx, chunks)
	if err != nil {
		return nil, apperr.Upstream("failed to queue document chunks", err)
	}

	ds.log.Info("DocumentService", "Document queued for processing", map[string]interface{}{
		"documentKey":  request.DocumentKey,
		"totalChunks":  result.Total,
		"queuedChunks": result.Queued,
	})

	if ds.eventPublisher != nil {
		if err := ds.eventPublisher.Publish(ctx, events.DocumentQueued(request.DocumentKey, result.Total, result.Queued)); err != nil {
			ds.log.Warn("DocumentService", "Failed to publish document queued event", map[string]interface{}{
				"documentKey": request.DocumentKey,
				"error":       err.Error(),
			})
		}
	}

	return &dto.ProcessDocumentResponse{
		Message:      fmt.Sprintf("Queued %d of %d chunks for processing", result.Queued, result.Total),
		Status:       dto.StatusProcessing,
		DocumentKey:  request.DocumentKey,
		TotalChunks:  result.Total,
		QueuedChunks: result.Queued,
	}, nil
}
