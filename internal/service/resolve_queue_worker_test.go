package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"actas/internal/domain"
	"actas/internal/service"
	"actas/mocks"
)

func TestResolveQueueWorker_DispatchesClaimedDocuments(t *testing.T) {
	docRepo := new(mocks.MockDocumentRepo)
	docService := new(mocks.MockDocumentService)

	doc := domain.Document{ID: uuid.New(), Status: domain.DocumentStatusResolving, ResolveAttempts: 0}

	dispatched := make(chan *domain.Document, 1)
	docRepo.On("ClaimQueued", mock.Anything, 2).
		Return([]domain.Document{doc}, nil).Once()
	docRepo.On("ClaimQueued", mock.Anything, mock.Anything).
		Return([]domain.Document{}, nil).Maybe()
	docService.On("ResolveDocument", mock.Anything, mock.AnythingOfType("*domain.Document"), 3).
		Run(func(args mock.Arguments) {
			dispatched <- args.Get(1).(*domain.Document)
		}).Return().Once()

	worker := service.NewResolveQueueWorker(docRepo, docService, service.ResolveQueueConfig{
		PollInterval: 10 * time.Millisecond,
		MaxRetries:   3,
		Concurrency:  2,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Start(ctx)
	}()

	select {
	case got := <-dispatched:
		assert.Equal(t, doc.ID, got.ID)
		// the worker owns the attempt counter
		assert.Equal(t, 1, got.ResolveAttempts)
	case <-time.After(2 * time.Second):
		t.Fatal("document was never dispatched")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not shut down")
	}

	docService.AssertExpectations(t)
}

func TestResolveQueueWorker_StopsOnCancel(t *testing.T) {
	docRepo := new(mocks.MockDocumentRepo)
	docService := new(mocks.MockDocumentService)

	docRepo.On("ClaimQueued", mock.Anything, mock.Anything).
		Return([]domain.Document{}, nil).Maybe()

	worker := service.NewResolveQueueWorker(docRepo, docService, service.ResolveQueueConfig{
		PollInterval: 5 * time.Millisecond,
		MaxRetries:   1,
		Concurrency:  1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Start(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not shut down")
	}

	docService.AssertNotCalled(t, "ResolveDocument")
}
