package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/settlement-reporting/internal/domain/run"
	"github.com/settlement-reporting/internal/domain/settlement"
	pipelinesvc "github.com/settlement-reporting/internal/report_pipeline/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockRunDispatcher struct {
	mock.Mock
}

func (m *MockRunDispatcher) Submit(ctx context.Context, request *pipelinesvc.RunRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) Create(ctx context.Context, record *run.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRunRepository) GetByRunID(ctx context.Context, runID uuid.UUID) (*run.Record, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*run.Record), args.Error(1)
}

func (m *MockRunRepository) ListByProcessingDate(ctx context.Context, processingDate time.Time, limit, offset int) ([]*run.Record, error) {
	args := m.Called(ctx, processingDate, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*run.Record), args.Error(1)
}

func TestReportService_SubmitRun(t *testing.T) {
	processingDate := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	t.Run("schedules a run and returns its ID", func(t *testing.T) {
		dispatcher := new(MockRunDispatcher)
		svc := NewReportService(newTestLogger(), dispatcher, new(MockRunRepository))

		dispatcher.On("Submit", mock.Anything, mock.MatchedBy(func(r *pipelinesvc.RunRequest) bool {
			return r.Program == settlement.ProgramStandard &&
				r.ProcessingDate.Equal(processingDate) &&
				r.CorrelationID == "corr-1" &&
				r.RunID != uuid.Nil
		})).Return(nil)

		runID, err := svc.SubmitRun(context.Background(), processingDate, settlement.ProgramStandard, "corr-1")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, runID)
		dispatcher.AssertExpectations(t)
	})

	t.Run("propagates unknown program errors", func(t *testing.T) {
		dispatcher := new(MockRunDispatcher)
		svc := NewReportService(newTestLogger(), dispatcher, new(MockRunRepository))

		dispatcher.On("Submit", mock.Anything, mock.Anything).
			Return(settlement.ErrUnknownProgram{Selector: "weekly"})

		_, err := svc.SubmitRun(context.Background(), processingDate, settlement.ProgramSelector("weekly"), "")
		assert.ErrorIs(t, err, settlement.ErrUnknownProgram{})
	})

	t.Run("propagates scheduling failures", func(t *testing.T) {
		dispatcher := new(MockRunDispatcher)
		svc := NewReportService(newTestLogger(), dispatcher, new(MockRunRepository))

		dispatcher.On("Submit", mock.Anything, mock.Anything).Return(errors.New("pool exhausted"))

		_, err := svc.SubmitRun(context.Background(), processingDate, settlement.ProgramStandard, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pool exhausted")
	})
}

func TestReportService_GetRun(t *testing.T) {
	t.Run("returns the audit record", func(t *testing.T) {
		runRepo := new(MockRunRepository)
		svc := NewReportService(newTestLogger(), new(MockRunDispatcher), runRepo)

		runID := uuid.New()
		record := &run.Record{RunID: runID, Outcome: run.OutcomeDone}
		runRepo.On("GetByRunID", mock.Anything, runID).Return(record, nil)

		got, err := svc.GetRun(context.Background(), runID)
		require.NoError(t, err)
		assert.Equal(t, record, got)
	})

	t.Run("passes through not found", func(t *testing.T) {
		runRepo := new(MockRunRepository)
		svc := NewReportService(newTestLogger(), new(MockRunDispatcher), runRepo)

		runID := uuid.New()
		runRepo.On("GetByRunID", mock.Anything, runID).Return(nil, run.ErrRunNotFound{RunID: runID})

		_, err := svc.GetRun(context.Background(), runID)
		assert.ErrorIs(t, err, run.ErrRunNotFound{})
	})
}

func TestReportService_ListRuns(t *testing.T) {
	processingDate := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	t.Run("translates pagination to limit and offset", func(t *testing.T) {
		runRepo := new(MockRunRepository)
		svc := NewReportService(newTestLogger(), new(MockRunDispatcher), runRepo)

		records := []*run.Record{{RunID: uuid.New(), Outcome: run.OutcomeDone}}
		runRepo.On("ListByProcessingDate", mock.Anything, processingDate, 20, 40).Return(records, nil)

		got, err := svc.ListRuns(context.Background(), processingDate, 3, 20)
		require.NoError(t, err)
		assert.Equal(t, records, got)
		runRepo.AssertExpectations(t)
	})

	t.Run("propagates repository failures", func(t *testing.T) {
		runRepo := new(MockRunRepository)
		svc := NewReportService(newTestLogger(), new(MockRunDispatcher), runRepo)

		runRepo.On("ListByProcessingDate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("mongo down"))

		_, err := svc.ListRuns(context.Background(), processingDate, 1, 20)
		assert.Error(t, err)
	})
}
