package service

import (
	"context"
	"time"

	"meetsync/core/constants"
	"meetsync/core/errors"
	"meetsync/core/logger"
	"meetsync/core/sync"
	"meetsync/modules/availability/dto"
	"meetsync/modules/availability/entity"
)

// RefreshEnqueuer schedules an aggregation recompute after a successful write
type RefreshEnqueuer interface {
	EnqueueRefresh(ctx context.Context, scopeID, period string) error
}

// AvailabilityService routes record reads and mutations through the sync
// coordinator, so every operation works offline.
type AvailabilityService struct {
	sync    *sync.Coordinator
	refresh RefreshEnqueuer
}

// AvailabilityServiceInterface defines the service contract
type AvailabilityServiceInterface interface {
	GetRecord(ctx context.Context, scopeID, ownerID, period string) (*dto.AvailabilityResponse, *errors.AppError)
	SetSlot(ctx context.Context, scopeID, ownerID, period string, req *dto.SetSlotRequest) (*dto.AvailabilityResponse, *errors.AppError)
	SetRange(ctx context.Context, scopeID, ownerID, period string, req *dto.SetRangeRequest) (*dto.AvailabilityResponse, *errors.AppError)
	ResetPeriod(ctx context.Context, scopeID, ownerID, period string) *errors.AppError
	AvailableDates(ctx context.Context, scopeID, ownerID, period string) (*dto.AvailableDatesResponse, *errors.AppError)
	ListRecords(ctx context.Context, scopeID, period string) ([]entity.AvailabilityRecord, bool, *errors.AppError)
	Subscribe(ctx context.Context, scopeID string, onChange func([]entity.AvailabilityRecord)) (sync.UnsubscribeFunc, *errors.AppError)
}

// NewAvailabilityService creates a new availability service. refresh may be
// nil when no aggregation worker is wired.
func NewAvailabilityService(coordinator *sync.Coordinator, refresh RefreshEnqueuer) AvailabilityServiceInterface {
	return &AvailabilityService{
		sync:    coordinator,
		refresh: refresh,
	}
}

// GetRecord returns the owner's record for a scope/period, falling back to
// the cached copy when offline.
func (s *AvailabilityService) GetRecord(ctx context.Context, scopeID, ownerID, period string) (*dto.AvailabilityResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	record, fromCache, appErr := s.loadRecord(ctx, scopeID, ownerID, period)
	if appErr != nil {
		return nil, appErr
	}
	return dto.ToAvailabilityResponse(record, fromCache), nil
}

// SetSlot toggles one slot, creating the record on first use
func (s *AvailabilityService) SetSlot(ctx context.Context, scopeID, ownerID, period string, req *dto.SetSlotRequest) (*dto.AvailabilityResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	date, appErr := parseDate(req.Date)
	if appErr != nil {
		return nil, appErr
	}
	key, err := entity.NewSlotKey(date, req.Hour)
	if err != nil {
		return nil, asAppError(err)
	}

	record, appErr := s.loadOrCreate(ctx, scopeID, ownerID, period)
	if appErr != nil {
		return nil, appErr
	}

	record.SetSlot(key, req.Available)
	if appErr := s.writeRecord(ctx, record); appErr != nil {
		return nil, appErr
	}
	return dto.ToAvailabilityResponse(record, false), nil
}

// SetRange sets a batch of hours with a single UpdatedAt bump
func (s *AvailabilityService) SetRange(ctx context.Context, scopeID, ownerID, period string, req *dto.SetRangeRequest) (*dto.AvailabilityResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if len(req.Hours) == 0 {
		return nil, errors.NewValidationError("hours is required")
	}
	date, appErr := parseDate(req.Date)
	if appErr != nil {
		return nil, appErr
	}

	record, appErr := s.loadOrCreate(ctx, scopeID, ownerID, period)
	if appErr != nil {
		return nil, appErr
	}

	if err := record.SetRange(date, req.Hours, req.Available); err != nil {
		return nil, asAppError(err)
	}
	if appErr := s.writeRecord(ctx, record); appErr != nil {
		return nil, appErr
	}
	return dto.ToAvailabilityResponse(record, false), nil
}

// ResetPeriod clears every slot of the owner's record. The record itself is
// kept; a reset is still a response.
func (s *AvailabilityService) ResetPeriod(ctx context.Context, scopeID, ownerID, period string) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	record, _, appErr := s.loadRecord(ctx, scopeID, ownerID, period)
	if appErr != nil {
		return appErr
	}

	record.Clear()
	return s.writeRecord(ctx, record)
}

// AvailableDates lists the sorted distinct dates with at least one available
// slot.
func (s *AvailabilityService) AvailableDates(ctx context.Context, scopeID, ownerID, period string) (*dto.AvailableDatesResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	record, fromCache, appErr := s.loadRecord(ctx, scopeID, ownerID, period)
	if appErr != nil {
		return nil, appErr
	}

	dates := record.AvailableDates()
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format("2006-01-02"))
	}
	return &dto.AvailableDatesResponse{Dates: out, FromCache: fromCache}, nil
}

// ListRecords returns every record of a scope/period, for aggregation
func (s *AvailabilityService) ListRecords(ctx context.Context, scopeID, period string) ([]entity.AvailabilityRecord, bool, *errors.AppError) {
	result, err := s.sync.List(ctx, sync.ListRequest{
		Collection: constants.CollectionAvailability,
		LocalKey:   constants.StorageKeyMonthlyAvailability,
		IDField:    "recordId",
		Where: []sync.WhereClause{
			{Field: "scopeId", Op: sync.OpEqual, Value: scopeID},
			{Field: "period", Op: sync.OpEqual, Value: period},
		},
	})
	if err != nil {
		return nil, false, asAppError(err)
	}

	records := make([]entity.AvailabilityRecord, 0, len(result.Documents))
	for _, doc := range result.Documents {
		record, err := entity.FromJSON(doc.Data)
		if err != nil {
			logger.Warn("AvailabilityService:ListRecords:BadRecord", "doc_id", doc.ID, "error", err.Error())
			continue
		}
		records = append(records, *record)
	}
	return records, result.FromCache, nil
}

// Subscribe delivers the scope's full record set on every remote change
func (s *AvailabilityService) Subscribe(ctx context.Context, scopeID string, onChange func([]entity.AvailabilityRecord)) (sync.UnsubscribeFunc, *errors.AppError) {
	unsubscribe, err := s.sync.Subscribe(ctx, constants.CollectionAvailability, scopeID,
		constants.StorageKeyMonthlyAvailability, "recordId",
		func(docs []sync.Document) {
			records := make([]entity.AvailabilityRecord, 0, len(docs))
			for _, doc := range docs {
				record, err := entity.FromJSON(doc.Data)
				if err != nil {
					continue
				}
				records = append(records, *record)
			}
			onChange(records)
		})
	if err != nil {
		return nil, asAppError(err)
	}
	return unsubscribe, nil
}

func (s *AvailabilityService) loadRecord(ctx context.Context, scopeID, ownerID, period string) (*entity.AvailabilityRecord, bool, *errors.AppError) {
	result, err := s.sync.Read(ctx, sync.ReadRequest{
		Collection: constants.CollectionAvailability,
		DocID:      entity.RecordID(scopeID, ownerID, period),
		LocalKey:   constants.StorageKeyMonthlyAvailability,
		IDField:    "recordId",
	})
	if err != nil {
		return nil, false, asAppError(err)
	}

	record, err := entity.FromJSON(result.Data)
	if err != nil {
		return nil, false, asAppError(err)
	}
	return record, result.FromCache, nil
}

// loadOrCreate returns the existing record or a fresh one on first toggle
func (s *AvailabilityService) loadOrCreate(ctx context.Context, scopeID, ownerID, period string) (*entity.AvailabilityRecord, *errors.AppError) {
	record, _, appErr := s.loadRecord(ctx, scopeID, ownerID, period)
	if appErr == nil {
		return record, nil
	}
	if appErr.Code != errors.ErrNotFound {
		return nil, appErr
	}

	created, err := entity.NewRecordForPeriod(scopeID, ownerID, period)
	if err != nil {
		return nil, asAppError(err)
	}
	return created, nil
}

func (s *AvailabilityService) writeRecord(ctx context.Context, record *entity.AvailabilityRecord) *errors.AppError {
	data, err := record.ToJSON()
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to serialize record", err)
	}

	err = s.sync.Write(ctx, sync.WriteRequest{
		Collection: constants.CollectionAvailability,
		DocID:      record.RecordID,
		LocalKey:   constants.StorageKeyMonthlyAvailability,
		IDField:    "recordId",
		Data:       data,
	})
	if err != nil {
		return asAppError(err)
	}

	if s.refresh != nil {
		if err := s.refresh.EnqueueRefresh(ctx, record.ScopeID, record.Period); err != nil {
			// ranking refresh is best effort; readers recompute on demand
			logger.Warn("AvailabilityService:EnqueueRefresh", "scope_id", record.ScopeID, "error", err.Error())
		}
	}
	return nil
}

func parseDate(s string) (time.Time, *errors.AppError) {
	date, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, errors.NewValidationError("date must match YYYY-MM-DD")
	}
	return date, nil
}

func asAppError(err error) *errors.AppError {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}
	return errors.NewAppError(errors.ErrInternalServer, err.Error(), err)
}
