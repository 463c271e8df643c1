package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cyphera/gator-permissions/internal/apperror"
	"github.com/cyphera/gator-permissions/internal/constants"
	"github.com/cyphera/gator-permissions/internal/delegation"
	"github.com/cyphera/gator-permissions/internal/interfaces"
	"github.com/cyphera/gator-permissions/internal/logger"
	"github.com/cyphera/gator-permissions/internal/metrics"
	"github.com/cyphera/gator-permissions/internal/storage"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// KeyFunc derives the storage key of a permission context
type KeyFunc func(permissionContext string) (string, error)

// PermissionStore keeps granted permissions in a StateStore, keyed by the object key of
// their context. Concurrent writers to the same key are not arbitrated: the last write wins.
type PermissionStore struct {
	state     storage.StateStore
	namespace string
	keyFunc   KeyFunc
	metrics   interfaces.ServiceMetrics
	now       func() time.Time
	validate  *validator.Validate
	logger    *zap.Logger
}

// PermissionStoreOption configures a PermissionStore
type PermissionStoreOption func(*PermissionStore)

// WithKeyFunc overrides how contexts map to storage keys
func WithKeyFunc(fn KeyFunc) PermissionStoreOption {
	return func(s *PermissionStore) {
		s.keyFunc = fn
	}
}

// WithStoreMetrics records write durations to m
func WithStoreMetrics(m interfaces.ServiceMetrics) PermissionStoreOption {
	return func(s *PermissionStore) {
		s.metrics = m
	}
}

// WithStoreClock sets the clock used when migrating legacy records
func WithStoreClock(now func() time.Time) PermissionStoreOption {
	return func(s *PermissionStore) {
		s.now = now
	}
}

// NewPermissionStore creates a new store over state
func NewPermissionStore(state storage.StateStore, opts ...PermissionStoreOption) *PermissionStore {
	s := &PermissionStore{
		state:     state,
		namespace: constants.GatorPermissionsNamespace,
		keyFunc:   delegation.ObjectKey,
		now:       time.Now,
		validate:  validator.New(),
		logger:    logger.Component("permission_store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAll lists the stored permissions passing filter. Records that fail to decode or
// validate are skipped.
func (s *PermissionStore) GetAll(ctx context.Context, filter types.PermissionFilter) ([]types.StoredGrantedPermission, error) {
	entries, err := s.state.GetAllItems(ctx, s.namespace)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindResourceUnavailable, err, "failed to list granted permissions")
	}

	out := make([]types.StoredGrantedPermission, 0, len(entries))
	for _, entry := range entries {
		record, err := s.decode(entry.Value)
		if err != nil {
			s.logger.Warn("Skipping invalid granted permission",
				zap.String("path", storage.Path(s.namespace, entry.Key)),
				zap.Error(err))
			continue
		}
		if filter.Matches(*record) {
			out = append(out, *record)
		}
	}
	return out, nil
}

// Get returns the permission stored for a context, or nil when there is none
func (s *PermissionStore) Get(ctx context.Context, permissionContext string) (*types.StoredGrantedPermission, error) {
	key, err := s.keyFunc(permissionContext)
	if err != nil {
		return nil, err
	}

	value, err := s.state.GetItem(ctx, s.namespace, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.KindResourceUnavailable, err, "failed to read granted permission")
	}

	return s.decode(value)
}

// Store persists a single record
func (s *PermissionStore) Store(ctx context.Context, record types.StoredGrantedPermission) error {
	return s.StoreBatch(ctx, []types.StoredGrantedPermission{record})
}

// StoreBatch validates every record, writes them all in one call and reads each key back.
// Nothing is written if any record is invalid.
func (s *PermissionStore) StoreBatch(ctx context.Context, records []types.StoredGrantedPermission) error {
	if len(records) == 0 {
		return nil
	}

	entries := make([]storage.Entry, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i := range records {
		record := records[i]
		record.IsRevoked = nil

		if err := s.validate.Struct(record); err != nil {
			return apperror.Wrap(apperror.KindInvalidInput, err, "invalid granted permission")
		}
		key, err := s.keyFunc(record.PermissionResponse.Context)
		if err != nil {
			return err
		}
		if _, ok := seen[key]; ok {
			return apperror.InvalidInput("duplicate permission context in batch")
		}
		seen[key] = struct{}{}

		value, err := json.Marshal(record)
		if err != nil {
			return apperror.Wrap(apperror.KindInternal, err, "failed to encode granted permission")
		}
		entries = append(entries, storage.Entry{Key: key, Value: value})
	}

	start := time.Now()
	if err := s.state.BatchSetItems(ctx, s.namespace, entries); err != nil {
		return apperror.Wrap(apperror.KindResourceUnavailable, err, "failed to write granted permissions")
	}
	s.observe(metrics.PhaseWrite, time.Since(start))

	for _, entry := range entries {
		stored, err := s.state.GetItem(ctx, s.namespace, entry.Key)
		if err != nil {
			return apperror.Wrap(apperror.KindInternal, err, "failed to verify write of "+storage.Path(s.namespace, entry.Key))
		}
		if !bytes.Equal(stored, entry.Value) {
			return apperror.Internal("write verification failed for %s", storage.Path(s.namespace, entry.Key))
		}
	}
	elapsed := time.Since(start)
	s.observe(metrics.PhaseWriteVerify, elapsed)

	s.logger.Debug("Stored granted permissions",
		zap.Int("count", len(entries)),
		zap.Duration("duration", elapsed))
	return nil
}

// MarkRevoked attaches revocation metadata to a stored permission
func (s *PermissionStore) MarkRevoked(ctx context.Context, permissionContext string, metadata types.RevocationMetadata) error {
	if err := s.validate.Struct(metadata); err != nil {
		return apperror.Wrap(apperror.KindInvalidInput, err, "invalid revocation metadata")
	}

	record, err := s.Get(ctx, permissionContext)
	if err != nil {
		return err
	}
	if record == nil {
		return apperror.InvalidInput("no granted permission for context")
	}
	if record.Revoked() {
		return apperror.InvalidInput("permission is already revoked")
	}

	record.RevocationMetadata = &metadata
	return s.Store(ctx, *record)
}

// decode parses and validates a stored value, migrating the legacy revocation flag
func (s *PermissionStore) decode(value []byte) (*types.StoredGrantedPermission, error) {
	var record types.StoredGrantedPermission
	if err := json.Unmarshal(value, &record); err != nil {
		return nil, apperror.Wrap(apperror.KindParseError, err, "failed to decode granted permission")
	}

	if record.IsRevoked != nil {
		if *record.IsRevoked && record.RevocationMetadata == nil {
			record.RevocationMetadata = &types.RevocationMetadata{RecordedAt: s.now().Unix()}
		}
		record.IsRevoked = nil
	}

	if err := s.validate.Struct(record); err != nil {
		return nil, apperror.Wrap(apperror.KindInvalidInput, err, "invalid granted permission")
	}
	return &record, nil
}

func (s *PermissionStore) observe(phase string, duration time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveStore(phase, duration)
	}
}
