package services

import (
	"context"
	"time"

	"github.com/cyphera/gator-permissions/internal/apperror"
	"github.com/cyphera/gator-permissions/internal/client/chain"
	"github.com/cyphera/gator-permissions/internal/client/retry"
	"github.com/cyphera/gator-permissions/internal/delegation"
	"github.com/cyphera/gator-permissions/internal/interfaces"
	"github.com/cyphera/gator-permissions/internal/logger"
	"github.com/cyphera/gator-permissions/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// RevocationOutcomeRevoked is recorded for a committed revocation
const RevocationOutcomeRevoked = "revoked"

// RevocationService only records a revocation once the chain shows the delegation disabled
type RevocationService struct {
	store         interfaces.PermissionStore
	reader        interfaces.ChainReader
	providers     interfaces.ProviderSource
	metrics       interfaces.ServiceMetrics
	retry         *retry.Options
	verifyReceipt bool
	now           func() time.Time
	validate      *validator.Validate
	logger        *zap.Logger
}

// RevocationOption configures a RevocationService
type RevocationOption func(*RevocationService)

// WithReceiptVerification also requires a successful receipt for the supplied transaction hash
func WithReceiptVerification(enabled bool) RevocationOption {
	return func(s *RevocationService) {
		s.verifyReceipt = enabled
	}
}

// WithRevocationMetrics counts revocation outcomes
func WithRevocationMetrics(m interfaces.ServiceMetrics) RevocationOption {
	return func(s *RevocationService) {
		s.metrics = m
	}
}

// WithRevocationRetry sets the retry policy of the chain reads
func WithRevocationRetry(opts *retry.Options) RevocationOption {
	return func(s *RevocationService) {
		s.retry = opts
	}
}

// WithRevocationClock sets the clock stamped on revocation metadata
func WithRevocationClock(now func() time.Time) RevocationOption {
	return func(s *RevocationService) {
		s.now = now
	}
}

// NewRevocationService creates a new revocation verifier
func NewRevocationService(store interfaces.PermissionStore, reader interfaces.ChainReader, providers interfaces.ProviderSource, opts ...RevocationOption) *RevocationService {
	s := &RevocationService{
		store:     store,
		reader:    reader,
		providers: providers,
		now:       time.Now,
		validate:  validator.New(),
		logger:    logger.Component("revocation_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitRevocation marks a stored permission revoked after confirming on-chain that its
// delegation is disabled. The store is not touched unless every check passes.
func (s *RevocationService) SubmitRevocation(ctx context.Context, params types.RevocationParams) error {
	err := s.submit(ctx, params)
	s.record(err)
	return err
}

func (s *RevocationService) submit(ctx context.Context, params types.RevocationParams) error {
	if err := s.validate.Struct(params); err != nil {
		return apperror.Wrap(apperror.KindInvalidInput, err, "invalid revocation request")
	}

	record, err := s.store.Get(ctx, params.PermissionContext)
	if err != nil {
		return err
	}
	if record == nil {
		return apperror.InvalidInput("no granted permission for context")
	}

	chainID, err := chain.ParseChainID(record.PermissionResponse.ChainID)
	if err != nil {
		return apperror.Wrap(apperror.KindInvalidInput, err, "stored permission has an invalid chain id")
	}
	manager := record.PermissionResponse.SignerMeta.DelegationManager
	if manager == "" {
		return apperror.InvalidInput("stored permission has no delegation manager")
	}
	if !common.IsHexAddress(manager) {
		return apperror.InvalidInput("stored permission has an invalid delegation manager %q", manager)
	}

	d, err := delegation.Single(params.PermissionContext)
	if err != nil {
		return err
	}

	provider := s.providers.NewProvider()
	disabled, err := s.reader.IsDelegationDisabled(ctx, chain.DelegationDisabledParams{
		Provider:          provider,
		ChainID:           chainID,
		DelegationManager: common.HexToAddress(manager),
		DelegationHash:    delegation.Hash(*d),
		Retry:             s.retry,
	})
	if err != nil {
		return err
	}
	if !disabled {
		return apperror.InvalidInput("delegation not disabled on-chain")
	}

	if s.verifyReceipt && params.TxHash != "" {
		receipt, err := s.reader.GetTransactionReceipt(ctx, chain.ReceiptParams{
			Provider: provider,
			TxHash:   common.HexToHash(params.TxHash),
			Retry:    s.retry,
		})
		if err != nil {
			return err
		}
		if !receipt.Succeeded() {
			return apperror.InvalidInput("revocation transaction %s did not succeed", params.TxHash)
		}
	}

	if err := s.store.MarkRevoked(ctx, params.PermissionContext, types.RevocationMetadata{
		TxHash:     params.TxHash,
		RecordedAt: s.now().Unix(),
	}); err != nil {
		return err
	}

	s.logger.Info("Permission revoked",
		zap.Uint64("chain_id", chainID),
		zap.String("delegation_manager", manager),
		zap.String("tx_hash", params.TxHash))
	return nil
}

func (s *RevocationService) record(err error) {
	if s.metrics == nil {
		return
	}
	if err == nil {
		s.metrics.RecordRevocation(RevocationOutcomeRevoked)
		return
	}
	outcome := string(apperror.KindOf(err))
	if outcome == "" {
		outcome = "unclassified"
	}
	s.metrics.RecordRevocation(outcome)
}
