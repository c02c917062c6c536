package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"storepay/internal/application/payment/gateway"
	"storepay/internal/domain/order"
	vo "storepay/internal/domain/order/valueobjects"
	"storepay/internal/shared/biztime"
	apperrors "storepay/internal/shared/errors"
	"storepay/internal/shared/keylock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memOrderRepo is a stateful in-memory ledger. Each read hydrates a fresh
// aggregate from the stored snapshot, the way a real repository would, so
// sequential redeliveries observe each other's writes.
type memOrderRepo struct {
	mu      sync.Mutex
	nextID  uint
	states  map[string]vo.OrderState
	totals  map[string]vo.Money
	ids     map[string]uint
	records map[string][]order.SettlementRecord
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{
		nextID:  1,
		states:  make(map[string]vo.OrderState),
		totals:  make(map[string]vo.Money),
		ids:     make(map[string]uint),
		records: make(map[string][]order.SettlementRecord),
	}
}

func (r *memOrderRepo) seed(code string, state vo.OrderState, total vo.Money) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids[code] = r.nextID
	r.nextID++
	r.states[code] = state
	r.totals[code] = total
}

func (r *memOrderRepo) hydrate(code string) *order.Order {
	now := biztime.NowUTC()
	return order.ReconstructOrder(
		r.ids[code], code, "session-1",
		r.states[code], r.totals[code],
		nil, nil, 1,
		append([]order.SettlementRecord(nil), r.records[code]...),
		nil, 0, now, now,
	)
}

func (r *memOrderRepo) Create(ctx context.Context, o *order.Order) error {
	r.seed(o.Code(), o.State(), o.Total())
	return nil
}

func (r *memOrderRepo) FindByCode(ctx context.Context, code string) (*order.Order, error) {
	return r.FindByCodeForUpdate(ctx, code)
}

func (r *memOrderRepo) FindByCodeForUpdate(ctx context.Context, code string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ids[code]; !ok {
		return nil, apperrors.NewNotFoundError("order not found")
	}
	return r.hydrate(code), nil
}

func (r *memOrderRepo) FindActiveBySession(ctx context.Context, sessionToken string) (*order.Order, error) {
	return nil, apperrors.NewNotFoundError("order not found")
}

func (r *memOrderRepo) SaveState(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[o.Code()] = o.State()
	return nil
}

func (r *memOrderRepo) AddSettlementRecord(ctx context.Context, o *order.Order, rec order.SettlementRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records[o.Code()] {
		if existing.Reference() == rec.Reference() {
			return apperrors.NewInternalError("insert failed", "UNIQUE constraint failed: settlement_records.reference")
		}
	}
	r.records[o.Code()] = append(r.records[o.Code()], rec)
	return nil
}

func (r *memOrderRepo) state(code string) vo.OrderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[code]
}

func (r *memOrderRepo) recordCount(code string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records[code])
}

func verifiedTx(reference string, amount int64) *gateway.VerifiedTransaction {
	paidAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return &gateway.VerifiedTransaction{
		Status:        gateway.StatusSuccess,
		RawStatus:     "success",
		Amount:        amount,
		Currency:      "NGN",
		Reference:     reference,
		TransactionID: "1234567890",
		Channel:       "card",
		PaidAt:        &paidAt,
		Metadata:      map[string]interface{}{"orderCode": reference},
	}
}

func newSettleFixture(t *testing.T, repo order.Repository, gw gateway.PaymentGateway) (*SettlePaymentUseCase, *recordingEmitter) {
	t.Helper()

	channelRepo := &mockChannelRepository{}
	channelRepo.On("GetByToken", mock.Anything, "web-token").Return(testChannel(), nil)

	methodRepo := &mockPaymentMethodRepository{}
	methodRepo.On("GetByChannelAndHandler", mock.Anything, uint(1), PaystackHandlerCode).
		Return(testMethod(map[string]string{
			"apiKey":      "sk_test_abc",
			"redirectUrl": "https://shop.example.com/confirm",
		}, true), nil)

	emitter := &recordingEmitter{}
	emitter.On("Emit", mock.Anything, EventOrderSettled, mock.Anything).Return(nil).Maybe()

	log := newMockLogger()
	uc := NewSettlePaymentUseCase(
		channelRepo,
		NewResolveMethodUseCase(methodRepo, log),
		func(apiKey string) gateway.PaymentGateway { return gw },
		repo,
		fakeTxRunner{},
		keylock.New(),
		emitter,
		log,
	)
	return uc, emitter
}

func TestSettlePayment_Success(t *testing.T) {
	repo := newMemOrderRepo()
	repo.seed("ORD-2001", vo.StateArrangingPayment, vo.NewMoney(5000, "NGN"))

	gw := gateway.NewMockGateway()
	gw.SeedVerification("ORD-2001", verifiedTx("ORD-2001", 5000))

	uc, emitter := newSettleFixture(t, repo, gw)

	err := uc.Execute(context.Background(), SettlePaymentCommand{Reference: "ORD-2001", ChannelToken: "web-token"})

	require.NoError(t, err)
	assert.Equal(t, vo.StatePaymentSettled, repo.state("ORD-2001"))
	assert.Equal(t, 1, repo.recordCount("ORD-2001"))
	emitter.AssertNumberOfCalls(t, "Emit", 1)
}

func TestSettlePayment_FromAddingItems(t *testing.T) {
	repo := newMemOrderRepo()
	repo.seed("ORD-2002", vo.StateAddingItems, vo.NewMoney(5000, "NGN"))

	gw := gateway.NewMockGateway()
	gw.SeedVerification("ORD-2002", verifiedTx("ORD-2002", 5000))

	uc, _ := newSettleFixture(t, repo, gw)

	err := uc.Execute(context.Background(), SettlePaymentCommand{Reference: "ORD-2002", ChannelToken: "web-token"})

	require.NoError(t, err)
	assert.Equal(t, vo.StatePaymentSettled, repo.state("ORD-2002"))
}

func TestSettlePayment_RedeliveryIsNoOp(t *testing.T) {
	repo := newMemOrderRepo()
	repo.seed("ORD-2003", vo.StateArrangingPayment, vo.NewMoney(5000, "NGN"))

	gw := gateway.NewMockGateway()
	gw.SeedVerification("ORD-2003", verifiedTx("ORD-2003", 5000))

	uc, emitter := newSettleFixture(t, repo, gw)
	cmd := SettlePaymentCommand{Reference: "ORD-2003", ChannelToken: "web-token"}

	require.NoError(t, uc.Execute(context.Background(), cmd))
	require.NoError(t, uc.Execute(context.Background(), cmd))
	require.NoError(t, uc.Execute(context.Background(), cmd))

	assert.Equal(t, vo.StatePaymentSettled, repo.state("ORD-2003"))
	assert.Equal(t, 1, repo.recordCount("ORD-2003"))
	emitter.AssertNumberOfCalls(t, "Emit", 1)
}

func TestSettlePayment_ConcurrentRedeliveriesSettleOnce(t *testing.T) {
	repo := newMemOrderRepo()
	repo.seed("ORD-2004", vo.StateArrangingPayment, vo.NewMoney(5000, "NGN"))

	gw := gateway.NewMockGateway()
	gw.SeedVerification("ORD-2004", verifiedTx("ORD-2004", 5000))

	uc, emitter := newSettleFixture(t, repo, gw)
	cmd := SettlePaymentCommand{Reference: "ORD-2004", ChannelToken: "web-token"}

	const deliveries = 8
	var wg sync.WaitGroup
	errs := make([]error, deliveries)
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = uc.Execute(context.Background(), cmd)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoErrorf(t, err, "delivery %d", i)
	}
	assert.Equal(t, vo.StatePaymentSettled, repo.state("ORD-2004"))
	assert.Equal(t, 1, repo.recordCount("ORD-2004"))
	emitter.AssertNumberOfCalls(t, "Emit", 1)
}

func TestSettlePayment_AmountMismatch(t *testing.T) {
	repo := newMemOrderRepo()
	repo.seed("ORD-2005", vo.StateArrangingPayment, vo.NewMoney(5000, "NGN"))

	gw := gateway.NewMockGateway()
	gw.SeedVerification("ORD-2005", verifiedTx("ORD-2005", 4999))

	uc, emitter := newSettleFixture(t, repo, gw)

	err := uc.Execute(context.Background(), SettlePaymentCommand{Reference: "ORD-2005", ChannelToken: "web-token"})

	assert.True(t, apperrors.IsPaymentErrorType(err, apperrors.ErrorTypeSettlement))
	assert.Equal(t, vo.StateArrangingPayment, repo.state("ORD-2005"))
	assert.Equal(t, 0, repo.recordCount("ORD-2005"))
	emitter.AssertNumberOfCalls(t, "Emit", 0)
}

func TestSettlePayment_NonSuccessVerificationIsDropped(t *testing.T) {
	repo := newMemOrderRepo()
	repo.seed("ORD-2006", vo.StateArrangingPayment, vo.NewMoney(5000, "NGN"))

	tx := verifiedTx("ORD-2006", 5000)
	tx.Status = gateway.StatusFailed
	tx.RawStatus = "abandoned"

	gw := gateway.NewMockGateway()
	gw.SeedVerification("ORD-2006", tx)

	uc, emitter := newSettleFixture(t, repo, gw)

	err := uc.Execute(context.Background(), SettlePaymentCommand{Reference: "ORD-2006", ChannelToken: "web-token"})

	require.NoError(t, err)
	assert.Equal(t, vo.StateArrangingPayment, repo.state("ORD-2006"))
	assert.Equal(t, 0, repo.recordCount("ORD-2006"))
	emitter.AssertNumberOfCalls(t, "Emit", 0)
}

func TestSettlePayment_OrderNotFoundIsRetryable(t *testing.T) {
	repo := newMemOrderRepo()

	gw := gateway.NewMockGateway()
	gw.SeedVerification("ORD-2007", verifiedTx("ORD-2007", 5000))

	uc, _ := newSettleFixture(t, repo, gw)

	err := uc.Execute(context.Background(), SettlePaymentCommand{Reference: "ORD-2007", ChannelToken: "web-token"})

	assert.True(t, apperrors.IsPaymentErrorType(err, apperrors.ErrorTypeOrderNotFound))
	assert.True(t, apperrors.IsRetryable(err))
}

func TestSettlePayment_VerificationErrorPropagates(t *testing.T) {
	repo := newMemOrderRepo()
	repo.seed("ORD-2008", vo.StateArrangingPayment, vo.NewMoney(5000, "NGN"))

	gw := gateway.NewMockGateway()
	gw.FailWith(nil, apperrors.NewGatewayUnavailableError("connection refused"))

	uc, _ := newSettleFixture(t, repo, gw)

	err := uc.Execute(context.Background(), SettlePaymentCommand{Reference: "ORD-2008", ChannelToken: "web-token"})

	assert.True(t, apperrors.IsPaymentErrorType(err, apperrors.ErrorTypeGatewayUnavailable))
	assert.True(t, apperrors.IsRetryable(err))
	assert.Equal(t, vo.StateArrangingPayment, repo.state("ORD-2008"))
}

// A settlement row already present in the database while the aggregate does
// not show it (crash between insert and state save) must not fail the retry.
func TestSettlePayment_ExistingRecordRowToleratedOnRetry(t *testing.T) {
	o, err := order.NewOrder("ORD-2009", "session-1", vo.NewMoney(5000, "NGN"))
	require.NoError(t, err)
	require.NoError(t, o.TransitionTo(vo.StateArrangingPayment))

	orderRepo := &mockOrderRepository{}
	orderRepo.On("FindByCodeForUpdate", mock.Anything, "ORD-2009").Return(o, nil)
	orderRepo.On("AddSettlementRecord", mock.Anything, o, mock.Anything).
		Return(apperrors.NewInternalError("insert failed", "UNIQUE constraint failed: settlement_records.reference"))
	orderRepo.On("SaveState", mock.Anything, o).Return(nil)

	gw := gateway.NewMockGateway()
	gw.SeedVerification("ORD-2009", verifiedTx("ORD-2009", 5000))

	uc, emitter := newSettleFixture(t, orderRepo, gw)

	err = uc.Execute(context.Background(), SettlePaymentCommand{Reference: "ORD-2009", ChannelToken: "web-token"})

	require.NoError(t, err)
	assert.Equal(t, vo.StatePaymentSettled, o.State())
	emitter.AssertNumberOfCalls(t, "Emit", 1)
}
