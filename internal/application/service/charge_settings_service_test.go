package service

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stockpilot/stockpilot-api/internal/domain/charges"
	"github.com/stockpilot/stockpilot-api/internal/domain/entity"
	"github.com/stockpilot/stockpilot-api/internal/domain/enum"
	"github.com/stockpilot/stockpilot-api/internal/domain/repository"
	infraRepo "github.com/stockpilot/stockpilot-api/internal/infrastructure/repository"
	"github.com/stockpilot/stockpilot-api/pkg/patch"
	"github.com/stretchr/testify/require"
)

type fakeDefaultsRepo struct {
	defaults *entity.ChargeDefaults
	getErr   error
	creates  int
	updates  int
}

func (f *fakeDefaultsRepo) GetByTenantID(ctx context.Context, tenantID uuid.UUID) (*entity.ChargeDefaults, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.defaults, nil
}

func (f *fakeDefaultsRepo) Create(ctx context.Context, defaults *entity.ChargeDefaults) error {
	f.defaults = defaults
	f.creates++
	return nil
}

func (f *fakeDefaultsRepo) Update(ctx context.Context, defaults *entity.ChargeDefaults) error {
	f.defaults = defaults
	f.updates++
	return nil
}

type fakeOverrideRepo struct {
	override *entity.RetailerChargeOverride
	getErr   error
	creates  int
	updates  int
}

func (f *fakeOverrideRepo) GetByRetailerID(ctx context.Context, tenantID, retailerID uuid.UUID) (*entity.RetailerChargeOverride, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.override, nil
}

func (f *fakeOverrideRepo) Create(ctx context.Context, override *entity.RetailerChargeOverride) error {
	f.override = override
	f.creates++
	return nil
}

func (f *fakeOverrideRepo) Update(ctx context.Context, override *entity.RetailerChargeOverride) error {
	f.override = override
	f.updates++
	return nil
}

// fakeRetailerRepo and fakeTenantRepo embed the interface and implement
// only what the charge settings service touches.
type fakeRetailerRepo struct {
	repository.RetailerRepository
	retailer *entity.Retailer
}

func (f *fakeRetailerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Retailer, error) {
	if f.retailer != nil && f.retailer.ID == id {
		return f.retailer, nil
	}
	return nil, nil
}

type fakeTenantRepo struct {
	repository.TenantRepository
	tenant *entity.Tenant
}

func (f *fakeTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	return f.tenant, nil
}

type chargeSettingsFixture struct {
	svc        *ChargeSettingsService
	defaults   *fakeDefaultsRepo
	overrides  *fakeOverrideRepo
	ctx        context.Context
	tenantID   uuid.UUID
	retailerID uuid.UUID
	userID     uuid.UUID
}

func newChargeSettingsFixture(t *testing.T) *chargeSettingsFixture {
	t.Helper()

	tenantID := uuid.New()
	retailerID := uuid.New()

	defaults := &fakeDefaultsRepo{}
	overrides := &fakeOverrideRepo{}
	retailerState := "27"
	retailers := &fakeRetailerRepo{retailer: &entity.Retailer{
		ID:        retailerID,
		TenantID:  tenantID,
		Name:      "Sharma General Store",
		StateCode: &retailerState,
	}}
	tenants := &fakeTenantRepo{tenant: &entity.Tenant{
		ID: tenantID,
		Profile: entity.BusinessProfile{
			GSTIN:     "27AAAAA0000A1Z5",
			StateCode: "27",
		},
	}}

	return &chargeSettingsFixture{
		svc:        NewChargeSettingsService(defaults, overrides, retailers, tenants),
		defaults:   defaults,
		overrides:  overrides,
		ctx:        infraRepo.WithTenant(context.Background(), tenantID),
		tenantID:   tenantID,
		retailerID: retailerID,
		userID:     uuid.New(),
	}
}

func TestGetGlobalDefaultsFallsBackToBase(t *testing.T) {
	t.Parallel()

	fx := newChargeSettingsFixture(t)

	got, err := fx.svc.GetGlobalDefaults(fx.ctx)
	require.NoError(t, err)
	require.Equal(t, fx.tenantID, got.TenantID)
	require.False(t, got.Enabled)
	require.True(t, got.AutodetectTaxType)
	require.Equal(t, 9.0, got.CGSTRate)
	require.Equal(t, enum.RoundRuleNearest, got.RoundRule)
	// the fallback must not be persisted
	require.Zero(t, fx.defaults.creates)
	require.Zero(t, fx.defaults.updates)
}

func TestGetGlobalDefaultsRequiresTenant(t *testing.T) {
	t.Parallel()

	fx := newChargeSettingsFixture(t)

	_, err := fx.svc.GetGlobalDefaults(context.Background())
	require.Error(t, err)
}

func TestGetGlobalDefaultsDegradesOnReadFailure(t *testing.T) {
	t.Parallel()

	fx := newChargeSettingsFixture(t)
	fx.defaults.getErr = errDatabaseDown

	// a failed read is indistinguishable from a missing record: the
	// base shape comes back and no error surfaces
	got, err := fx.svc.GetGlobalDefaults(fx.ctx)
	require.NoError(t, err)
	require.Equal(t, fx.tenantID, got.TenantID)
	require.Equal(t, 9.0, got.CGSTRate)
	require.Equal(t, enum.RoundRuleNearest, got.RoundRule)

	// writes do not degrade
	_, err = fx.svc.UpdateGlobalDefaults(fx.ctx, fx.userID, &ChargeDefaultsInput{
		Enabled: patch.Set(true),
	})
	require.ErrorIs(t, err, errDatabaseDown)
}

func TestUpdateGlobalDefaultsCreatesOnFirstSave(t *testing.T) {
	t.Parallel()

	fx := newChargeSettingsFixture(t)

	got, err := fx.svc.UpdateGlobalDefaults(fx.ctx, fx.userID, &ChargeDefaultsInput{
		Enabled:     patch.Set(true),
		DeliveryFee: patch.Set(120.0),
	})
	require.NoError(t, err)
	require.True(t, got.Enabled)
	require.Equal(t, 120.0, got.DeliveryFee)
	require.Equal(t, fx.userID, *got.UpdatedBy)
	require.Equal(t, 1, fx.defaults.creates)

	// second save updates the same row
	_, err = fx.svc.UpdateGlobalDefaults(fx.ctx, fx.userID, &ChargeDefaultsInput{
		PackingFee: patch.Set(30.0),
	})
	require.NoError(t, err)
	require.Equal(t, 1, fx.defaults.creates)
	require.Equal(t, 1, fx.defaults.updates)
	require.Equal(t, 120.0, fx.defaults.defaults.DeliveryFee)
	require.Equal(t, 30.0, fx.defaults.defaults.PackingFee)
}

func TestUpdateGlobalDefaultsDropsInvalidValues(t *testing.T) {
	t.Parallel()

	fx := newChargeSettingsFixture(t)

	got, err := fx.svc.UpdateGlobalDefaults(fx.ctx, fx.userID, &ChargeDefaultsInput{
		GSTRate:     patch.Set(math.Inf(1)), // not finite
		CGSTRate:    patch.Set(-5.0),        // negative
		DeliveryFee: patch.Set(math.NaN()),  // not a number
		DiscountPct: patch.Set(130.0),       // percentage above 100
		DiscountAmt: patch.Set(1e16),        // absurd magnitude
		RoundRule:   patch.Set("banker"),    // unknown rule
		TaxType:     patch.Set("VAT"),       // unknown tax type
		PackingFee:  patch.Set(25.0),        // the one valid field
	})
	require.NoError(t, err)

	// invalid fields keep their previous values, valid ones apply
	require.Equal(t, 18.0, got.GSTRate)
	require.Equal(t, 9.0, got.CGSTRate)
	require.Equal(t, 0.0, got.DeliveryFee)
	require.Equal(t, 0.0, got.DiscountPct)
	require.Equal(t, 0.0, got.DiscountAmt)
	require.Equal(t, enum.RoundRuleNearest, got.RoundRule)
	require.Nil(t, got.TaxType)
	require.Equal(t, 25.0, got.PackingFee)
}

func TestUpdateGlobalDefaultsTaxRatesUnboundedAbove(t *testing.T) {
	t.Parallel()

	fx := newChargeSettingsFixture(t)

	// only the discount percentage is capped at 100; a tax rate above
	// it is a legal configuration (compounded cess regimes exceed 100)
	got, err := fx.svc.UpdateGlobalDefaults(fx.ctx, fx.userID, &ChargeDefaultsInput{
		IGSTRate:    patch.Set(128.0),
		DiscountPct: patch.Set(128.0),
	})
	require.NoError(t, err)
	require.Equal(t, 128.0, got.IGSTRate)
	require.Equal(t, 0.0, got.DiscountPct)

	ov, err := fx.svc.UpdateRetailerOverride(fx.ctx, fx.userID, fx.retailerID, &RetailerOverrideInput{
		IGSTRate:    patch.Set(128.0),
		DiscountPct: patch.Set(128.0),
	})
	require.NoError(t, err)
	require.Equal(t, 128.0, *ov.IGSTRate)
	require.Nil(t, ov.DiscountPct)
}

func TestUpdateGlobalDefaultsNullClearsTaxType(t *testing.T) {
	t.Parallel()

	fx := newChargeSettingsFixture(t)

	_, err := fx.svc.UpdateGlobalDefaults(fx.ctx, fx.userID, &ChargeDefaultsInput{
		TaxType: patch.Set("IGST"),
	})
	require.NoError(t, err)
	require.Equal(t, enum.TaxTypeIGST, *fx.defaults.defaults.TaxType)

	got, err := fx.svc.UpdateGlobalDefaults(fx.ctx, fx.userID, &ChargeDefaultsInput{
		TaxType: patch.Null[string](),
	})
	require.NoError(t, err)
	require.Nil(t, got.TaxType)
}

func TestUpdateGlobalDefaultsAbsentFieldsUntouched(t *testing.T) {
	t.Parallel()

	fx := newChargeSettingsFixture(t)

	_, err := fx.svc.UpdateGlobalDefaults(fx.ctx, fx.userID, &ChargeDefaultsInput{
		Enabled:     patch.Set(true),
		DeliveryFee: patch.Set(99.0),
		DiscountPct: patch.Set(5.0),
	})
	require.NoError(t, err)

	got, err := fx.svc.UpdateGlobalDefaults(fx.ctx, fx.userID, &ChargeDefaultsInput{
		DiscountPct: patch.Set(7.5),
	})
	require.NoError(t, err)
	require.True(t, got.Enabled)
	require.Equal(t, 99.0, got.DeliveryFee)
	require.Equal(t, 7.5, got.DiscountPct)
}

func TestGetRetailerOverrideEmptyShape(t *testing.T) {
	t.Parallel()

	fx := newChargeSettingsFixture(t)

	got, err := fx.svc.GetRetailerOverride(fx.ctx, fx.retailerID)
	require.NoError(t, err)
	require.Equal(t, fx.tenantID, got.TenantID)
	require.Equal(t, fx.retailerID, got.RetailerID)
	require.Nil(t, got.Enabled)
	require.Nil(t, got.DeliveryFee)
	require.Zero(t, fx.overrides.creates)
}

func TestGetRetailerOverrideUnknownRetailer(t *testing.T) {
	t.Parallel()

	fx := newChargeSettingsFixture(t)

	_, err := fx.svc.GetRetailerOverride(fx.ctx, uuid.New())
	require.Error(t, err)
}

func TestGetRetailerOverrideDegradesOnReadFailure(t *testing.T) {
	t.Parallel()

	fx := newChargeSettingsFixture(t)
	fx.overrides.getErr = errDatabaseDown

	got, err := fx.svc.GetRetailerOverride(fx.ctx, fx.retailerID)
	require.NoError(t, err)
	require.Equal(t, fx.retailerID, got.RetailerID)
	require.Nil(t, got.DeliveryFee)
	require.Nil(t, got.TaxType)
}

func TestUpdateRetailerOverrideNullRestoresInheritance(t *testing.T) {
	t.Parallel()

	fx := newChargeSettingsFixture(t)

	got, err := fx.svc.UpdateRetailerOverride(fx.ctx, fx.userID, fx.retailerID, &RetailerOverrideInput{
		DeliveryFee: patch.Set(200.0),
		DiscountPct: patch.Set(2.5),
	})
	require.NoError(t, err)
	require.Equal(t, 200.0, *got.DeliveryFee)
	require.Equal(t, 2.5, *got.DiscountPct)
	require.Equal(t, 1, fx.overrides.creates)

	got, err = fx.svc.UpdateRetailerOverride(fx.ctx, fx.userID, fx.retailerID, &RetailerOverrideInput{
		DeliveryFee: patch.Null[float64](),
	})
	require.NoError(t, err)
	require.Nil(t, got.DeliveryFee)         // back to inherit
	require.Equal(t, 2.5, *got.DiscountPct) // untouched
}

func TestUpdateRetailerOverrideZeroIsARealOverride(t *testing.T) {
	t.Parallel()

	fx := newChargeSettingsFixture(t)
	fx.defaults.defaults = entity.BaseChargeDefaults(fx.tenantID)
	fx.defaults.defaults.DeliveryFee = 150

	_, err := fx.svc.UpdateRetailerOverride(fx.ctx, fx.userID, fx.retailerID, &RetailerOverrideInput{
		DeliveryFee: patch.Set(0.0),
	})
	require.NoError(t, err)

	eff, err := fx.svc.GetEffectiveDefaults(fx.ctx, fx.retailerID)
	require.NoError(t, err)
	require.Equal(t, 0.0, eff.DeliveryFee)
}

func TestUpdateRetailerOverrideInvalidValueKeepsPrevious(t *testing.T) {
	t.Parallel()

	fx := newChargeSettingsFixture(t)

	_, err := fx.svc.UpdateRetailerOverride(fx.ctx, fx.userID, fx.retailerID, &RetailerOverrideInput{
		CGSTRate: patch.Set(14.0),
	})
	require.NoError(t, err)

	got, err := fx.svc.UpdateRetailerOverride(fx.ctx, fx.userID, fx.retailerID, &RetailerOverrideInput{
		CGSTRate: patch.Set(-3.0),
	})
	require.NoError(t, err)
	require.Equal(t, 14.0, *got.CGSTRate)
}

func TestClearRetailerOverride(t *testing.T) {
	t.Parallel()

	fx := newChargeSettingsFixture(t)

	// clearing a retailer with no override row is a no-op
	require.NoError(t, fx.svc.ClearRetailerOverride(fx.ctx, fx.userID, fx.retailerID))
	require.Zero(t, fx.overrides.updates)

	_, err := fx.svc.UpdateRetailerOverride(fx.ctx, fx.userID, fx.retailerID, &RetailerOverrideInput{
		DeliveryFee: patch.Set(300.0),
		Notes:       patch.Set("prefers evening delivery"),
	})
	require.NoError(t, err)

	require.NoError(t, fx.svc.ClearRetailerOverride(fx.ctx, fx.userID, fx.retailerID))
	require.Nil(t, fx.overrides.override.DeliveryFee)
	require.NotNil(t, fx.overrides.override.Notes) // notes survive a clear
	require.Equal(t, 1, fx.overrides.updates)
}

func TestGetEffectiveDefaultsMerges(t *testing.T) {
	t.Parallel()

	fx := newChargeSettingsFixture(t)
	fx.defaults.defaults = entity.BaseChargeDefaults(fx.tenantID)
	fx.defaults.defaults.Enabled = true
	fx.defaults.defaults.DeliveryFee = 100
	fx.defaults.defaults.DiscountPct = 5

	fee := 40.0
	fx.overrides.override = &entity.RetailerChargeOverride{
		TenantID:    fx.tenantID,
		RetailerID:  fx.retailerID,
		DeliveryFee: &fee,
	}

	eff, err := fx.svc.GetEffectiveDefaults(fx.ctx, fx.retailerID)
	require.NoError(t, err)
	require.True(t, eff.Enabled)
	require.Equal(t, 40.0, eff.DeliveryFee) // overridden
	require.Equal(t, 5.0, eff.DiscountPct)  // inherited
}

func TestGetEffectiveDefaultsDegradesOnReadFailure(t *testing.T) {
	t.Parallel()

	fx := newChargeSettingsFixture(t)
	fx.defaults.defaults = entity.BaseChargeDefaults(fx.tenantID)
	fx.defaults.defaults.DeliveryFee = 100
	fx.defaults.getErr = errDatabaseDown
	fx.overrides.getErr = errDatabaseDown

	// both reads failed: base shape, nothing overridden
	eff, err := fx.svc.GetEffectiveDefaults(fx.ctx, fx.retailerID)
	require.NoError(t, err)
	require.Equal(t, 0.0, eff.DeliveryFee)
	require.Equal(t, 9.0, eff.CGSTRate)
	require.Equal(t, 18.0, eff.IGSTRate)
}

func TestPreviewCharges(t *testing.T) {
	t.Parallel()

	fx := newChargeSettingsFixture(t)
	fx.defaults.defaults = entity.BaseChargeDefaults(fx.tenantID)
	fx.defaults.defaults.Enabled = true

	res, err := fx.svc.PreviewCharges(fx.ctx, fx.retailerID, []charges.LineItem{
		{Name: "Toor Dal 1kg", Qty: 100, Price: 100},
	})
	require.NoError(t, err)
	require.Equal(t, 10000.0, res.SubTotal)

	// distributor and retailer are both in state 27: intrastate split
	require.Equal(t, enum.TaxTypeCGSTSGST, res.Breakdown.TaxType)
	require.Equal(t, 900.0, res.Breakdown.TaxBreakup.CGST)
	require.Equal(t, 900.0, res.Breakdown.TaxBreakup.SGST)
	require.Equal(t, 11800.0, res.Breakdown.GrandTotal)

	// nothing was written
	require.Zero(t, fx.defaults.creates)
	require.Zero(t, fx.overrides.creates)
}

func TestPreviewChargesInterstate(t *testing.T) {
	t.Parallel()

	fx := newChargeSettingsFixture(t)
	otherState := "29"
	fx.svc.retailerRepo.(*fakeRetailerRepo).retailer.StateCode = &otherState

	res, err := fx.svc.PreviewCharges(fx.ctx, fx.retailerID, []charges.LineItem{
		{Name: "Toor Dal 1kg", Qty: 100, Price: 100},
	})
	require.NoError(t, err)
	require.Equal(t, enum.TaxTypeIGST, res.Breakdown.TaxType)
	require.Equal(t, 1800.0, res.Breakdown.TaxBreakup.IGST)
	require.Zero(t, res.Breakdown.TaxBreakup.CGST)
}
