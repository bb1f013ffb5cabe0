package service

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/stockpilot/stockpilot-api/internal/domain/charges"
	"github.com/stockpilot/stockpilot-api/internal/domain/entity"
	"github.com/stockpilot/stockpilot-api/internal/domain/enum"
	"github.com/stockpilot/stockpilot-api/internal/domain/repository"
	infraRepo "github.com/stockpilot/stockpilot-api/internal/infrastructure/repository"
	"github.com/stockpilot/stockpilot-api/pkg/apperror"
	"github.com/stockpilot/stockpilot-api/pkg/patch"
	"golang.org/x/sync/errgroup"
)

// ChargeSettingsService manages the two-level charge configuration:
// tenant-wide defaults and per-retailer overrides.
type ChargeSettingsService struct {
	defaultsRepo repository.ChargeDefaultsRepository
	overrideRepo repository.RetailerOverrideRepository
	retailerRepo repository.RetailerRepository
	tenantRepo   repository.TenantRepository
}

// NewChargeSettingsService creates a new charge settings service
func NewChargeSettingsService(
	defaultsRepo repository.ChargeDefaultsRepository,
	overrideRepo repository.RetailerOverrideRepository,
	retailerRepo repository.RetailerRepository,
	tenantRepo repository.TenantRepository,
) *ChargeSettingsService {
	return &ChargeSettingsService{
		defaultsRepo: defaultsRepo,
		overrideRepo: overrideRepo,
		retailerRepo: retailerRepo,
		tenantRepo:   tenantRepo,
	}
}

// GetGlobalDefaults returns the tenant's charge defaults, falling back
// to the built-in base configuration when the tenant has never saved
// any. A failed read degrades to the same base shape; only writes
// surface storage errors. The fallback is not persisted.
func (s *ChargeSettingsService) GetGlobalDefaults(ctx context.Context) (*entity.ChargeDefaults, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	defaults, err := s.defaultsRepo.GetByTenantID(ctx, tenantID)
	if err != nil || defaults == nil {
		return entity.BaseChargeDefaults(tenantID), nil
	}
	return defaults, nil
}

// ChargeDefaultsInput is a partial update of the tenant's charge
// defaults. Absent fields keep their stored value; a field carrying an
// out-of-range number or an unknown enum value is silently dropped and
// the stored value kept.
type ChargeDefaultsInput struct {
	Enabled           patch.Field[bool]
	TaxType           patch.Field[string]
	AutodetectTaxType patch.Field[bool]
	GSTRate           patch.Field[float64]
	CGSTRate          patch.Field[float64]
	SGSTRate          patch.Field[float64]
	IGSTRate          patch.Field[float64]
	DeliveryFee       patch.Field[float64]
	PackingFee        patch.Field[float64]
	InsuranceFee      patch.Field[float64]
	OtherFee          patch.Field[float64]
	DiscountPct       patch.Field[float64]
	DiscountAmt       patch.Field[float64]
	RoundRule         patch.Field[string]
	SkipProforma      patch.Field[bool]
}

// UpdateGlobalDefaults applies a partial update to the tenant's charge
// defaults, creating the row on first save. Last write wins.
func (s *ChargeSettingsService) UpdateGlobalDefaults(ctx context.Context, userID uuid.UUID, input *ChargeDefaultsInput) (*entity.ChargeDefaults, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	defaults, err := s.defaultsRepo.GetByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	created := false
	if defaults == nil {
		defaults = entity.BaseChargeDefaults(tenantID)
		created = true
	}

	applyBool(input.Enabled, &defaults.Enabled)
	applyBool(input.AutodetectTaxType, &defaults.AutodetectTaxType)
	applyBool(input.SkipProforma, &defaults.SkipProforma)

	// Explicit null clears the fixed tax type, leaving autodetection to
	// govern; an unknown value keeps the stored one.
	if input.TaxType.Present {
		if input.TaxType.Null {
			defaults.TaxType = nil
		} else if t := enum.TaxType(input.TaxType.Value); t.IsValid() {
			defaults.TaxType = &t
		}
	}

	applyTaxRate(input.GSTRate, &defaults.GSTRate)
	applyTaxRate(input.CGSTRate, &defaults.CGSTRate)
	applyTaxRate(input.SGSTRate, &defaults.SGSTRate)
	applyTaxRate(input.IGSTRate, &defaults.IGSTRate)
	applyAmount(input.DeliveryFee, &defaults.DeliveryFee)
	applyAmount(input.PackingFee, &defaults.PackingFee)
	applyAmount(input.InsuranceFee, &defaults.InsuranceFee)
	applyAmount(input.OtherFee, &defaults.OtherFee)
	applyPct(input.DiscountPct, &defaults.DiscountPct)
	applyAmount(input.DiscountAmt, &defaults.DiscountAmt)

	if input.RoundRule.Present && !input.RoundRule.Null {
		if r := enum.RoundRule(input.RoundRule.Value); r.IsValid() {
			defaults.RoundRule = r
		}
	}

	defaults.UpdatedBy = &userID

	if created {
		err = s.defaultsRepo.Create(ctx, defaults)
	} else {
		err = s.defaultsRepo.Update(ctx, defaults)
	}
	if err != nil {
		return nil, err
	}
	return defaults, nil
}

// GetRetailerOverride returns the retailer's override row, or an empty
// all-inherit shape when no row exists yet. A failed read degrades to
// the same all-inherit shape.
func (s *ChargeSettingsService) GetRetailerOverride(ctx context.Context, retailerID uuid.UUID) (*entity.RetailerChargeOverride, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	if err := s.requireRetailer(ctx, retailerID); err != nil {
		return nil, err
	}

	override, err := s.overrideRepo.GetByRetailerID(ctx, tenantID, retailerID)
	if err != nil || override == nil {
		return &entity.RetailerChargeOverride{TenantID: tenantID, RetailerID: retailerID}, nil
	}
	return override, nil
}

// RetailerOverrideInput is a partial update of a retailer's charge
// override. Absent fields keep their stored value, explicit null
// restores inheritance from the tenant defaults, and a concrete value
// overrides. Invalid values are silently dropped.
type RetailerOverrideInput struct {
	Enabled           patch.Field[bool]
	TaxType           patch.Field[string]
	AutodetectTaxType patch.Field[bool]
	GSTRate           patch.Field[float64]
	CGSTRate          patch.Field[float64]
	SGSTRate          patch.Field[float64]
	IGSTRate          patch.Field[float64]
	DeliveryFee       patch.Field[float64]
	PackingFee        patch.Field[float64]
	InsuranceFee      patch.Field[float64]
	OtherFee          patch.Field[float64]
	DiscountPct       patch.Field[float64]
	DiscountAmt       patch.Field[float64]
	RoundRule         patch.Field[string]
	SkipProforma      patch.Field[bool]
	Notes             patch.Field[string]
}

// UpdateRetailerOverride applies a partial update to a retailer's
// override, creating the row on first save.
func (s *ChargeSettingsService) UpdateRetailerOverride(ctx context.Context, userID, retailerID uuid.UUID, input *RetailerOverrideInput) (*entity.RetailerChargeOverride, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	if err := s.requireRetailer(ctx, retailerID); err != nil {
		return nil, err
	}

	override, err := s.overrideRepo.GetByRetailerID(ctx, tenantID, retailerID)
	if err != nil {
		return nil, err
	}
	created := false
	if override == nil {
		override = &entity.RetailerChargeOverride{TenantID: tenantID, RetailerID: retailerID}
		created = true
	}

	applyBoolPtr(input.Enabled, &override.Enabled)
	applyBoolPtr(input.AutodetectTaxType, &override.AutodetectTaxType)
	applyBoolPtr(input.SkipProforma, &override.SkipProforma)

	if input.TaxType.Present {
		if input.TaxType.Null {
			override.TaxType = nil
		} else if t := enum.TaxType(input.TaxType.Value); t.IsValid() {
			override.TaxType = &t
		}
	}

	applyTaxRatePtr(input.GSTRate, &override.GSTRate)
	applyTaxRatePtr(input.CGSTRate, &override.CGSTRate)
	applyTaxRatePtr(input.SGSTRate, &override.SGSTRate)
	applyTaxRatePtr(input.IGSTRate, &override.IGSTRate)
	applyAmountPtr(input.DeliveryFee, &override.DeliveryFee)
	applyAmountPtr(input.PackingFee, &override.PackingFee)
	applyAmountPtr(input.InsuranceFee, &override.InsuranceFee)
	applyAmountPtr(input.OtherFee, &override.OtherFee)
	applyPctPtr(input.DiscountPct, &override.DiscountPct)
	applyAmountPtr(input.DiscountAmt, &override.DiscountAmt)

	if input.RoundRule.Present {
		if input.RoundRule.Null {
			override.RoundRule = nil
		} else if r := enum.RoundRule(input.RoundRule.Value); r.IsValid() {
			override.RoundRule = &r
		}
	}

	if input.Notes.Present {
		override.Notes = input.Notes.Ptr()
	}

	override.UpdatedBy = &userID

	if created {
		err = s.overrideRepo.Create(ctx, override)
	} else {
		err = s.overrideRepo.Update(ctx, override)
	}
	if err != nil {
		return nil, err
	}
	return override, nil
}

// ClearRetailerOverride resets every charge field of the retailer's
// override to inherit. A retailer with no override row is a no-op.
func (s *ChargeSettingsService) ClearRetailerOverride(ctx context.Context, userID, retailerID uuid.UUID) error {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return apperror.NewBadRequestError("Tenant context required")
	}

	if err := s.requireRetailer(ctx, retailerID); err != nil {
		return err
	}

	override, err := s.overrideRepo.GetByRetailerID(ctx, tenantID, retailerID)
	if err != nil {
		return err
	}
	if override == nil {
		return nil
	}

	override.Clear()
	override.UpdatedBy = &userID
	return s.overrideRepo.Update(ctx, override)
}

// GetEffectiveDefaults resolves the effective charge configuration for
// a retailer. The tenant defaults and the retailer override are fetched
// concurrently, then merged field by field. A failed read on either
// side is treated like a missing record: the defaults degrade to the
// base configuration and the override to all-inherit.
func (s *ChargeSettingsService) GetEffectiveDefaults(ctx context.Context, retailerID uuid.UUID) (*charges.EffectiveDefaults, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	if err := s.requireRetailer(ctx, retailerID); err != nil {
		return nil, err
	}

	var (
		defaults *entity.ChargeDefaults
		override *entity.RetailerChargeOverride
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if d, err := s.defaultsRepo.GetByTenantID(gctx, tenantID); err == nil {
			defaults = d
		}
		return nil
	})
	g.Go(func() error {
		if o, err := s.overrideRepo.GetByRetailerID(gctx, tenantID, retailerID); err == nil {
			override = o
		}
		return nil
	})
	_ = g.Wait()

	if defaults == nil {
		defaults = entity.BaseChargeDefaults(tenantID)
	}

	eff := charges.MergeDefaults(defaults, override)
	return &eff, nil
}

// PreviewResult pairs the estimated line items with the resulting
// charge breakdown, without persisting anything.
type PreviewResult struct {
	Lines     []charges.EstimatedLine   `json:"lines"`
	SubTotal  float64                   `json:"sub_total"`
	Breakdown charges.Breakdown         `json:"breakdown"`
	Effective charges.EffectiveDefaults `json:"effective"`
}

// PreviewCharges estimates the given line items under the retailer's
// effective configuration and computes the full charge breakdown. Pure
// read: nothing is written.
func (s *ChargeSettingsService) PreviewCharges(ctx context.Context, retailerID uuid.UUID, items []charges.LineItem) (*PreviewResult, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	retailer, err := s.retailerRepo.GetByID(ctx, retailerID)
	if err != nil {
		return nil, err
	}
	if retailer == nil {
		return nil, apperror.NewNotFoundError("Retailer")
	}

	eff, err := s.GetEffectiveDefaults(ctx, retailerID)
	if err != nil {
		return nil, err
	}

	distributor, err := s.distributorProfile(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	est := charges.Estimate(items)
	breakdown := charges.Compute(est.SubTotal, *eff, distributor, retailerProfile(retailer))

	return &PreviewResult{
		Lines:     est.Lines,
		SubTotal:  est.SubTotal,
		Breakdown: breakdown,
		Effective: *eff,
	}, nil
}

// distributorProfile builds the distributor's tax profile from the
// tenant's business profile.
func (s *ChargeSettingsService) distributorProfile(ctx context.Context, tenantID uuid.UUID) (*charges.TaxProfile, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("Tenant")
	}
	return &charges.TaxProfile{
		StateCode: tenant.Profile.StateCode,
		GSTIN:     tenant.Profile.GSTIN,
	}, nil
}

func retailerProfile(r *entity.Retailer) *charges.TaxProfile {
	p := &charges.TaxProfile{}
	if r.StateCode != nil {
		p.StateCode = *r.StateCode
	}
	if r.GSTIN != nil {
		p.GSTIN = *r.GSTIN
	}
	return p
}

func (s *ChargeSettingsService) requireRetailer(ctx context.Context, retailerID uuid.UUID) error {
	retailer, err := s.retailerRepo.GetByID(ctx, retailerID)
	if err != nil {
		return err
	}
	if retailer == nil {
		return apperror.NewNotFoundError("Retailer")
	}
	return nil
}

// applyBool sets dst when the field carries a boolean. Null is treated
// as absent for non-nullable targets.
func applyBool(f patch.Field[bool], dst *bool) {
	if f.Present && !f.Null {
		*dst = f.Value
	}
}

// applyPct sets dst when the field carries a percentage in [0, 100].
func applyPct(f patch.Field[float64], dst *float64) {
	if f.Present && !f.Null && validPct(f.Value) {
		*dst = f.Value
	}
}

// applyTaxRate sets dst when the field carries a finite non-negative
// rate. Tax rates have no upper bound; compounded cess regimes push
// them past 100.
func applyTaxRate(f patch.Field[float64], dst *float64) {
	if f.Present && !f.Null && validTaxRate(f.Value) {
		*dst = f.Value
	}
}

// applyAmount sets dst when the field carries a non-negative finite amount.
func applyAmount(f patch.Field[float64], dst *float64) {
	if f.Present && !f.Null && validAmount(f.Value) {
		*dst = f.Value
	}
}

func applyBoolPtr(f patch.Field[bool], dst **bool) {
	if !f.Present {
		return
	}
	if f.Null {
		*dst = nil
		return
	}
	v := f.Value
	*dst = &v
}

func applyPctPtr(f patch.Field[float64], dst **float64) {
	if !f.Present {
		return
	}
	if f.Null {
		*dst = nil
		return
	}
	if validPct(f.Value) {
		v := f.Value
		*dst = &v
	}
}

func applyTaxRatePtr(f patch.Field[float64], dst **float64) {
	if !f.Present {
		return
	}
	if f.Null {
		*dst = nil
		return
	}
	if validTaxRate(f.Value) {
		v := f.Value
		*dst = &v
	}
}

func applyAmountPtr(f patch.Field[float64], dst **float64) {
	if !f.Present {
		return
	}
	if f.Null {
		*dst = nil
		return
	}
	if validAmount(f.Value) {
		v := f.Value
		*dst = &v
	}
}

func validPct(v float64) bool {
	return validAmount(v) && v <= 100
}

func validTaxRate(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func validAmount(v float64) bool {
	return !((v != v) || v < 0) && v < 1e15
}
