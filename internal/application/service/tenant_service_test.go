package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stockpilot/stockpilot-api/internal/domain/entity"
	"github.com/stockpilot/stockpilot-api/internal/domain/repository"
	"github.com/stretchr/testify/require"
)

// fakeTenantDirectory covers the membership and listing surface of the
// tenant repository.
type fakeTenantDirectory struct {
	repository.TenantRepository
	tenants     []*entity.Tenant
	memberships []entity.TenantMembership
}

func (f *fakeTenantDirectory) Create(ctx context.Context, tenant *entity.Tenant) error {
	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}
	f.tenants = append(f.tenants, tenant)
	return nil
}

func (f *fakeTenantDirectory) GetByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	for _, t := range f.tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeTenantDirectory) GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error) {
	for _, t := range f.tenants {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeTenantDirectory) AddMember(ctx context.Context, membership *entity.TenantMembership) error {
	f.memberships = append(f.memberships, *membership)
	return nil
}

func (f *fakeTenantDirectory) IsMember(ctx context.Context, tenantID, userID uuid.UUID) (bool, error) {
	for _, m := range f.memberships {
		if m.TenantID == tenantID && m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTenantDirectory) GetUserTenants(ctx context.Context, userID uuid.UUID) ([]entity.Tenant, error) {
	var out []entity.Tenant
	for _, m := range f.memberships {
		if m.UserID != userID {
			continue
		}
		for _, t := range f.tenants {
			if t.ID == m.TenantID {
				out = append(out, *t)
			}
		}
	}
	return out, nil
}

func (f *fakeTenantDirectory) ListAll(ctx context.Context) ([]entity.Tenant, error) {
	out := make([]entity.Tenant, 0, len(f.tenants))
	for _, t := range f.tenants {
		out = append(out, *t)
	}
	return out, nil
}

func TestCreateTenantAddsOwnerMembership(t *testing.T) {
	t.Parallel()

	repo := &fakeTenantDirectory{}
	svc := NewTenantService(repo)
	ownerID := uuid.New()

	tenant, err := svc.CreateTenant(context.Background(), &CreateTenantInput{
		Name:    "Gupta Traders",
		Slug:    "gupta-traders",
		OwnerID: ownerID,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, tenant.ID)

	require.Len(t, repo.memberships, 1)
	require.Equal(t, ownerID, repo.memberships[0].UserID)
	require.Equal(t, "owner", repo.memberships[0].Role)

	// slug is unique
	_, err = svc.CreateTenant(context.Background(), &CreateTenantInput{
		Name:    "Another",
		Slug:    "gupta-traders",
		OwnerID: uuid.New(),
	})
	require.Error(t, err)
}

func TestGetUserTenantsReturnsMemberships(t *testing.T) {
	t.Parallel()

	repo := &fakeTenantDirectory{}
	svc := NewTenantService(repo)
	userID := uuid.New()

	mine, err := svc.CreateTenant(context.Background(), &CreateTenantInput{
		Name: "Gupta Traders", Slug: "gupta-traders", OwnerID: userID,
	})
	require.NoError(t, err)
	_, err = svc.CreateTenant(context.Background(), &CreateTenantInput{
		Name: "Verma Distributors", Slug: "verma-distributors", OwnerID: uuid.New(),
	})
	require.NoError(t, err)

	tenants, err := svc.GetUserTenants(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, tenants, 1)
	require.Equal(t, mine.ID, tenants[0].ID)

	all, err := svc.ListAllTenants(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
}
