package application

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-marketplace-api/internal/domains/stores/domain"
	"github.com/Apurer/go-marketplace-api/internal/domains/stores/ports"
	"github.com/Apurer/go-marketplace-api/internal/shared/failure"
)

type fakeStoreRepo struct {
	stores map[string]*domain.Store
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{stores: map[string]*domain.Store{}}
}

func (f *fakeStoreRepo) Save(_ context.Context, store *domain.Store) (*domain.Store, error) {
	copy := *store
	f.stores[store.ID] = &copy
	return &copy, nil
}

func (f *fakeStoreRepo) GetByID(_ context.Context, id string) (*domain.Store, error) {
	if s, ok := f.stores[id]; ok {
		copy := *s
		return &copy, nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeStoreRepo) GetByOwner(_ context.Context, ownerID string) (*domain.Store, error) {
	for _, s := range f.stores {
		if s.OwnerID == ownerID {
			copy := *s
			return &copy, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (f *fakeStoreRepo) GetByName(_ context.Context, name string) (*domain.Store, error) {
	for _, s := range f.stores {
		if strings.EqualFold(s.Name, name) {
			copy := *s
			return &copy, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (f *fakeStoreRepo) List(_ context.Context, filter ports.ListFilter) ([]*domain.Store, error) {
	var list []*domain.Store
	for _, s := range f.stores {
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		copy := *s
		list = append(list, &copy)
	}
	return list, nil
}

func newTestService() (*Service, *fakeStoreRepo) {
	repo := newFakeStoreRepo()
	seq := 0
	svc := NewService(repo, nil, WithIDGenerator(func() string {
		seq++
		return fmt.Sprintf("s%d", seq)
	}))
	return svc, repo
}

func TestCreateStore_StartsPending(t *testing.T) {
	svc, _ := newTestService()

	store, err := svc.CreateStore(context.Background(), "u1", ports.CreateStoreInput{Name: "Lamp Shop", Description: "lamps"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, store.Status)
	require.Equal(t, "u1", store.OwnerID)
}

func TestCreateStore_SingleStorePerOwner(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateStore(ctx, "u1", ports.CreateStoreInput{Name: "Lamp Shop"})
	require.NoError(t, err)

	_, err = svc.CreateStore(ctx, "u1", ports.CreateStoreInput{Name: "Second Shop"})
	require.ErrorIs(t, err, failure.ErrDuplicateStore)
}

func TestCreateStore_UniqueName(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateStore(ctx, "u1", ports.CreateStoreInput{Name: "Lamp Shop"})
	require.NoError(t, err)

	_, err = svc.CreateStore(ctx, "u2", ports.CreateStoreInput{Name: "lamp shop"})
	require.ErrorIs(t, err, failure.ErrConflict)
}

func TestUpdateStore_OwnerOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	mine, err := svc.CreateStore(ctx, "u1", ports.CreateStoreInput{Name: "Lamp Shop"})
	require.NoError(t, err)
	_, err = svc.CreateStore(ctx, "u2", ports.CreateStoreInput{Name: "Rug Shop"})
	require.NoError(t, err)

	name := "Better Lamps"
	updated, err := svc.UpdateStore(ctx, "u1", mine.ID, ports.UpdateStoreInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Better Lamps", updated.Name)

	_, err = svc.UpdateStore(ctx, "u2", mine.ID, ports.UpdateStoreInput{Name: &name})
	require.ErrorIs(t, err, failure.ErrNotAuthorized)

	_, err = svc.UpdateStore(ctx, "u3", mine.ID, ports.UpdateStoreInput{Name: &name})
	require.ErrorIs(t, err, failure.ErrNoStore)
}

func TestApproveAndReject(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	store, err := svc.CreateStore(ctx, "u1", ports.CreateStoreInput{Name: "Lamp Shop"})
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, store.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusApproved, approved.Status)

	_, err = svc.Reject(ctx, store.ID)
	require.ErrorIs(t, err, failure.ErrConflict)

	_, err = svc.Approve(ctx, "missing")
	require.ErrorIs(t, err, failure.ErrNotFound)
}

func TestListFiltersByStatus(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, err := svc.CreateStore(ctx, "u1", ports.CreateStoreInput{Name: "A"})
	require.NoError(t, err)
	_, err = svc.CreateStore(ctx, "u2", ports.CreateStoreInput{Name: "B"})
	require.NoError(t, err)
	_, err = svc.Approve(ctx, a.ID)
	require.NoError(t, err)

	approved := domain.StatusApproved
	list, err := svc.List(ctx, ports.ListFilter{Status: &approved})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, a.ID, list[0].ID)

	bogus := domain.Status("OPEN")
	_, err = svc.List(ctx, ports.ListFilter{Status: &bogus})
	require.ErrorIs(t, err, failure.ErrInvalidInput)
}
