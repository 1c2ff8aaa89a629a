package service

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/store-service/internal/auth"
	"github.com/spec-kit/store-service/internal/domain"
	apperrors "github.com/spec-kit/store-service/pkg/util"
)

type memoryStoreRepo struct {
	mu     sync.Mutex
	stores map[string]*domain.Store
	seq    int
}

func newMemoryStoreRepo(stores ...*domain.Store) *memoryStoreRepo {
	repo := &memoryStoreRepo{stores: make(map[string]*domain.Store)}
	for _, s := range stores {
		copied := *s
		repo.stores[s.ID] = &copied
	}
	return repo
}

func (r *memoryStoreRepo) Create(_ context.Context, store *domain.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	store.ID = "s" + string(rune('0'+r.seq))
	copied := *store
	r.stores[store.ID] = &copied
	return nil
}

func (r *memoryStoreRepo) Update(_ context.Context, store *domain.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stores[store.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *store
	r.stores[store.ID] = &copied
	return nil
}

func (r *memoryStoreRepo) GetByID(_ context.Context, id string) (*domain.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryStoreRepo) List(_ context.Context, filter domain.ScopeFilter) ([]domain.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Store
	storeID, scoped := filter.StoreID()
	for _, s := range r.stores {
		if scoped && s.ID != storeID {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func testStore(id, name string) *domain.Store {
	return &domain.Store{ID: id, Name: name, IsActive: true}
}

func newTestStoreService(users *memoryUserRepo, stores *memoryStoreRepo) *StoreService {
	access := auth.NewAccessControl(users, denyAllPolicies{}, nil, zap.NewNop())
	return NewStoreService(stores, access)
}

func TestStoreScoping(t *testing.T) {
	ctx := context.Background()

	super := activeUser("root", "root@example.com", domain.RoleSuperAdmin, nil)
	manager := activeUser("m1", "manager@example.com", domain.RoleManager, strPtr("s1"))
	users := newMemoryUserRepo(super, manager)
	stores := newMemoryStoreRepo(testStore("s1", "Downtown"), testStore("s2", "Uptown"))
	svc := newTestStoreService(users, stores)

	t.Run("super_admin lists every store", func(t *testing.T) {
		listed, err := svc.ListStores(ctx, super)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(listed) != 2 {
			t.Fatalf("expected 2 stores, got %d", len(listed))
		}
	})

	t.Run("scoped caller lists only their store", func(t *testing.T) {
		listed, err := svc.ListStores(ctx, manager)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(listed) != 1 || listed[0].ID != "s1" {
			t.Fatalf("expected only s1, got %v", listed)
		}
	})

	t.Run("scoped caller cannot read another store", func(t *testing.T) {
		if _, err := svc.GetStore(ctx, manager, "s2"); !apperrors.IsCode(err, "NOT_FOUND") {
			t.Fatalf("expected not found, got %v", err)
		}
		store, err := svc.GetStore(ctx, manager, "s1")
		if err != nil {
			t.Fatalf("own store must be readable: %v", err)
		}
		if store.Name != "Downtown" {
			t.Errorf("store name %q", store.Name)
		}
	})
}

func TestStoreMutations(t *testing.T) {
	ctx := context.Background()

	super := activeUser("root", "root@example.com", domain.RoleSuperAdmin, nil)
	owner := activeUser("o1", "owner@example.com", domain.RoleManager, strPtr("s1"))
	owner.IsStoreOwner = true
	manager := activeUser("m1", "manager@example.com", domain.RoleManager, strPtr("s1"))

	t.Run("only super_admin creates stores", func(t *testing.T) {
		users := newMemoryUserRepo(super, owner)
		svc := newTestStoreService(users, newMemoryStoreRepo())

		if _, err := svc.CreateStore(ctx, owner, &domain.Store{Name: "New"}); !apperrors.IsCode(err, "FORBIDDEN") {
			t.Fatalf("expected forbidden, got %v", err)
		}
		created, err := svc.CreateStore(ctx, super, &domain.Store{Name: "New"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.ID == "" || !created.IsActive {
			t.Errorf("created store %+v", created)
		}
	})

	t.Run("owner updates own store, others denied", func(t *testing.T) {
		users := newMemoryUserRepo(super, owner, manager)
		stores := newMemoryStoreRepo(testStore("s1", "Downtown"), testStore("s2", "Uptown"))
		svc := newTestStoreService(users, stores)

		updated, err := svc.UpdateStore(ctx, owner, &domain.Store{ID: "s1", Name: "Renamed", IsActive: true})
		if err != nil {
			t.Fatalf("owner update: %v", err)
		}
		if updated.Name != "Renamed" {
			t.Errorf("name %q", updated.Name)
		}

		if _, err := svc.UpdateStore(ctx, owner, &domain.Store{ID: "s2", Name: "Nope", IsActive: true}); !apperrors.IsCode(err, "FORBIDDEN") {
			t.Fatalf("expected forbidden for foreign store, got %v", err)
		}
		if _, err := svc.UpdateStore(ctx, manager, &domain.Store{ID: "s1", Name: "Nope", IsActive: true}); !apperrors.IsCode(err, "FORBIDDEN") {
			t.Fatalf("expected forbidden for non-owner, got %v", err)
		}
		if _, err := svc.UpdateStore(ctx, super, &domain.Store{ID: "s2", Name: "Super", IsActive: true}); err != nil {
			t.Fatalf("super_admin update: %v", err)
		}
	})
}
