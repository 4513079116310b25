package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferialibre/catalog-service/internal/catalog/domain"
	"github.com/ferialibre/catalog-service/internal/catalog/query"
	"github.com/ferialibre/catalog-service/internal/platform/logger"
)

// memStore is an in-memory ListingStore with the same contract as the
// MongoDB adapter: pages come back newest first, anchored on
// (created_at, id).
type memStore struct {
	mu       sync.Mutex
	items    map[string]*domain.Listing
	getCalls int
}

func newMemStore() *memStore {
	return &memStore{items: make(map[string]*domain.Listing)}
}

func (s *memStore) key(f domain.Family, id string) string { return string(f) + "/" + id }

func (s *memStore) Query(_ context.Context, family domain.Family, opts domain.QueryOptions) ([]*domain.Listing, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []*domain.Listing
	for _, l := range s.items {
		if l.Family != family {
			continue
		}
		if opts.OwnerID != "" && l.OwnerID != opts.OwnerID {
			continue
		}
		all = append(all, l.Clone())
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	if opts.After != nil {
		cut := 0
		for i, l := range all {
			if l.ID == opts.After.ID {
				cut = i + 1
				break
			}
		}
		all = all[cut:]
	}

	hasMore := len(all) > opts.PageSize
	if hasMore {
		all = all[:opts.PageSize]
	}
	return all, hasMore, nil
}

func (s *memStore) Get(_ context.Context, family domain.Family, id string) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	l, ok := s.items[s.key(family, id)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return l.Clone(), nil
}

func (s *memStore) GetBySlug(_ context.Context, family domain.Family, slug string) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.items {
		if l.Family == family && l.Slug == slug {
			return l.Clone(), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *memStore) Insert(_ context.Context, l *domain.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[s.key(l.Family, l.ID)] = l.Clone()
	return nil
}

func (s *memStore) Put(_ context.Context, l *domain.Listing) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := s.key(l.Family, l.ID)
	if _, ok := s.items[k]; !ok {
		return nil, domain.ErrNotFound
	}
	s.items[k] = l.Clone()
	return l.Clone(), nil
}

func (s *memStore) Delete(_ context.Context, family domain.Family, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := s.key(family, id)
	if _, ok := s.items[k]; !ok {
		return domain.ErrNotFound
	}
	delete(s.items, k)
	return nil
}

func (s *memStore) ConditionalDecrement(_ context.Context, family domain.Family, id string, amount int) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.items[s.key(family, id)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if l.Remaining() < amount {
		return nil, domain.ErrInsufficientAvailability
	}
	l.SetRemaining(l.Remaining() - amount)
	if l.Remaining() == 0 {
		l.Status = l.ExhaustedStatus()
	}
	return l.Clone(), nil
}

func (s *memStore) ConditionalExhaust(_ context.Context, family domain.Family, id string) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.items[s.key(family, id)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if l.Status != domain.StatusAvailable {
		return nil, domain.ErrInsufficientAvailability
	}
	l.Status = l.ExhaustedStatus()
	return l.Clone(), nil
}

type fakeCache struct {
	mu    sync.Mutex
	items map[string]*domain.Listing
}

func newFakeCache() *fakeCache { return &fakeCache{items: make(map[string]*domain.Listing)} }

func (c *fakeCache) Get(_ context.Context, family domain.Family, id string) (*domain.Listing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items[string(family)+"/"+id], nil
}

func (c *fakeCache) Set(_ context.Context, l *domain.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[string(l.Family)+"/"+l.ID] = l.Clone()
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, family domain.Family, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, string(family)+"/"+id)
	return nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []string
}

func (e *fakeEvents) record(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, name)
	return nil
}

func (e *fakeEvents) ListingCreated(context.Context, *domain.Listing) error { return e.record("created") }
func (e *fakeEvents) ListingUpdated(context.Context, *domain.Listing) error { return e.record("updated") }
func (e *fakeEvents) ListingReserved(context.Context, *domain.Listing, int) error {
	return e.record("reserved")
}
func (e *fakeEvents) ListingSoldOut(context.Context, *domain.Listing) error {
	return e.record("sold_out")
}

type fakeStorage struct{ uploads []string }

func (s *fakeStorage) Upload(_ context.Context, filename string, _ []byte, _ string) (string, error) {
	s.uploads = append(s.uploads, filename)
	return "https://cdn.example/" + filename, nil
}

type fakeNotifier struct {
	published, exhausted int
}

func (n *fakeNotifier) ListingPublished(*domain.Listing) error { n.published++; return nil }
func (n *fakeNotifier) ListingExhausted(*domain.Listing) error { n.exhausted++; return nil }

type fixture struct {
	uc       *CatalogUsecase
	store    *memStore
	cache    *fakeCache
	events   *fakeEvents
	storage  *fakeStorage
	notifier *fakeNotifier
}

func newFixture() *fixture {
	f := &fixture{
		store:    newMemStore(),
		cache:    newFakeCache(),
		events:   &fakeEvents{},
		storage:  &fakeStorage{},
		notifier: &fakeNotifier{},
	}
	f.uc = NewCatalogUsecase(f.store, f.cache, f.events, f.storage, f.notifier,
		domain.DefaultFamilies(), logger.NewLogger())
	return f
}

func draftProduct(title string) *domain.Listing {
	return &domain.Listing{
		Family:      domain.FamilyProduct,
		Title:       title,
		Description: "Producto en excelente estado, retiro por zona centro.",
		Category:    "hogar",
		Images:      []domain.Image{{URL: "https://img.example/1.jpg", Primary: true}},
		Contact:     domain.Contact{Whatsapp: "+5491122334455"},
		Product: &domain.ProductDetails{
			Price:     1500,
			PriceType: domain.PriceFixed,
			StockMode: domain.StockLimited,
			Stock:     3,
			Condition: domain.ConditionUsed,
		},
	}
}

func TestCreateListing_AssignsIdentity(t *testing.T) {
	f := newFixture()

	got, err := f.uc.CreateListing(context.Background(), "owner-1", draftProduct("Mesa ratona de pino"))
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "owner-1", got.OwnerID)
	assert.Contains(t, got.Slug, "mesa-ratona-de-pino-")
	assert.Contains(t, got.Keywords, "mesa")
	assert.Contains(t, got.Keywords, "ratona")
	assert.Equal(t, domain.StatusAvailable, got.Status)
	assert.Equal(t, []string{"created"}, f.events.events)
	assert.Equal(t, 1, f.notifier.published)

	cached, _ := f.cache.Get(context.Background(), domain.FamilyProduct, got.ID)
	require.NotNil(t, cached)
	assert.Equal(t, got.ID, cached.ID)
}

func TestCreateListing_ValidationFailure(t *testing.T) {
	f := newFixture()
	draft := draftProduct("Mesa")
	draft.Product.Price = 0

	_, err := f.uc.CreateListing(context.Background(), "owner-1", draft)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Messages, "El precio debe ser mayor a 0")
	assert.Empty(t, f.events.events)
}

func TestCreateListing_ZeroStockStartsExhausted(t *testing.T) {
	f := newFixture()
	draft := draftProduct("Última unidad")
	draft.Product.Stock = 0

	got, err := f.uc.CreateListing(context.Background(), "owner-1", draft)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSoldOut, got.Status)
}

func TestUpdateListing_OwnerOnlyAndSlugStable(t *testing.T) {
	f := newFixture()
	created, err := f.uc.CreateListing(context.Background(), "owner-1", draftProduct("Mesa ratona"))
	require.NoError(t, err)

	edit := created.Clone()
	edit.Title = "Mesa ratona restaurada"

	_, err = f.uc.UpdateListing(context.Background(), "intruder", edit)
	assert.ErrorIs(t, err, domain.ErrPermission)

	got, err := f.uc.UpdateListing(context.Background(), "owner-1", edit)
	require.NoError(t, err)
	assert.Equal(t, created.Slug, got.Slug)
	assert.Contains(t, got.Keywords, "restaurada")
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
}

func TestSetStatus(t *testing.T) {
	f := newFixture()
	created, err := f.uc.CreateListing(context.Background(), "owner-1", draftProduct("Mesa"))
	require.NoError(t, err)

	got, err := f.uc.SetStatus(context.Background(), "owner-1", domain.FamilyProduct, created.ID, domain.StatusPaused)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaused, got.Status)

	_, err = f.uc.SetStatus(context.Background(), "owner-1", domain.FamilyProduct, created.ID, domain.Status("flying"))
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestReserve_LimitedToExhaustion(t *testing.T) {
	f := newFixture()
	draft := draftProduct("Bicicleta rodado 29")
	draft.Product.Stock = 2
	created, err := f.uc.CreateListing(context.Background(), "owner-1", draft)
	require.NoError(t, err)
	f.events.events = nil

	got, err := f.uc.Reserve(context.Background(), domain.FamilyProduct, created.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Remaining())
	assert.Equal(t, domain.StatusAvailable, got.Status)

	got, err = f.uc.Reserve(context.Background(), domain.FamilyProduct, created.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Remaining())
	assert.Equal(t, domain.StatusSoldOut, got.Status)
	assert.Equal(t, []string{"reserved", "reserved", "sold_out"}, f.events.events)
	assert.Equal(t, 1, f.notifier.exhausted)

	_, err = f.uc.Reserve(context.Background(), domain.FamilyProduct, created.ID, 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientAvailability)
}

func TestReserve_UnlimitedIsNoOp(t *testing.T) {
	f := newFixture()
	draft := draftProduct("Miel pura")
	draft.Product.StockMode = domain.StockUnlimited
	created, err := f.uc.CreateListing(context.Background(), "owner-1", draft)
	require.NoError(t, err)

	got, err := f.uc.Reserve(context.Background(), domain.FamilyProduct, created.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, got.Status)
}

// Two racing reservations for the last unit: exactly one may win.
func TestReserve_ConcurrentLastUnit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.uc.CreateListing(ctx, "owner-1", &domain.Listing{
		Family:      domain.FamilyService,
		Title:       "Sesión de fotos en exteriores",
		Description: "Una única sesión disponible este mes, zona parque central.",
		Category:    "eventos",
		Contact:     domain.Contact{Whatsapp: "+5491122334455"},
		Service: &domain.ServiceDetails{
			Price:          20000,
			PriceType:      domain.PricePerSession,
			Modality:       domain.ModalityInPerson,
			QuotaMode:      domain.QuotaLimited,
			QuotaRemaining: 1,
		},
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	outcomes := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Reserve(ctx, domain.FamilyService, created.ID, 1)
			outcomes <- err
		}()
	}
	wg.Wait()
	close(outcomes)

	var rejected int
	for err := range outcomes {
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrInsufficientAvailability)
			rejected++
		}
	}
	assert.Equal(t, 1, rejected, "exactly one of the racing reservations must lose")

	got, err := f.uc.GetListing(ctx, domain.FamilyService, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Remaining())
	assert.Equal(t, domain.StatusNoQuota, got.Status)
}

func TestReserve_InvalidQuantity(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Reserve(context.Background(), domain.FamilyProduct, "whatever", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestSearch_PaginatesWithoutSkippingOrDuplicating(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	var want []string
	for _, title := range []string{"Silla", "Mesa", "Ropero", "Banqueta", "Estante", "Perchero", "Espejo"} {
		created, err := f.uc.CreateListing(ctx, "owner-1", draftProduct(title+" de pino"))
		require.NoError(t, err)
		want = append(want, created.ID)
		time.Sleep(time.Millisecond) // distinct created_at
	}

	var got []string
	cursor := ""
	for pages := 0; pages < 10; pages++ {
		res, err := f.uc.Search(ctx, SearchInput{
			Family:   domain.FamilyProduct,
			SortKey:  domain.SortAlphabetical,
			PageSize: 3,
			Cursor:   cursor,
		})
		require.NoError(t, err)
		for _, l := range res.Items {
			got = append(got, l.ID)
		}
		if res.NextCursor == "" {
			break
		}
		cursor = res.NextCursor
	}

	assert.ElementsMatch(t, want, got, "every listing appears exactly once across pages")
}

func TestSearch_FiltersAndSortsPage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cheap := draftProduct("Vaso de vidrio")
	cheap.Product.Price = 200
	dear := draftProduct("Vajilla completa")
	dear.Product.Price = 9000
	other := draftProduct("Taladro")
	other.Category = "tecnologia"

	for _, d := range []*domain.Listing{dear, cheap, other} {
		_, err := f.uc.CreateListing(ctx, "owner-1", d)
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	res, err := f.uc.Search(ctx, SearchInput{
		Family:   domain.FamilyProduct,
		Criteria: query.Criteria{Category: "hogar"},
		SortKey:  domain.SortPriceAsc,
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Vaso de vidrio", res.Items[0].Title)
	assert.Equal(t, "Vajilla completa", res.Items[1].Title)
	assert.Empty(t, res.NextCursor)
}

func TestSearch_RejectsCorruptCursor(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Search(context.Background(), SearchInput{
		Family: domain.FamilyProduct,
		Cursor: "not-a-cursor!",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCursor)
}

func TestGetListing_CacheFirst(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.uc.CreateListing(ctx, "owner-1", draftProduct("Mesa"))
	require.NoError(t, err)

	before := f.store.getCalls
	got, err := f.uc.GetListing(ctx, domain.FamilyProduct, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, before, f.store.getCalls, "cache hit must not touch the store")

	require.NoError(t, f.cache.Invalidate(ctx, domain.FamilyProduct, created.ID))
	_, err = f.uc.GetListing(ctx, domain.FamilyProduct, created.ID)
	require.NoError(t, err)
	assert.Equal(t, before+1, f.store.getCalls)
}

func TestGetBySlug(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.uc.CreateListing(ctx, "owner-1", draftProduct("Mesa de luz"))
	require.NoError(t, err)

	got, err := f.uc.GetBySlug(ctx, domain.FamilyProduct, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = f.uc.GetBySlug(ctx, domain.FamilyProduct, "no-such-slug")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteListing_OwnerOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.uc.CreateListing(ctx, "owner-1", draftProduct("Mesa"))
	require.NoError(t, err)

	err = f.uc.DeleteListing(ctx, "intruder", domain.FamilyProduct, created.ID)
	assert.ErrorIs(t, err, domain.ErrPermission)

	require.NoError(t, f.uc.DeleteListing(ctx, "owner-1", domain.FamilyProduct, created.ID))
	_, err = f.uc.GetListing(ctx, domain.FamilyProduct, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAttachImage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.uc.CreateListing(ctx, "owner-1", draftProduct("Mesa con foto"))
	require.NoError(t, err)

	got, err := f.uc.AttachImage(ctx, "owner-1", domain.FamilyProduct, created.ID, "frente.jpg", []byte("img"), "image/jpeg")
	require.NoError(t, err)
	require.Len(t, got.Images, 2)
	assert.False(t, got.Images[1].Primary, "only the first image is primary")
	require.Len(t, f.storage.uploads, 1)
	assert.Contains(t, f.storage.uploads[0], "listings/")
	assert.Contains(t, f.storage.uploads[0], ".jpg")

	// fill up to the family limit
	_, err = f.uc.AttachImage(ctx, "owner-1", domain.FamilyProduct, created.ID, "lado.jpg", []byte("img"), "image/jpeg")
	require.NoError(t, err)
	_, err = f.uc.AttachImage(ctx, "owner-1", domain.FamilyProduct, created.ID, "atras.jpg", []byte("img"), "image/jpeg")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = f.uc.AttachImage(ctx, "intruder", domain.FamilyProduct, created.ID, "x.jpg", []byte("img"), "image/jpeg")
	assert.ErrorIs(t, err, domain.ErrPermission)
}

func TestSearch_StoreErrorSurfaces(t *testing.T) {
	f := newFixture()
	f.uc.store = failingStore{}
	_, err := f.uc.Search(context.Background(), SearchInput{Family: domain.FamilyProduct})
	assert.Error(t, err)
}

type failingStore struct{ domain.ListingStore }

func (failingStore) Query(context.Context, domain.Family, domain.QueryOptions) ([]*domain.Listing, bool, error) {
	return nil, false, errors.New("store down")
}
