package pets

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-manager/internal/platform/validation"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID       map[string]Pet
	updates    int
	deletes    int
	lastOffset int
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(ctx context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) sorted() []Pet {
	out := make([]Pet, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	out := make([]Pet, 0)
	for _, p := range r.sorted() {
		if p.OwnerUserID == ownerUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *testRepo) ListPage(ctx context.Context, limit, offset int) ([]Pet, int, error) {
	r.lastOffset = offset
	all := r.sorted()
	if offset >= len(all) {
		return []Pet{}, len(all), nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], len(all), nil
}

func (r *testRepo) Update(ctx context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.updates++
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	r.deletes++
	delete(r.byID, id)
	return nil
}

func newTestService() (*Service, *testRepo, *time.Time) {
	repo := newTestRepo()
	svc := NewService(repo)
	clock := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }
	return svc, repo, &clock
}

func ptr[T any](v T) *T { return &v }

func TestCreate_InjectsOwner(t *testing.T) {
	svc, repo, _ := newTestService()

	p, err := svc.Create(context.Background(), "user-a", CreateInput{
		Name:    "  Fido ",
		Species: "Dog",
		Age:     ptr(5),
	})
	require.NoError(t, err)

	assert.Equal(t, "user-a", p.OwnerUserID)
	assert.Equal(t, "Fido", p.Name)
	assert.Nil(t, p.Breed)
	require.NotNil(t, p.Age)
	assert.Equal(t, 5, *p.Age)

	stored, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, stored)
}

func TestCreate_Validation(t *testing.T) {
	cases := []struct {
		name  string
		in    CreateInput
		field string
		msg   string
	}{
		{"missing name", CreateInput{Species: "Dog"}, "name", "El nombre de la mascota es obligatorio."},
		{"blank species", CreateInput{Name: "Fido", Species: "   "}, "species", "La especie de la mascota es obligatoria."},
		{"negative age", CreateInput{Name: "Fido", Species: "Dog", Age: ptr(-1)}, "age", "La edad no puede ser negativa."},
		{"age beyond column range", CreateInput{Name: "Fido", Species: "Dog", Age: ptr(3000000000)}, "age", "La edad no debe ser mayor a 2147483647."},
		{"long breed", CreateInput{Name: "Fido", Species: "Dog", Breed: ptr(strings.Repeat("x", 256))}, "breed", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _ := newTestService()

			_, err := svc.Create(context.Background(), "user-a", tc.in)

			var verrs validation.Errors
			require.True(t, errors.As(err, &verrs), "want validation.Errors, got %v", err)
			require.True(t, verrs.Has(tc.field))
			if tc.msg != "" {
				assert.Equal(t, tc.msg, verrs[tc.field][0])
			}
			assert.Empty(t, repo.byID)
		})
	}
}

func TestCreate_ZeroAgeIsValid(t *testing.T) {
	svc, _, _ := newTestService()

	p, err := svc.Create(context.Background(), "user-a", CreateInput{Name: "Michi", Species: "Cat", Age: ptr(0)})
	require.NoError(t, err)
	require.NotNil(t, p.Age)
	assert.Equal(t, 0, *p.Age)
}

func TestUpdate_NonOwnerIsForbiddenAndRecordUnchanged(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, "user-a", CreateInput{Name: "Fido", Species: "Dog", Age: ptr(5)})
	require.NoError(t, err)

	_, err = svc.Update(ctx, Actor{ID: "user-b"}, p.ID, UpdateInput{Name: Some("Hacked")})
	require.ErrorIs(t, err, ErrForbidden)

	var denied *DeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, "No autorizado para actualizar esta mascota.", denied.Reason)

	stored, _ := repo.GetByID(ctx, p.ID)
	assert.Equal(t, "Fido", stored.Name)
	assert.Zero(t, repo.updates)
}

func TestUpdate_OwnerChangesOnlySuppliedFields(t *testing.T) {
	svc, repo, clock := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, "user-a", CreateInput{Name: "Fido", Species: "Dog", Breed: ptr("Beagle"), Age: ptr(5)})
	require.NoError(t, err)

	*clock = clock.Add(time.Hour)
	updated, err := svc.Update(ctx, Actor{ID: "user-a"}, p.ID, UpdateInput{Age: Some(6)})
	require.NoError(t, err)

	assert.Equal(t, "Fido", updated.Name)
	assert.Equal(t, "Dog", updated.Species)
	require.NotNil(t, updated.Breed)
	assert.Equal(t, "Beagle", *updated.Breed)
	require.NotNil(t, updated.Age)
	assert.Equal(t, 6, *updated.Age)
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))

	stored, _ := repo.GetByID(ctx, p.ID)
	assert.Equal(t, updated, stored)
}

func TestUpdate_NullClearsOptionalFields(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, "user-a", CreateInput{Name: "Fido", Species: "Dog", Breed: ptr("Beagle"), Age: ptr(5)})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, Actor{ID: "user-a"}, p.ID, UpdateInput{Breed: Null[string](), Age: Null[int]()})
	require.NoError(t, err)
	assert.Nil(t, updated.Breed)
	assert.Nil(t, updated.Age)
}

func TestUpdate_AgeBounds(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, "user-a", CreateInput{Name: "Fido", Species: "Dog", Age: ptr(MaxAge)})
	require.NoError(t, err)

	_, err = svc.Update(ctx, Actor{ID: "user-a"}, p.ID, UpdateInput{Age: Some(3000000000)})
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, []string{"La edad no debe ser mayor a 2147483647."}, verrs["age"])
	assert.Zero(t, repo.updates)
}

func TestUpdate_Order(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, "user-a", CreateInput{Name: "Fido", Species: "Dog"})
	require.NoError(t, err)

	// id inexistente => 404 aunque el payload sea inválido
	_, err = svc.Update(ctx, Actor{ID: "user-b"}, "missing", UpdateInput{Age: Some(-3)})
	assert.ErrorIs(t, err, ErrNotFound)

	// payload inválido => 422 antes que la política
	_, err = svc.Update(ctx, Actor{ID: "user-b"}, p.ID, UpdateInput{Name: Null[string]()})
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, []string{"El nombre de la mascota debe ser una cadena de texto."}, verrs["name"])

	assert.Zero(t, repo.updates)
}

func TestDelete(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, "user-a", CreateInput{Name: "Fido", Species: "Dog"})
	require.NoError(t, err)

	err = svc.Delete(ctx, Actor{ID: "user-b"}, p.ID)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, Actor{ID: "user-a"}, p.ID))
	_, err = repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, Actor{ID: "user-a"}, p.ID), ErrNotFound)
}

func TestGet_AnyAuthenticatedUserCanView(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, "user-a", CreateInput{Name: "Fido", Species: "Dog"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, Actor{ID: "user-b"}, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = svc.Get(ctx, Actor{ID: "user-b"}, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAll_Pagination(t *testing.T) {
	svc, _, clock := newTestService()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		*clock = clock.Add(time.Minute)
		_, err := svc.Create(ctx, "user-a", CreateInput{Name: "P", Species: "Dog"})
		require.NoError(t, err)
	}

	page, err := svc.ListAll(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.PerPage)
	assert.Equal(t, 3, page.LastPage)

	// clamps
	page, err = svc.ListAll(ctx, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, MaxPerPage, page.PerPage)
	assert.Len(t, page.Items, 5)

	page, err = svc.ListAll(ctx, -4, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.PerPage)
}

func TestListAll_HugePageDoesNotWrapOffset(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-a", CreateInput{Name: "Fido", Species: "Dog"})
	require.NoError(t, err)

	for _, page := range []int{922337203685477580, math.MaxInt} {
		got, err := svc.ListAll(ctx, page, 20)
		require.NoError(t, err)
		assert.Empty(t, got.Items)
		assert.Equal(t, 1, got.Total)
		assert.Equal(t, page, got.Page)
		assert.Equal(t, 1, got.LastPage)
		assert.GreaterOrEqual(t, repo.lastOffset, 0)
		assert.Zero(t, got.From())
		assert.Zero(t, got.To())
	}
}

func TestPage_FromTo(t *testing.T) {
	p := Page{Items: make([]Pet, 3), Page: 2, PerPage: 5}
	assert.Equal(t, 6, p.From())
	assert.Equal(t, 8, p.To())
}

func TestListAll_Empty(t *testing.T) {
	svc, _, _ := newTestService()

	page, err := svc.ListAll(context.Background(), 3, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.LastPage)
}

func TestUpdateInput_DecodeDistinguishesNullFromAbsent(t *testing.T) {
	var in UpdateInput
	err := validation.Decode(strings.NewReader(`{"breed": null, "age": 3}`), &in, Rules)
	require.NoError(t, err)

	assert.False(t, in.Name.Set)
	assert.True(t, in.Breed.Set)
	assert.True(t, in.Breed.Null)
	assert.Equal(t, Some(3), in.Age)
}

func TestUpdateInput_DecodeTypeError(t *testing.T) {
	var in UpdateInput
	err := validation.Decode(strings.NewReader(`{"age": "old"}`), &in, Rules)

	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, []string{"La edad debe ser un número entero."}, verrs["age"])
}
