package http

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"cookbook-service/internal/audit"
	"cookbook-service/internal/config"
	"cookbook-service/internal/domain/asset"
	"cookbook-service/internal/domain/recipe"
	"cookbook-service/internal/domain/shoppinglist"
	"cookbook-service/internal/domain/user"
	s3storage "cookbook-service/internal/storage/s3"
	apperrors "cookbook-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type memUsers struct {
	mu        sync.Mutex
	byID      map[uuid.UUID]*user.User
	favorites map[uuid.UUID]map[uuid.UUID]bool
	recipes   *memRecipes
}

func newMemUsers(recipes *memRecipes) *memUsers {
	return &memUsers{
		byID:      map[uuid.UUID]*user.User{},
		favorites: map[uuid.UUID]map[uuid.UUID]bool{},
		recipes:   recipes,
	}
}

func (m *memUsers) Create(_ context.Context, in user.CreateUserInput) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == in.Email {
			return nil, apperrors.EmailExists("This email is already associated with an account.")
		}
	}
	u := &user.User{ID: uuid.New(), Email: in.Email, PasswordHash: in.PasswordHash, Name: in.Name, Role: user.RoleUser}
	m.byID[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (m *memUsers) Update(_ context.Context, id uuid.UUID, in user.UpdateUserInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return apperrors.NotFound("user not found")
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.About != nil {
		u.About = *in.About
	}
	if in.Avatar != nil {
		u.Avatar = *in.Avatar
	}
	if in.PasswordHash != nil {
		u.PasswordHash = *in.PasswordHash
	}
	return nil
}

func (m *memUsers) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return apperrors.NotFound("user not found")
	}
	delete(m.byID, id)
	return nil
}

func (m *memUsers) setRole(id uuid.UUID, role user.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[id].Role = role
}

func (m *memUsers) Summary(ctx context.Context, id uuid.UUID) (*user.Summary, error) {
	u, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	own, _ := m.recipes.List(ctx, recipe.ListFilter{Author: &id})

	m.mu.Lock()
	defer m.mu.Unlock()
	return &user.Summary{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Recipes:   len(own),
		Favorites: len(m.favorites[id]),
	}, nil
}

func (m *memUsers) ListFavorites(ctx context.Context, userID uuid.UUID) ([]*recipe.Summary, error) {
	m.mu.Lock()
	ids := make([]uuid.UUID, 0, len(m.favorites[userID]))
	for id := range m.favorites[userID] {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	out := make([]*recipe.Summary, 0, len(ids))
	for _, id := range ids {
		r, err := m.recipes.GetByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, &recipe.Summary{ID: r.ID, Title: r.Title, UpdatedAt: r.UpdatedAt})
	}
	return out, nil
}

func (m *memUsers) ToggleFavorite(_ context.Context, userID, recipeID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	favs := m.favorites[userID]
	if favs == nil {
		favs = map[uuid.UUID]bool{}
		m.favorites[userID] = favs
	}
	if favs[recipeID] {
		delete(favs, recipeID)
		return false, nil
	}
	favs[recipeID] = true
	return true, nil
}

type memRecipes struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*recipe.Recipe
	now  time.Time
}

func newMemRecipes() *memRecipes {
	return &memRecipes{byID: map[uuid.UUID]*recipe.Recipe{}, now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memRecipes) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

func (m *memRecipes) Create(_ context.Context, in recipe.CreateRecipeInput) (*recipe.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ts := m.tick()
	r := &recipe.Recipe{
		ID:             uuid.New(),
		Author:         in.Author,
		Title:          in.Title,
		MainIngredient: in.MainIngredient,
		Description:    in.Description,
		Servings:       in.Servings,
		Cuisine:        in.Cuisine,
		Categories:     in.Categories,
		Ingredients:    in.Ingredients,
		Instructions:   in.Instructions,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
	m.byID[r.ID] = r
	cp := *r
	return &cp, nil
}

func (m *memRecipes) GetByID(_ context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, apperrors.NotFound("No recipe found with id: " + id.String())
	}
	cp := *r
	return &cp, nil
}

func (m *memRecipes) matching(f recipe.ListFilter) []*recipe.Recipe {
	var out []*recipe.Recipe
	for _, r := range m.byID {
		if f.PublicOnly && !r.Public {
			continue
		}
		if f.Author != nil && r.Author != *f.Author {
			continue
		}
		if f.ExcludeAuthor != nil && r.Author == *f.ExcludeAuthor {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

func (m *memRecipes) List(_ context.Context, f recipe.ListFilter) ([]*recipe.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.matching(f)
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memRecipes) Count(_ context.Context, f recipe.ListFilter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.matching(f)), nil
}

func (m *memRecipes) Search(_ context.Context, q string, limit int) ([]*recipe.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q = strings.ToLower(q)
	var out []*recipe.Recipe
	for _, r := range m.matching(recipe.ListFilter{PublicOnly: true}) {
		if strings.Contains(strings.ToLower(r.Title), q) || strings.Contains(strings.ToLower(r.Cuisine), q) {
			out = append(out, r)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memRecipes) Update(_ context.Context, id uuid.UUID, in recipe.UpdateRecipeInput) (*recipe.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, apperrors.NotFound("No recipe found with id: " + id.String())
	}
	if in.Title != nil {
		r.Title = *in.Title
	}
	if in.MainIngredient != nil {
		r.MainIngredient = *in.MainIngredient
	}
	if in.Description != nil {
		r.Description = *in.Description
	}
	if in.Photo != nil {
		r.Photo = *in.Photo
	}
	if in.Servings != nil {
		r.Servings = *in.Servings
	}
	r.UpdatedAt = m.tick()
	cp := *r
	return &cp, nil
}

func (m *memRecipes) SetPublic(_ context.Context, id uuid.UUID, public bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return apperrors.NotFound("No recipe found with id: " + id.String())
	}
	r.Public = public
	r.UpdatedAt = m.tick()
	return nil
}

func (m *memRecipes) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return apperrors.NotFound("No recipe found with id: " + id.String())
	}
	delete(m.byID, id)
	return nil
}

type memLists struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*shoppinglist.ShoppingList
}

func newMemLists() *memLists {
	return &memLists{byID: map[uuid.UUID]*shoppinglist.ShoppingList{}}
}

func (m *memLists) Create(_ context.Context, in shoppinglist.CreateShoppingListInput) (*shoppinglist.ShoppingList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := &shoppinglist.ShoppingList{ID: uuid.New(), Author: in.Author, Recipe: in.Recipe, Items: in.Items}
	m.byID[l.ID] = l
	cp := *l
	return &cp, nil
}

func (m *memLists) GetByID(_ context.Context, id uuid.UUID) (*shoppinglist.ShoppingList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.byID[id]
	if !ok {
		return nil, apperrors.NotFound("No shopping list found with id: " + id.String())
	}
	cp := *l
	return &cp, nil
}

func (m *memLists) ListByAuthor(_ context.Context, authorID uuid.UUID) ([]*shoppinglist.ShoppingList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*shoppinglist.ShoppingList
	for _, l := range m.byID {
		if l.Author == authorID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memLists) Update(_ context.Context, id uuid.UUID, in shoppinglist.UpdateShoppingListInput) (*shoppinglist.ShoppingList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.byID[id]
	if !ok {
		return nil, apperrors.NotFound("No shopping list found with id: " + id.String())
	}
	l.Items = in.Items
	cp := *l
	return &cp, nil
}

func (m *memLists) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

type memAssets struct {
	mu     sync.Mutex
	assets []asset.Asset
}

func (m *memAssets) Catalog(context.Context) (*asset.Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := asset.BuildCatalog(m.assets)
	return &c, nil
}

func (m *memAssets) Create(_ context.Context, kind asset.Kind, in asset.Input) (*asset.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := asset.Asset{ID: uuid.New(), Kind: kind, Label: in.Label, Decimal: in.Decimal}
	m.assets = append(m.assets, a)
	return &a, nil
}

func (m *memAssets) Update(_ context.Context, kind asset.Kind, id uuid.UUID, in asset.Input) (*asset.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.assets {
		if m.assets[i].ID == id && m.assets[i].Kind == kind {
			m.assets[i].Label = in.Label
			a := m.assets[i]
			return &a, nil
		}
	}
	return nil, apperrors.NotFound("No asset found with id: " + id.String())
}

func (m *memAssets) Delete(_ context.Context, kind asset.Kind, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.assets {
		if m.assets[i].ID == id && m.assets[i].Kind == kind {
			m.assets = append(m.assets[:i], m.assets[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFound("No asset found with id: " + id.String())
}

type failingPing struct{ err error }

func (f failingPing) Ping(context.Context) error { return f.err }

type memAudit struct {
	events chan audit.Event
	seen   []audit.Event
}

func (m *memAudit) InsertAuditEvent(_ context.Context, e audit.Event) error {
	m.events <- e
	return nil
}

// find returns the first recorded event matching action and status. Sink
// writes are asynchronous, so arrival order is not guaranteed.
func (m *memAudit) find(t *testing.T, action audit.Action, status audit.Status, reason string) audit.Event {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		for _, e := range m.seen {
			if e.Action == action && e.Status == status && e.Reason == reason {
				return e
			}
		}
		select {
		case e := <-m.events:
			m.seen = append(m.seen, e)
		case <-deadline:
			require.FailNow(t, "audit event not recorded", "%s %s %s", action, status, reason)
			return audit.Event{}
		}
	}
}

// memPhotos presigns with a real S3 client and records deletions instead of
// sending them.
type memPhotos struct {
	client *s3storage.Client

	mu      sync.Mutex
	deleted []string
}

func newMemPhotos(t *testing.T) *memPhotos {
	t.Helper()
	client, err := s3storage.NewClient(&config.AWSConfig{
		Region:          "eu-west-1",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		PhotoBucket:     "cookbook-photos",
		PhotoURLExpiry:  15 * time.Minute,
	})
	require.NoError(t, err)
	return &memPhotos{client: client}
}

func (m *memPhotos) PresignPhotoUpload(ctx context.Context, recipeID uuid.UUID, contentType string) (*s3storage.PhotoUpload, error) {
	return m.client.PresignPhotoUpload(ctx, recipeID, contentType)
}

func (m *memPhotos) DeletePhoto(_ context.Context, recipeID uuid.UUID, photoURL string) error {
	key, ok := m.client.OwnedPhotoKey(recipeID, photoURL)
	if !ok {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memPhotos) deletedKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}
