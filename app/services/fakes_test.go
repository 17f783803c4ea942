package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

type fakeProducts struct {
	mu          sync.Mutex
	rows        map[string]*models.Product
	failOn      map[string]error
	linkCalls   int
	unlinkCalls int
	listErr     error
}

func newFakeProducts(ids ...string) *fakeProducts {
	f := &fakeProducts{rows: map[string]*models.Product{}, failOn: map[string]error{}}
	for i, id := range ids {
		f.rows[id] = &models.Product{ID: id, Name: "Producto " + id, IsActive: true, DisplayOrder: i}
	}
	return f
}

func (f *fakeProducts) get(id string) models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.rows[id]
}

// snapshot is the linkage state of every row, for comparing runs.
func (f *fakeProducts) snapshot() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]string{}
	for id, p := range f.rows {
		var promo, text string
		if p.SeasonalPromotionID != nil {
			promo = *p.SeasonalPromotionID
		}
		if p.PromotionText != nil {
			text = *p.PromotionText
		}
		out[id] = strings.Join([]string{promo, text, boolString(p.IsPromotion)}, "|")
	}
	return out
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func (f *fakeProducts) Create(ctx context.Context, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *product
	f.rows[product.ID] = &cp
	return nil
}

func (f *fakeProducts) Update(ctx context.Context, product *models.Product) error {
	return f.Create(ctx, product)
}

func (f *fakeProducts) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

func (f *fakeProducts) GetByID(ctx context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) sorted(filter func(*models.Product) bool) []models.ProductWithCategory {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ProductWithCategory
	for _, p := range f.rows {
		if filter(p) {
			out = append(out, models.ProductWithCategory{Product: *p})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}

func (f *fakeProducts) GetAllWithCategory(ctx context.Context) ([]models.ProductWithCategory, error) {
	return f.sorted(func(*models.Product) bool { return true }), f.listErr
}

func (f *fakeProducts) GetActiveWithCategory(ctx context.Context) ([]models.ProductWithCategory, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sorted(func(p *models.Product) bool { return p.IsActive }), nil
}

func (f *fakeProducts) GetActiveByPromotion(ctx context.Context, promotionID string) ([]models.ProductWithCategory, error) {
	return f.sorted(func(p *models.Product) bool { return p.IsActive && p.LinkedTo(promotionID) }), nil
}

func (f *fakeProducts) GetAllByName(ctx context.Context) ([]models.Product, error) {
	rows := f.sorted(func(*models.Product) bool { return true })
	out := make([]models.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Product)
	}
	return out, nil
}

func (f *fakeProducts) LinkedProductIDs(ctx context.Context, promotionID string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for id, p := range f.rows {
		if p.LinkedTo(promotionID) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeProducts) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.rows)), nil
}

func (f *fakeProducts) LinkPromotion(ctx context.Context, productID, promotionID, label string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.linkCalls++
	if err := f.failOn[productID]; err != nil {
		return err
	}
	p, ok := f.rows[productID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.SeasonalPromotionID = strPtr(promotionID)
	p.IsPromotion = true
	p.PromotionText = strPtr(label)
	return nil
}

func (f *fakeProducts) UnlinkPromotion(ctx context.Context, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unlinkCalls++
	if err := f.failOn[productID]; err != nil {
		return err
	}
	p, ok := f.rows[productID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.SeasonalPromotionID = nil
	p.IsPromotion = false
	p.PromotionText = nil
	return nil
}

type fakePromotions struct {
	rows        map[string]*models.SeasonalPromotion
	createCalls int
	updateCalls int
	deleteCalls int
	writeErr    error
	skipSlugChk bool
}

func newFakePromotions() *fakePromotions {
	return &fakePromotions{rows: map[string]*models.SeasonalPromotion{}}
}

func (f *fakePromotions) Create(ctx context.Context, p *models.SeasonalPromotion) error {
	f.createCalls++
	if f.writeErr != nil {
		return f.writeErr
	}
	cp := *p
	f.rows[p.ID] = &cp
	return nil
}

func (f *fakePromotions) Update(ctx context.Context, p *models.SeasonalPromotion) error {
	f.updateCalls++
	if f.writeErr != nil {
		return f.writeErr
	}
	cp := *p
	f.rows[p.ID] = &cp
	return nil
}

func (f *fakePromotions) Delete(ctx context.Context, id string) error {
	f.deleteCalls++
	delete(f.rows, id)
	return nil
}

func (f *fakePromotions) GetByID(ctx context.Context, id string) (*models.SeasonalPromotion, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePromotions) GetAll(ctx context.Context) ([]models.SeasonalPromotion, error) {
	var out []models.SeasonalPromotion
	for _, p := range f.rows {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate > out[j].StartDate })
	return out, nil
}

func (f *fakePromotions) GetRunningOn(ctx context.Context, today string) ([]models.SeasonalPromotion, error) {
	all, _ := f.GetAll(ctx)
	var out []models.SeasonalPromotion
	for _, p := range all {
		if p.RunningOn(today) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePromotions) GetRunningBySlug(ctx context.Context, slug, today string) (*models.SeasonalPromotion, error) {
	for _, p := range f.rows {
		if p.Slug == slug && p.RunningOn(today) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePromotions) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	if f.skipSlugChk {
		return false, nil
	}
	for _, p := range f.rows {
		if p.Slug == slug && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePromotions) CountRunningOn(ctx context.Context, today string) (int64, error) {
	running, _ := f.GetRunningOn(ctx, today)
	return int64(len(running)), nil
}

type fakeCategories struct {
	rows        map[string]*models.Category
	createCalls int
	deleted     []string
}

func newFakeCategories(cats ...models.Category) *fakeCategories {
	f := &fakeCategories{rows: map[string]*models.Category{}}
	for i := range cats {
		c := cats[i]
		f.rows[c.ID] = &c
	}
	return f
}

func (f *fakeCategories) Create(ctx context.Context, c *models.Category) error {
	f.createCalls++
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeCategories) GetByID(ctx context.Context, id string) (*models.Category, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategories) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	for _, c := range f.rows {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCategories) GetAll(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.rows {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeCategories) GetAllByName(ctx context.Context) ([]models.Category, error) {
	out, _ := f.GetAll(ctx)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCategories) Update(ctx context.Context, c *models.Category) error {
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeCategories) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.rows, id)
	return nil
}

func (f *fakeCategories) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	for _, c := range f.rows {
		if c.Slug == slug && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategories) Count(ctx context.Context) (int64, error) {
	return int64(len(f.rows)), nil
}

type fakeUserAdmin struct {
	users       map[string]*models.AuthUser
	createCalls int
	listCalls   int
	getCalls    int
	updateCalls int
}

func newFakeUserAdmin(users ...models.AuthUser) *fakeUserAdmin {
	f := &fakeUserAdmin{users: map[string]*models.AuthUser{}}
	for i := range users {
		u := users[i]
		f.users[u.ID] = &u
	}
	return f
}

func (f *fakeUserAdmin) CreateUser(ctx context.Context, email, password string, metadata models.UserMetadata) (*models.AuthUser, error) {
	f.createCalls++
	u := &models.AuthUser{ID: "new-" + email, Email: email, Metadata: metadata, CreatedAt: time.Now()}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserAdmin) ListUsers(ctx context.Context) ([]models.AuthUser, error) {
	f.listCalls++
	var out []models.AuthUser
	for _, u := range f.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserAdmin) GetUser(ctx context.Context, id string) (*models.AuthUser, error) {
	f.getCalls++
	u, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserAdmin) UpdateUserMetadata(ctx context.Context, id string, metadata models.UserMetadata) error {
	f.updateCalls++
	f.users[id].Metadata = metadata
	return nil
}

type fakeSettings struct {
	values  map[string]string
	failKey string
	written []string
}

func (f *fakeSettings) GetAll(ctx context.Context) ([]models.SiteSetting, error) {
	var out []models.SiteSetting
	for k, v := range f.values {
		out = append(out, models.SiteSetting{Key: k, Value: strPtr(v)})
	}
	return out, nil
}

func (f *fakeSettings) UpdateValue(ctx context.Context, key, value string) error {
	if key == f.failKey {
		return gorm.ErrInvalidDB
	}
	f.written = append(f.written, key)
	f.values[key] = value
	return nil
}

func (f *fakeSettings) EnsureDefaults(ctx context.Context, defaults map[string]string) (int, error) {
	created := 0
	for k, v := range defaults {
		if _, ok := f.values[k]; !ok {
			f.values[k] = v
			created++
		}
	}
	return created, nil
}

type fakeAuthUsers struct {
	byID    map[string]*models.AuthUser
	touched int
}

func (f *fakeAuthUsers) Create(ctx context.Context, u *models.AuthUser) error {
	if u.ID == "" {
		u.ID = "id-" + u.Email
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeAuthUsers) FindByID(ctx context.Context, id string) (*models.AuthUser, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeAuthUsers) FindByEmail(ctx context.Context, email string) (*models.AuthUser, error) {
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeAuthUsers) List(ctx context.Context) ([]models.AuthUser, error) {
	var out []models.AuthUser
	for _, u := range f.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeAuthUsers) UpdateMetadata(ctx context.Context, id string, metadata models.UserMetadata) error {
	u, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Metadata = metadata
	return nil
}

func (f *fakeAuthUsers) TouchLastSignIn(ctx context.Context, id string, at time.Time) error {
	f.touched++
	return nil
}

type fakeProfiles struct {
	rows    map[string]models.User
	listErr error
}

func (f *fakeProfiles) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeProfiles) RoleByUserID(ctx context.Context, id string) (string, error) {
	return f.rows[id].Role, nil
}

func (f *fakeProfiles) RolesByUserIDs(ctx context.Context, ids []string) (map[string]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	roles := map[string]string{}
	for _, id := range ids {
		if u, ok := f.rows[id]; ok {
			roles[id] = u.Role
		}
	}
	return roles, nil
}

func (f *fakeProfiles) Upsert(ctx context.Context, user *models.User) error {
	f.rows[user.ID] = *user
	return nil
}
