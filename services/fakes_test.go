package services_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/cart"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/events"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/payments"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/repository"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/sender"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- products ---

type fakeProductRepo struct {
	products  map[uint]*models.Product
	reviews   []models.ProductReview
	findByIDs int
	findErr   error
	created   []*models.Product
}

func newFakeProductRepo(products ...models.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[uint]*models.Product{}}
	for i := range products {
		p := products[i]
		r.products[p.ID] = &p
	}
	return r
}

func (r *fakeProductRepo) List(_ context.Context, f models.ProductFilter) ([]models.Product, int64, error) {
	var out []models.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uint) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) FindByIDs(_ context.Context, ids []uint) ([]models.Product, error) {
	r.findByIDs++
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []models.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FindFeatured(_ context.Context, limit int) ([]models.Product, error) {
	var out []models.Product
	for _, p := range r.products {
		if p.Available && len(out) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Create(_ context.Context, p *models.Product) error {
	p.ID = uint(len(r.products) + 100)
	r.products[p.ID] = p
	r.created = append(r.created, p)
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *models.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) UpsertBySKU(_ context.Context, p *models.Product) error { return nil }
func (r *fakeProductRepo) ListCategories(context.Context) ([]models.Category, error) {
	return []models.Category{{ID: 1, Name: "journals", Slug: "journals"}}, nil
}
func (r *fakeProductRepo) FindCategoryBySlug(context.Context, string) (*models.Category, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeProductRepo) UpsertCategory(context.Context, *models.Category) error { return nil }

func (r *fakeProductRepo) ListReviews(_ context.Context, productID uint) ([]models.ProductReview, error) {
	var out []models.ProductReview
	for _, rv := range r.reviews {
		if rv.ProductID == productID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) AddReview(_ context.Context, review *models.ProductReview) error {
	review.ID = uint(len(r.reviews) + 1)
	r.reviews = append(r.reviews, *review)
	return nil
}

// --- cache ---

type fakeCache struct {
	items       map[uint]*models.Product
	invalidated []uint
}

func newFakeCache() *fakeCache { return &fakeCache{items: map[uint]*models.Product{}} }

func (c *fakeCache) Get(_ context.Context, id uint) (*models.Product, bool) {
	p, ok := c.items[id]
	return p, ok
}
func (c *fakeCache) Set(_ context.Context, p *models.Product) { c.items[p.ID] = p }
func (c *fakeCache) Invalidate(_ context.Context, id uint) {
	delete(c.items, id)
	c.invalidated = append(c.invalidated, id)
}

// --- orders ---

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    []*models.Order
	createErr error
	// beforeCreate runs ahead of the insert, standing in for a concurrent writer.
	beforeCreate func()
}

func (r *fakeOrderRepo) CreateWithLineItems(_ context.Context, order *models.Order, items []models.OrderLineItem, policy cart.DeliveryPolicy) error {
	if r.createErr != nil {
		return r.createErr
	}
	if r.beforeCreate != nil {
		hook := r.beforeCreate
		r.beforeCreate = nil
		hook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if order.StripePID != "" && o.StripePID == order.StripePID {
			return repository.ErrDuplicateOrder
		}
	}
	order.ID = uuid.New()
	if order.OrderNumber == "" {
		order.OrderNumber = models.NewOrderNumber()
	}
	order.LineItems = nil
	for _, it := range items {
		it.OrderID = order.ID
		order.LineItems = append(order.LineItems, it)
	}
	order.UpdateTotals(policy)
	r.orders = append(r.orders, order)
	return nil
}

func (r *fakeOrderRepo) FindByNumber(_ context.Context, n string) (*models.Order, error) {
	for _, o := range r.orders {
		if o.OrderNumber == n {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) FindByStripePID(_ context.Context, pid string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.StripePID == pid {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) FindByProfile(_ context.Context, profileID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range r.orders {
		if o.UserProfileID != nil && *o.UserProfileID == profileID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) AttachProfile(_ context.Context, orderID, profileID uuid.UUID) error {
	for _, o := range r.orders {
		if o.ID == orderID {
			id := profileID
			o.UserProfileID = &id
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// --- profiles ---

type fakeProfileRepo struct {
	profiles map[string]*models.UserProfile
	wishlist map[uuid.UUID][]uint
	listErr  error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*models.UserProfile{}, wishlist: map[uuid.UUID][]uint{}}
}

func (r *fakeProfileRepo) GetOrCreate(_ context.Context, userID string) (*models.UserProfile, error) {
	if p, ok := r.profiles[userID]; ok {
		return p, nil
	}
	p := &models.UserProfile{ID: uuid.New(), UserID: userID}
	r.profiles[userID] = p
	return p, nil
}

func (r *fakeProfileRepo) FindByUserID(_ context.Context, userID string) (*models.UserProfile, error) {
	if p, ok := r.profiles[userID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeProfileRepo) Update(_ context.Context, p *models.UserProfile) error {
	r.profiles[p.UserID] = p
	return nil
}

func (r *fakeProfileRepo) ListWishlist(_ context.Context, profileID uuid.UUID, page, limit int) ([]models.Product, int64, error) {
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	ids := r.wishlist[profileID]
	var out []models.Product
	start := (page - 1) * limit
	for i := start; i < len(ids) && i < start+limit; i++ {
		out = append(out, models.Product{ID: ids[i]})
	}
	return out, int64(len(ids)), nil
}

func (r *fakeProfileRepo) IsWishlisted(_ context.Context, profileID uuid.UUID, productID uint) (bool, error) {
	for _, id := range r.wishlist[profileID] {
		if id == productID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProfileRepo) AddToWishlist(_ context.Context, profileID uuid.UUID, productID uint) error {
	r.wishlist[profileID] = append(r.wishlist[profileID], productID)
	return nil
}

func (r *fakeProfileRepo) RemoveFromWishlist(_ context.Context, profileID uuid.UUID, productID uint) error {
	ids := r.wishlist[profileID][:0]
	for _, id := range r.wishlist[profileID] {
		if id != productID {
			ids = append(ids, id)
		}
	}
	r.wishlist[profileID] = ids
	return nil
}

// --- blog ---

type fakeBlogRepo struct {
	posts    map[string]*models.Post
	comments []models.Comment
}

func (r *fakeBlogRepo) ListPublished(context.Context, int, int) ([]models.Post, int64, error) {
	var out []models.Post
	for _, p := range r.posts {
		if p.Status == models.PostPublished {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBlogRepo) ListFeatured(context.Context, int) ([]models.Post, error) { return nil, nil }

func (r *fakeBlogRepo) FindBySlug(_ context.Context, slug string) (*models.Post, error) {
	if p, ok := r.posts[slug]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeBlogRepo) Create(_ context.Context, p *models.Post) error {
	if _, ok := r.posts[p.Slug]; ok {
		return errors.New("duplicate key value violates unique constraint")
	}
	p.ID = uint(len(r.posts) + 1)
	r.posts[p.Slug] = p
	return nil
}

func (r *fakeBlogRepo) Update(_ context.Context, p *models.Post) error { return nil }

func (r *fakeBlogRepo) ListApprovedComments(_ context.Context, postID uint) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range r.comments {
		if c.PostID == postID && c.Approved {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeBlogRepo) CountPendingComments(_ context.Context, postID uint, userID string) (int64, error) {
	var n int64
	for _, c := range r.comments {
		if c.PostID == postID && c.UserID == userID && userID != "" && !c.Approved {
			n++
		}
	}
	return n, nil
}

func (r *fakeBlogRepo) CreateComment(_ context.Context, c *models.Comment) error {
	c.ID = uint(len(r.comments) + 1)
	r.comments = append(r.comments, *c)
	return nil
}

// --- home ---

type fakeHomeRepo struct {
	faqs     []models.FAQ
	messages []models.ContactMessage
}

func (r *fakeHomeRepo) ListActiveFAQs(context.Context) ([]models.FAQ, error) { return r.faqs, nil }
func (r *fakeHomeRepo) CreateContactMessage(_ context.Context, m *models.ContactMessage) error {
	m.ID = uint(len(r.messages) + 1)
	r.messages = append(r.messages, *m)
	return nil
}

// --- payments ---

type fakeGateway struct {
	created   []int64
	createErr error
	metadata  map[string]map[string]string
	updateErr error
	event     *payments.Event
	parseErr  error
}

func (g *fakeGateway) CreateIntent(_ context.Context, amount int64, currency string) (*payments.Intent, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created = append(g.created, amount)
	return &payments.Intent{ID: "pi_test", ClientSecret: "pi_test_secret_abc", Amount: amount, Currency: currency}, nil
}

func (g *fakeGateway) UpdateMetadata(_ context.Context, id string, md map[string]string) error {
	if g.updateErr != nil {
		return g.updateErr
	}
	if g.metadata == nil {
		g.metadata = map[string]map[string]string{}
	}
	g.metadata[id] = md
	return nil
}

func (g *fakeGateway) ParseWebhook([]byte, string) (*payments.Event, error) {
	if g.parseErr != nil {
		return nil, g.parseErr
	}
	return g.event, nil
}

// --- events ---

type fakePublisher struct {
	published []events.OrderCreated
}

func (p *fakePublisher) PublishOrderCreated(_ context.Context, evt events.OrderCreated) error {
	p.published = append(p.published, evt)
	return nil
}

// --- metrics ---

type fakeMetrics struct {
	mu     sync.Mutex
	counts map[string]float64
}

func newFakeMetrics() *fakeMetrics { return &fakeMetrics{counts: map[string]float64{}} }

func (m *fakeMetrics) RecordCount(_ context.Context, name string, _ map[string]string) error {
	m.mu.Lock()
	m.counts[name]++
	m.mu.Unlock()
	return nil
}

func (m *fakeMetrics) RecordValue(_ context.Context, name string, v float64, _ map[string]string) error {
	m.mu.Lock()
	m.counts[name] += v
	m.mu.Unlock()
	return nil
}

// --- email ---

type sentEmail struct{ to, subject, body string }

type fakeEmail struct {
	sent []sentEmail
	err  error
}

func (f *fakeEmail) SendEmail(_ context.Context, to, subject, body string) (sender.SendResult, error) {
	if f.err != nil {
		return sender.SendResult{}, f.err
	}
	f.sent = append(f.sent, sentEmail{to, subject, body})
	return sender.SendResult{MessageID: "m"}, nil
}

// --- newsletter ---

type fakeNewsletter struct {
	subscribed   []string
	unsubscribed []string
	err          error
}

func (f *fakeNewsletter) Subscribe(_ context.Context, email string) error {
	if f.err != nil {
		return f.err
	}
	f.subscribed = append(f.subscribed, email)
	return nil
}

func (f *fakeNewsletter) Unsubscribe(_ context.Context, email string) error {
	if f.err != nil {
		return f.err
	}
	f.unsubscribed = append(f.unsubscribed, email)
	return nil
}

func (f *fakeNewsletter) Ping(context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "Everything's Chimpy!", nil
}
