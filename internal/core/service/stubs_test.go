package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/docsewa/marketplace-api/internal/core/domain"
	"github.com/docsewa/marketplace-api/internal/core/ports"
)

// In-memory stand-ins for the repositories. The order and voucher stubs keep
// the same conditional-update semantics the real store guarantees, so the
// concurrency tests exercise the contract, not the stub.

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func cloneOrder(o *domain.Order) *domain.Order {
	if o == nil {
		return nil
	}
	clone := *o
	return &clone
}

func clonePartner(p *domain.PartnerProfile) *domain.PartnerProfile {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// ── users ─────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User // by id
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateStatus(_ context.Context, id string, status domain.UserStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Status = status
	return nil
}

// ── partners ──────────────────────────────────────────────────────────────────

type stubPartnerRepo struct {
	mu       sync.Mutex
	partners map[string]*domain.PartnerProfile // by id
}

func newStubPartnerRepo() *stubPartnerRepo {
	return &stubPartnerRepo{partners: make(map[string]*domain.PartnerProfile)}
}

func (r *stubPartnerRepo) Create(_ context.Context, p *domain.PartnerProfile) (*domain.PartnerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.partners[p.ID] = clonePartner(p)
	return clonePartner(p), nil
}

func (r *stubPartnerRepo) FindByID(_ context.Context, id string) (*domain.PartnerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.partners[id]; ok {
		return clonePartner(p), nil
	}
	return nil, domain.ErrPartnerNotFound
}

func (r *stubPartnerRepo) FindByUserID(_ context.Context, userID string) (*domain.PartnerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.partners {
		if p.UserID == userID {
			return clonePartner(p), nil
		}
	}
	return nil, domain.ErrProfileNotFound
}

func (r *stubPartnerRepo) List(_ context.Context) ([]*domain.PartnerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.PartnerProfile, 0, len(r.partners))
	for _, p := range r.partners {
		out = append(out, clonePartner(p))
	}
	return out, nil
}

func (r *stubPartnerRepo) UpdateVerification(_ context.Context, id string, status domain.VerificationStatus) (*domain.PartnerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.partners[id]
	if !ok {
		return nil, domain.ErrPartnerNotFound
	}
	p.VerificationStatus = status
	return clonePartner(p), nil
}

func (r *stubPartnerRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.partners)), nil
}

// ── requesters ────────────────────────────────────────────────────────────────

type stubRequesterRepo struct {
	mu         sync.Mutex
	requesters map[string]*domain.RequesterProfile
}

func newStubRequesterRepo() *stubRequesterRepo {
	return &stubRequesterRepo{requesters: make(map[string]*domain.RequesterProfile)}
}

func (r *stubRequesterRepo) Create(_ context.Context, p *domain.RequesterProfile) (*domain.RequesterProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *p
	r.requesters[p.ID] = &clone
	return &clone, nil
}

func (r *stubRequesterRepo) FindByID(_ context.Context, id string) (*domain.RequesterProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.requesters[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, domain.ErrProfileNotFound
}

func (r *stubRequesterRepo) FindByUserID(_ context.Context, userID string) (*domain.RequesterProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.requesters {
		if p.UserID == userID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrProfileNotFound
}

func (r *stubRequesterRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.requesters)), nil
}

// ── sessions ──────────────────────────────────────────────────────────────────

type stubSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Create(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *session
	s.sessions[session.Token] = &clone
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, token string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	if session.Expired(time.Now().UTC()) {
		return nil, domain.ErrSessionExpired
	}
	clone := *session
	return &clone, nil
}

func (s *stubSessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// ── orders ────────────────────────────────────────────────────────────────────

type stubOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[id]; ok {
		return cloneOrder(o), nil
	}
	return nil, domain.ErrOrderNotFound
}

func (r *stubOrderRepo) List(_ context.Context, filter ports.OrderListFilter) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Order
	for _, o := range r.orders {
		if matchesFilter(o, filter) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func matchesFilter(o *domain.Order, filter ports.OrderListFilter) bool {
	if filter.CustomerID != "" {
		return o.CustomerID == filter.CustomerID
	}
	if filter.ProviderID != "" {
		if o.ProviderID != nil && *o.ProviderID == filter.ProviderID {
			return true
		}
		return filter.Unassigned && o.ProviderID == nil && o.Status == domain.OrderPaymentCompleted
	}
	return true
}

// Claim mirrors the store's conditional update: the guard and the write are
// evaluated under one lock.
func (r *stubOrderRepo) Claim(_ context.Context, orderID, providerID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if o.ProviderID != nil {
		return nil, domain.ErrAlreadyAssigned
	}
	if o.Status != domain.OrderPaymentCompleted {
		return nil, domain.ErrInvalidState
	}
	o.ProviderID = &providerID
	o.Status = domain.OrderProcessing
	o.UpdatedAt = time.Now().UTC()
	return cloneOrder(o), nil
}

func (r *stubOrderRepo) Assign(_ context.Context, orderID, providerID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o.ProviderID = &providerID
	if o.Status == domain.OrderPaymentCompleted {
		o.Status = domain.OrderProcessing
	}
	o.UpdatedAt = time.Now().UTC()
	return cloneOrder(o), nil
}

func (r *stubOrderRepo) MarkPaid(_ context.Context, orderID string, finalPrice *decimal.Decimal) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return false, domain.ErrOrderNotFound
	}
	if o.Status != domain.OrderCreated && o.Status != domain.OrderPaymentPending {
		return false, nil
	}
	o.Status = domain.OrderPaymentCompleted
	o.PaymentStatus = domain.PaymentSuccess
	if finalPrice != nil {
		price := *finalPrice
		o.FinalPrice = &price
	}
	o.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *stubOrderRepo) ApplyUpdate(_ context.Context, orderID string, update ports.OrderUpdate) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if update.Status != nil {
		o.Status = *update.Status
	}
	if update.Rating != nil {
		rating := *update.Rating
		o.Rating = &rating
	}
	if update.Remarks != nil {
		o.Remarks = *update.Remarks
	}
	o.UpdatedAt = time.Now().UTC()
	return cloneOrder(o), nil
}

func (r *stubOrderRepo) UpdatedSince(_ context.Context, filter ports.OrderListFilter, since time.Time, limit int) ([]ports.StatusUpdate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Order
	for _, o := range r.orders {
		if matchesFilter(o, filter) && o.UpdatedAt.After(since) {
			matched = append(matched, o)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].UpdatedAt.After(matched[j].UpdatedAt) })
	if len(matched) > limit {
		matched = matched[:limit]
	}
	out := make([]ports.StatusUpdate, 0, len(matched))
	for _, o := range matched {
		out = append(out, ports.StatusUpdate{
			OrderID:       o.ID,
			Status:        o.Status,
			PaymentStatus: o.PaymentStatus,
			ServiceID:     o.ServiceID,
			UpdatedAt:     o.UpdatedAt,
		})
	}
	return out, nil
}

func (r *stubOrderRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.orders)), nil
}

func (r *stubOrderRepo) RevenueTotal(_ context.Context) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, o := range r.orders {
		if o.PaymentStatus == domain.PaymentSuccess && o.FinalPrice != nil {
			total = total.Add(*o.FinalPrice)
		}
	}
	return total, nil
}

// ── vouchers ──────────────────────────────────────────────────────────────────

type stubVoucherRepo struct {
	mu       sync.Mutex
	vouchers map[string]*domain.Voucher // by code
}

func newStubVoucherRepo() *stubVoucherRepo {
	return &stubVoucherRepo{vouchers: make(map[string]*domain.Voucher)}
}

func (r *stubVoucherRepo) Create(_ context.Context, v *domain.Voucher) (*domain.Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.vouchers[v.Code]; exists {
		return nil, domain.ErrVoucherExists
	}
	clone := *v
	r.vouchers[v.Code] = &clone
	return &clone, nil
}

func (r *stubVoucherRepo) FindByCode(_ context.Context, code string) (*domain.Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.vouchers[code]; ok {
		clone := *v
		return &clone, nil
	}
	return nil, domain.ErrVoucherNotFound
}

func (r *stubVoucherRepo) List(_ context.Context) ([]*domain.Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Voucher, 0, len(r.vouchers))
	for _, v := range r.vouchers {
		clone := *v
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubVoucherRepo) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.vouchers {
		if v.ID == id {
			v.IsActive = active
			return nil
		}
	}
	return domain.ErrVoucherNotFound
}

func (r *stubVoucherRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for code, v := range r.vouchers {
		if v.ID == id {
			delete(r.vouchers, code)
			return nil
		}
	}
	return domain.ErrVoucherNotFound
}

// Redeem mirrors the store's guarded increment.
func (r *stubVoucherRepo) Redeem(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vouchers[code]
	if !ok {
		return domain.ErrVoucherNotFound
	}
	if v.MaxUses != nil && v.CurrentUses >= *v.MaxUses {
		return domain.ErrConflict
	}
	v.CurrentUses++
	return nil
}

// ── catalog ───────────────────────────────────────────────────────────────────

type stubServiceRepo struct {
	mu       sync.Mutex
	services map[string]*domain.Service
}

func newStubServiceRepo() *stubServiceRepo {
	return &stubServiceRepo{services: make(map[string]*domain.Service)}
}

func (r *stubServiceRepo) Create(_ context.Context, s *domain.Service) (*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *s
	r.services[s.ID] = &clone
	return &clone, nil
}

func (r *stubServiceRepo) FindByID(_ context.Context, id string) (*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.services[id]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, domain.ErrServiceNotFound
}

func (r *stubServiceRepo) ListActive(_ context.Context) ([]*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Service
	for _, s := range r.services {
		if s.IsActive {
			clone := *s
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubServiceRepo) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[id]
	if !ok {
		return domain.ErrServiceNotFound
	}
	s.IsActive = active
	return nil
}
