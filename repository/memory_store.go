package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anjiri1684/tutor_market/models"
	"github.com/google/uuid"
)

type memoryTables struct {
	profiles map[uuid.UUID]models.Profile
	services map[uuid.UUID]models.Service
	orders   map[uuid.UUID]models.Order
	payments map[uuid.UUID]models.Payment
	messages map[uuid.UUID]models.Message
	reviews  map[uuid.UUID]models.Review
}

func newMemoryTables() *memoryTables {
	return &memoryTables{
		profiles: map[uuid.UUID]models.Profile{},
		services: map[uuid.UUID]models.Service{},
		orders:   map[uuid.UUID]models.Order{},
		payments: map[uuid.UUID]models.Payment{},
		messages: map[uuid.UUID]models.Message{},
		reviews:  map[uuid.UUID]models.Review{},
	}
}

func cloneMap[T any](src map[uuid.UUID]T) map[uuid.UUID]T {
	dst := make(map[uuid.UUID]T, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (t *memoryTables) clone() *memoryTables {
	return &memoryTables{
		profiles: cloneMap(t.profiles),
		services: cloneMap(t.services),
		orders:   cloneMap(t.orders),
		payments: cloneMap(t.payments),
		messages: cloneMap(t.messages),
		reviews:  cloneMap(t.reviews),
	}
}

// MemoryStore keeps every table in process memory. It backs the tests and
// local runs without PostgreSQL. Transactions work on a copy of the tables
// that replaces the originals only when the callback succeeds.
type MemoryStore struct {
	mu     *sync.Mutex
	tables *memoryTables
	inTx   bool
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{mu: &sync.Mutex{}, tables: newMemoryTables(), now: time.Now}
}

func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &MemoryStore{mu: s.mu, tables: s.tables.clone(), inTx: true, now: s.now}
	if err := fn(tx); err != nil {
		return err
	}
	s.tables = tx.tables
	return nil
}

// stamp returns a creation time strictly after every existing one so that
// rows inserted within the same clock tick keep their insertion order.
func (s *MemoryStore) stamp(last time.Time) time.Time {
	now := s.now()
	if !now.After(last) {
		now = last.Add(time.Microsecond)
	}
	return now
}

func (s *MemoryStore) CreateProfile(ctx context.Context, profile *models.Profile) error {
	defer s.lock()()
	for _, p := range s.tables.profiles {
		if p.Email == profile.Email {
			return ErrDuplicate
		}
	}
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if profile.Role == "" {
		profile.Role = models.RoleStudent
	}
	profile.CreatedAt = s.now()
	profile.UpdatedAt = profile.CreatedAt
	s.tables.profiles[profile.ID] = *profile
	return nil
}

func (s *MemoryStore) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	defer s.lock()()
	p, ok := s.tables.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	defer s.lock()()
	for _, p := range s.tables.profiles {
		if p.Email == email {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetProfileByResetToken(ctx context.Context, token string) (*models.Profile, error) {
	defer s.lock()()
	for _, p := range s.tables.profiles {
		if p.ResetPasswordToken != nil && *p.ResetPasswordToken == token {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) SaveProfile(ctx context.Context, profile *models.Profile) error {
	defer s.lock()()
	if _, ok := s.tables.profiles[profile.ID]; !ok {
		return ErrNotFound
	}
	profile.UpdatedAt = s.now()
	s.tables.profiles[profile.ID] = *profile
	return nil
}

func (s *MemoryStore) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	defer s.lock()()
	profiles := make([]models.Profile, 0, len(s.tables.profiles))
	for _, p := range s.tables.profiles {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].CreatedAt.After(profiles[j].CreatedAt) })
	return profiles, nil
}

func (s *MemoryStore) profileRef(id uuid.UUID) *models.Profile {
	p, ok := s.tables.profiles[id]
	if !ok {
		return nil
	}
	return &p
}

func (s *MemoryStore) serviceRef(id uuid.UUID) *models.Service {
	svc, ok := s.tables.services[id]
	if !ok {
		return nil
	}
	return &svc
}

func (s *MemoryStore) CreateService(ctx context.Context, service *models.Service) error {
	defer s.lock()()
	if service.ID == uuid.Nil {
		service.ID = uuid.New()
	}
	var last time.Time
	for _, svc := range s.tables.services {
		if svc.CreatedAt.After(last) {
			last = svc.CreatedAt
		}
	}
	service.CreatedAt = s.stamp(last)
	service.UpdatedAt = service.CreatedAt
	stored := *service
	stored.Tutor = nil
	s.tables.services[service.ID] = stored
	return nil
}

func (s *MemoryStore) GetService(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	defer s.lock()()
	svc, ok := s.tables.services[id]
	if !ok {
		return nil, ErrNotFound
	}
	svc.Tutor = s.profileRef(svc.TutorID)
	return &svc, nil
}

func (s *MemoryStore) ListServices(ctx context.Context, filter ServiceFilter) ([]models.Service, error) {
	defer s.lock()()
	query := strings.ToLower(filter.Query)
	services := make([]models.Service, 0)
	for _, svc := range s.tables.services {
		if filter.ActiveOnly && !svc.IsActive {
			continue
		}
		if filter.TutorID != nil && svc.TutorID != *filter.TutorID {
			continue
		}
		if filter.ExcludeID != nil && svc.ID == *filter.ExcludeID {
			continue
		}
		if filter.Category != "" && svc.Category != filter.Category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(svc.Title), query) &&
			!strings.Contains(strings.ToLower(svc.Description), query) {
			continue
		}
		svc.Tutor = s.profileRef(svc.TutorID)
		services = append(services, svc)
	}
	sort.Slice(services, func(i, j int) bool {
		if filter.SortBy == SortRating && services[i].Rating != services[j].Rating {
			return services[i].Rating > services[j].Rating
		}
		return services[i].CreatedAt.After(services[j].CreatedAt)
	})
	if filter.Limit > 0 && len(services) > filter.Limit {
		services = services[:filter.Limit]
	}
	return services, nil
}

func (s *MemoryStore) SetServiceActive(ctx context.Context, id uuid.UUID, active bool) error {
	defer s.lock()()
	svc, ok := s.tables.services[id]
	if !ok {
		return ErrNotFound
	}
	svc.IsActive = active
	svc.UpdatedAt = s.now()
	s.tables.services[id] = svc
	return nil
}

func (s *MemoryStore) UpdateTutorRating(ctx context.Context, tutorID uuid.UUID, rating float64, totalReviews int) error {
	defer s.lock()()
	for id, svc := range s.tables.services {
		if svc.TutorID != tutorID {
			continue
		}
		svc.Rating = rating
		svc.TotalReviews = totalReviews
		s.tables.services[id] = svc
	}
	return nil
}

// LockTutorServices is a no-op: transactions already hold the store mutex.
func (s *MemoryStore) LockTutorServices(ctx context.Context, tutorID uuid.UUID) error {
	return nil
}

func (s *MemoryStore) CreateOrder(ctx context.Context, order *models.Order) error {
	defer s.lock()()
	var last time.Time
	for _, o := range s.tables.orders {
		if o.Reference == order.Reference {
			return ErrDuplicate
		}
		if o.CreatedAt.After(last) {
			last = o.CreatedAt
		}
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.Status == "" {
		order.Status = models.OrderPending
	}
	order.CreatedAt = s.stamp(last)
	order.UpdatedAt = order.CreatedAt
	stored := *order
	stored.Service, stored.Student, stored.Tutor = nil, nil, nil
	s.tables.orders[order.ID] = stored
	return nil
}

func (s *MemoryStore) withRelations(o models.Order) models.Order {
	o.Service = s.serviceRef(o.ServiceID)
	o.Student = s.profileRef(o.StudentID)
	o.Tutor = s.profileRef(o.TutorID)
	return o
}

func (s *MemoryStore) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	defer s.lock()()
	o, ok := s.tables.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	o = s.withRelations(o)
	return &o, nil
}

func (s *MemoryStore) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	defer s.lock()()
	orders := make([]models.Order, 0)
	for _, o := range s.tables.orders {
		if filter.StudentID != nil && o.StudentID != *filter.StudentID {
			continue
		}
		if filter.TutorID != nil && o.TutorID != *filter.TutorID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.DueAfter != nil && !o.DeliveryDate.After(*filter.DueAfter) {
			continue
		}
		if filter.DueBefore != nil && o.DeliveryDate.After(*filter.DueBefore) {
			continue
		}
		orders = append(orders, s.withRelations(o))
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (s *MemoryStore) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	defer s.lock()()
	o, ok := s.tables.orders[id]
	if !ok {
		return ErrNotFound
	}
	if o.Status != from {
		return ErrConflict
	}
	o.Status = to
	o.UpdatedAt = s.now()
	s.tables.orders[id] = o
	return nil
}

func (s *MemoryStore) OrderReferenceExists(ctx context.Context, reference string) (bool, error) {
	defer s.lock()()
	for _, o := range s.tables.orders {
		if o.Reference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ListPendingOrdersWithCompletedPayment(ctx context.Context) ([]models.Order, error) {
	defer s.lock()()
	orders := make([]models.Order, 0)
	for _, p := range s.tables.payments {
		if p.Status != models.PaymentCompleted {
			continue
		}
		if o, ok := s.tables.orders[p.OrderID]; ok && o.Status == models.OrderPending {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func (s *MemoryStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	defer s.lock()()
	if _, ok := s.tables.orders[payment.OrderID]; !ok {
		return ErrNotFound
	}
	for _, p := range s.tables.payments {
		if p.OrderID == payment.OrderID {
			return ErrDuplicate
		}
	}
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	payment.CreatedAt = s.now()
	payment.UpdatedAt = payment.CreatedAt
	s.tables.payments[payment.ID] = *payment
	return nil
}

func (s *MemoryStore) GetPaymentByOrder(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
	defer s.lock()()
	for _, p := range s.tables.payments {
		if p.OrderID == orderID {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string, transactionRef *string) error {
	defer s.lock()()
	p, ok := s.tables.payments[id]
	if !ok {
		return ErrNotFound
	}
	p.Status = status
	if transactionRef != nil {
		p.TransactionRef = transactionRef
	}
	p.UpdatedAt = s.now()
	s.tables.payments[id] = p
	return nil
}

func (s *MemoryStore) CreateMessage(ctx context.Context, message *models.Message) error {
	defer s.lock()()
	var last time.Time
	for _, m := range s.tables.messages {
		if m.OrderID == message.OrderID && m.CreatedAt.After(last) {
			last = m.CreatedAt
		}
	}
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	message.CreatedAt = s.stamp(last)
	s.tables.messages[message.ID] = *message
	return nil
}

func (s *MemoryStore) ListMessages(ctx context.Context, orderID uuid.UUID, after *time.Time) ([]models.Message, error) {
	defer s.lock()()
	messages := make([]models.Message, 0)
	for _, m := range s.tables.messages {
		if m.OrderID != orderID {
			continue
		}
		if after != nil && !m.CreatedAt.After(*after) {
			continue
		}
		messages = append(messages, m)
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].CreatedAt.Before(messages[j].CreatedAt) })
	return messages, nil
}

func (s *MemoryStore) MarkMessagesRead(ctx context.Context, orderID, receiverID uuid.UUID) (int64, error) {
	defer s.lock()()
	var n int64
	for id, m := range s.tables.messages {
		if m.OrderID == orderID && m.ReceiverID == receiverID && !m.IsRead {
			m.IsRead = true
			s.tables.messages[id] = m
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) CreateReview(ctx context.Context, review *models.Review) error {
	defer s.lock()()
	for _, r := range s.tables.reviews {
		if r.OrderID == review.OrderID {
			return ErrDuplicate
		}
	}
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	var last time.Time
	for _, r := range s.tables.reviews {
		if r.CreatedAt.After(last) {
			last = r.CreatedAt
		}
	}
	review.CreatedAt = s.stamp(last)
	stored := *review
	stored.Student = nil
	s.tables.reviews[review.ID] = stored
	return nil
}

func (s *MemoryStore) ReviewExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	defer s.lock()()
	for _, r := range s.tables.reviews {
		if r.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ListTutorRatings(ctx context.Context, tutorID uuid.UUID) ([]int, error) {
	defer s.lock()()
	ratings := make([]int, 0)
	for _, r := range s.tables.reviews {
		if r.TutorID == tutorID {
			ratings = append(ratings, r.Rating)
		}
	}
	return ratings, nil
}

func (s *MemoryStore) ListServiceReviews(ctx context.Context, serviceID uuid.UUID) ([]models.Review, error) {
	defer s.lock()()
	reviews := make([]models.Review, 0)
	for _, r := range s.tables.reviews {
		o, ok := s.tables.orders[r.OrderID]
		if !ok || o.ServiceID != serviceID {
			continue
		}
		r.Student = s.profileRef(r.StudentID)
		reviews = append(reviews, r)
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].CreatedAt.After(reviews[j].CreatedAt) })
	return reviews, nil
}
