package service

import (
	"context"
	"time"

	"sovereign/api/internal/models"
	"sovereign/api/internal/repository"
)

// syncRunner executes detached tasks inline so tests observe their
// effects deterministically.
type syncRunner struct {
	names []string
}

func (r *syncRunner) Submit(name string, fn func(ctx context.Context) error) {
	r.names = append(r.names, name)
	_ = fn(context.Background())
}

type fakeUserStore struct {
	usersByEmail map[string]models.User
	created      []models.User
	createErr    error
	findErr      error

	handleTaken     bool
	handleTakenErr  error
	lastLoginTouch  map[string]time.Time
	statusUpdates   map[string]models.UserStatus
	statusErr       map[string]error
	acctUpdates     map[string]models.AccountType
	acctErr         map[string]error
	allUsers        []models.User
	stats           repository.Stats
	collectStatsErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		usersByEmail:   map[string]models.User{},
		lastLoginTouch: map[string]time.Time{},
		statusUpdates:  map[string]models.UserStatus{},
		statusErr:      map[string]error{},
		acctUpdates:    map[string]models.AccountType{},
		acctErr:        map[string]error{},
	}
}

func (f *fakeUserStore) add(user models.User) {
	f.usersByEmail[user.Email] = user
}

func (f *fakeUserStore) Create(ctx context.Context, user models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, user)
	f.add(user)
	return nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	if f.findErr != nil {
		return models.User{}, f.findErr
	}
	user, ok := f.usersByEmail[email]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) HandleTaken(ctx context.Context, handle string) (bool, error) {
	return f.handleTaken, f.handleTakenErr
}

func (f *fakeUserStore) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	f.lastLoginTouch[id] = at
	return nil
}

func (f *fakeUserStore) UpdateStatus(ctx context.Context, id string, status models.UserStatus) error {
	if err, ok := f.statusErr[id]; ok {
		return err
	}
	f.statusUpdates[id] = status
	return nil
}

func (f *fakeUserStore) UpdateAccountType(ctx context.Context, id string, accountType models.AccountType) error {
	if err, ok := f.acctErr[id]; ok {
		return err
	}
	f.acctUpdates[id] = accountType
	return nil
}

func (f *fakeUserStore) ListNewest(ctx context.Context, limit int) ([]models.User, error) {
	if limit < len(f.allUsers) {
		return f.allUsers[:limit], nil
	}
	return f.allUsers, nil
}

func (f *fakeUserStore) ListAll(ctx context.Context) ([]models.User, error) {
	return f.allUsers, nil
}

func (f *fakeUserStore) CollectStats(ctx context.Context) (repository.Stats, error) {
	return f.stats, f.collectStatsErr
}

type fakeApplicationStore struct {
	exists    bool
	existsErr error

	createdApp *models.Application
	createdAff *models.Affirmations
	createErr  error

	app    models.Application
	aff    models.Affirmations
	getErr error

	pending []models.PendingReview
	all     []models.Application
	listErr error
}

func (f *fakeApplicationStore) ExistsForUser(ctx context.Context, userID string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeApplicationStore) CreateWithAffirmations(ctx context.Context, app models.Application, aff models.Affirmations) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.createdApp = &app
	f.createdAff = &aff
	return nil
}

func (f *fakeApplicationStore) GetByUser(ctx context.Context, userID string) (models.Application, models.Affirmations, error) {
	if f.getErr != nil {
		return models.Application{}, models.Affirmations{}, f.getErr
	}
	return f.app, f.aff, nil
}

func (f *fakeApplicationStore) ListPending(ctx context.Context) ([]models.PendingReview, error) {
	return f.pending, f.listErr
}

func (f *fakeApplicationStore) ListAll(ctx context.Context) ([]models.Application, error) {
	return f.all, f.listErr
}

type fakeReviewStore struct {
	approveCalls []string
	approveErr   error
	rejectCalls  []string
	rejectErr    error
}

func (f *fakeReviewStore) Approve(ctx context.Context, userID string, handle string) error {
	if f.approveErr != nil {
		return f.approveErr
	}
	f.approveCalls = append(f.approveCalls, userID+":"+handle)
	return nil
}

func (f *fakeReviewStore) Reject(ctx context.Context, userID string) error {
	if f.rejectErr != nil {
		return f.rejectErr
	}
	f.rejectCalls = append(f.rejectCalls, userID)
	return nil
}

type fakeSessionStore struct {
	puts map[string]string
	ttls map[string]time.Duration
	err  error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		puts: map[string]string{},
		ttls: map[string]time.Duration{},
	}
}

func (f *fakeSessionStore) Put(ctx context.Context, userID string, token string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.puts[userID] = token
	f.ttls[userID] = ttl
	return nil
}

type fakeStatsSnapshot struct {
	stats  repository.Stats
	getErr error
	sets   []repository.Stats
	setErr error
}

func (f *fakeStatsSnapshot) Get(ctx context.Context) (repository.Stats, error) {
	if f.getErr != nil {
		return repository.Stats{}, f.getErr
	}
	return f.stats, nil
}

func (f *fakeStatsSnapshot) Set(ctx context.Context, stats repository.Stats) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.sets = append(f.sets, stats)
	return nil
}

type fakeArchiver struct {
	objects map[string][]byte
	err     error
}

func newFakeArchiver() *fakeArchiver {
	return &fakeArchiver{objects: map[string][]byte{}}
}

func (f *fakeArchiver) Store(ctx context.Context, objectName string, contentType string, body []byte) error {
	if f.err != nil {
		return f.err
	}
	f.objects[objectName] = body
	return nil
}
