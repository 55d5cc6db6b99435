package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"gojo/internal/admin/repository"
	userserrors "gojo/internal/users/errors"
	"gojo/pkg/config"
	apperrors "gojo/pkg/errors"
	"gojo/pkg/kafka"
	"gojo/pkg/logger"
	"gojo/pkg/model"
)

const (
	listingID = "64a1f0c2e1b2c3d4e5f60101"
	hostID    = "64a1f0c2e1b2c3d4e5f60718"
	userID    = "64a1f0c2e1b2c3d4e5f60222"
)

type statusWrite struct {
	id     string
	status string
	notes  string
}

type flagWrite struct {
	id      string
	flagged bool
	reason  string
}

type mockAdminRepository struct {
	findListingFn   func(ctx context.Context, id string) (*model.Listing, error)
	collectCountsFn func(ctx context.Context) (*repository.DashboardCounts, error)
	statusWrites    []statusWrite
	flagWrites      []flagWrite
	countsCalls     int
}

func (m *mockAdminRepository) FindPendingListings(ctx context.Context, limit int, offset int64) ([]*model.Listing, error) {
	return []*model.Listing{}, nil
}

func (m *mockAdminRepository) CountPendingListings(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockAdminRepository) FindListing(ctx context.Context, id string) (*model.Listing, error) {
	if m.findListingFn != nil {
		return m.findListingFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminRepository) SetListingStatus(ctx context.Context, id string, status string, notes string) error {
	m.statusWrites = append(m.statusWrites, statusWrite{id: id, status: status, notes: notes})
	return nil
}

func (m *mockAdminRepository) SetListingFlag(ctx context.Context, id string, flagged bool, reason string) error {
	m.flagWrites = append(m.flagWrites, flagWrite{id: id, flagged: flagged, reason: reason})
	return nil
}

func (m *mockAdminRepository) CollectDashboardCounts(ctx context.Context) (*repository.DashboardCounts, error) {
	m.countsCalls++
	if m.collectCountsFn != nil {
		return m.collectCountsFn(ctx)
	}
	return &repository.DashboardCounts{
		ListingsByStatus: map[string]int64{model.ListingStatusActive: 3},
		BookingsByStatus: map[string]int64{model.BookingStatusConfirmed: 2},
		UsersByRole:      map[string]int64{model.RoleHost: 1},
	}, nil
}

type mockUserRepository struct {
	setSuspendedFn func(ctx context.Context, id string, suspended bool) error
	suspendWrites  []bool
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	return errors.New("not implemented")
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) Update(ctx context.Context, id string, user *model.User) error {
	return errors.New("not implemented")
}

func (m *mockUserRepository) SetSuspended(ctx context.Context, id string, suspended bool) error {
	if m.setSuspendedFn != nil {
		if err := m.setSuspendedFn(ctx, id, suspended); err != nil {
			return err
		}
	}
	m.suspendWrites = append(m.suspendWrites, suspended)
	return nil
}

type capturingPublisher struct {
	published []kafka.Message
	err       error
}

func (p *capturingPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, msg)
	return nil
}

type fakeCache struct {
	entries map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	value, ok := c.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return value, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = value
	c.ttls[key] = ttl
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log:               logger.New(logger.Config{Level: logger.ERROR, Format: logger.JSON, Output: io.Discard}),
		DashboardCacheTTL: 5 * time.Minute,
	}
}

func pendingListing() *model.Listing {
	return &model.Listing{
		ID:     listingID,
		HostID: hostID,
		Title:  "Bole Guesthouse",
		Status: model.ListingStatusPending,
	}
}

func newTestService(repo *mockAdminRepository, users *mockUserRepository, publisher *capturingPublisher, cache Cache) AdminService {
	return NewAdminService(repo, users, publisher, cache, testConfig())
}

func TestApproveListingPublishesModeration(t *testing.T) {
	repo := &mockAdminRepository{
		findListingFn: func(ctx context.Context, id string) (*model.Listing, error) {
			return pendingListing(), nil
		},
	}
	publisher := &capturingPublisher{}
	svc := newTestService(repo, &mockUserRepository{}, publisher, nil)

	if err := svc.ApproveListing(context.Background(), listingID); err != nil {
		t.Fatalf("ApproveListing failed: %v", err)
	}

	if len(repo.statusWrites) != 1 {
		t.Fatalf("expected 1 status write, got %d", len(repo.statusWrites))
	}
	write := repo.statusWrites[0]
	if write.status != model.ListingStatusActive || write.notes != "" {
		t.Errorf("unexpected status write: %+v", write)
	}

	if len(publisher.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(publisher.published))
	}
	msg := publisher.published[0]
	if msg.Key != listingID {
		t.Errorf("expected event keyed by listing ID, got %q", msg.Key)
	}
	if msg.GetEventType() != model.EventListingModerated {
		t.Errorf("expected event type %q, got %q", model.EventListingModerated, msg.GetEventType())
	}

	var event model.ListingModerationEvent
	if err := msg.DecodeValue(&event); err != nil {
		t.Fatalf("failed to decode event payload: %v", err)
	}
	if event.Status != model.ListingStatusActive || event.HostID != hostID {
		t.Errorf("unexpected event payload: %+v", event)
	}
}

func TestModerationRequiresPendingStatus(t *testing.T) {
	for _, status := range []string{
		model.ListingStatusDraft,
		model.ListingStatusActive,
		model.ListingStatusRejected,
		model.ListingStatusSuspended,
	} {
		t.Run(status, func(t *testing.T) {
			listing := pendingListing()
			listing.Status = status
			repo := &mockAdminRepository{
				findListingFn: func(ctx context.Context, id string) (*model.Listing, error) {
					return listing, nil
				},
			}
			publisher := &capturingPublisher{}
			svc := newTestService(repo, &mockUserRepository{}, publisher, nil)

			err := svc.ApproveListing(context.Background(), listingID)

			appErr := apperrors.AsAppError(err)
			if appErr.Code != apperrors.CodeConflict {
				t.Fatalf("expected conflict error, got %v", err)
			}
			if len(repo.statusWrites) != 0 {
				t.Error("expected no status write for non-pending listing")
			}
			if len(publisher.published) != 0 {
				t.Error("expected no event for non-pending listing")
			}
		})
	}
}

func TestRejectListingCarriesNotes(t *testing.T) {
	repo := &mockAdminRepository{
		findListingFn: func(ctx context.Context, id string) (*model.Listing, error) {
			return pendingListing(), nil
		},
	}
	publisher := &capturingPublisher{}
	svc := newTestService(repo, &mockUserRepository{}, publisher, nil)

	notes := "Photos do not match the address"
	if err := svc.RejectListing(context.Background(), listingID, "  "+notes+"  "); err != nil {
		t.Fatalf("RejectListing failed: %v", err)
	}

	if len(repo.statusWrites) != 1 {
		t.Fatalf("expected 1 status write, got %d", len(repo.statusWrites))
	}
	write := repo.statusWrites[0]
	if write.status != model.ListingStatusRejected || write.notes != notes {
		t.Errorf("unexpected status write: %+v", write)
	}

	var event model.ListingModerationEvent
	if err := publisher.published[0].DecodeValue(&event); err != nil {
		t.Fatalf("failed to decode event payload: %v", err)
	}
	if event.Notes != notes {
		t.Errorf("expected event notes %q, got %q", notes, event.Notes)
	}
}

func TestRejectListingRequiresNotes(t *testing.T) {
	repo := &mockAdminRepository{}
	svc := newTestService(repo, &mockUserRepository{}, &capturingPublisher{}, nil)

	err := svc.RejectListing(context.Background(), listingID, "   ")

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.statusWrites) != 0 {
		t.Error("expected no status write without notes")
	}
}

func TestFlagListingRequiresReason(t *testing.T) {
	repo := &mockAdminRepository{}
	svc := newTestService(repo, &mockUserRepository{}, &capturingPublisher{}, nil)

	err := svc.FlagListing(context.Background(), listingID, "")

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.flagWrites) != 0 {
		t.Error("expected no flag write without reason")
	}
}

func TestFlagAndUnflagListing(t *testing.T) {
	repo := &mockAdminRepository{}
	svc := newTestService(repo, &mockUserRepository{}, &capturingPublisher{}, nil)

	if err := svc.FlagListing(context.Background(), listingID, "Repeated guest complaints"); err != nil {
		t.Fatalf("FlagListing failed: %v", err)
	}
	if err := svc.UnflagListing(context.Background(), listingID); err != nil {
		t.Fatalf("UnflagListing failed: %v", err)
	}

	if len(repo.flagWrites) != 2 {
		t.Fatalf("expected 2 flag writes, got %d", len(repo.flagWrites))
	}
	if !repo.flagWrites[0].flagged || repo.flagWrites[0].reason != "Repeated guest complaints" {
		t.Errorf("unexpected flag write: %+v", repo.flagWrites[0])
	}
	if repo.flagWrites[1].flagged || repo.flagWrites[1].reason != "" {
		t.Errorf("unexpected unflag write: %+v", repo.flagWrites[1])
	}
}

func TestSetUserSuspended(t *testing.T) {
	users := &mockUserRepository{}
	svc := newTestService(&mockAdminRepository{}, users, &capturingPublisher{}, nil)

	if err := svc.SetUserSuspended(context.Background(), userID, true); err != nil {
		t.Fatalf("SetUserSuspended failed: %v", err)
	}

	if len(users.suspendWrites) != 1 || !users.suspendWrites[0] {
		t.Errorf("expected one suspension write, got %v", users.suspendWrites)
	}
}

func TestSetUserSuspendedUnknownUser(t *testing.T) {
	users := &mockUserRepository{
		setSuspendedFn: func(ctx context.Context, id string, suspended bool) error {
			return userserrors.ErrNotFound
		},
	}
	svc := newTestService(&mockAdminRepository{}, users, &capturingPublisher{}, nil)

	err := svc.SetUserSuspended(context.Background(), userID, true)

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestSetUserSuspendedRepoFailure(t *testing.T) {
	cause := errors.New("connection reset")
	users := &mockUserRepository{
		setSuspendedFn: func(ctx context.Context, id string, suspended bool) error {
			return cause
		},
	}
	svc := newTestService(&mockAdminRepository{}, users, &capturingPublisher{}, nil)

	err := svc.SetUserSuspended(context.Background(), userID, true)

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("underlying repository error must be preserved, got %v", err)
	}
}

func TestDashboardRepoFailure(t *testing.T) {
	cause := errors.New("cursor closed")
	repo := &mockAdminRepository{
		collectCountsFn: func(ctx context.Context) (*repository.DashboardCounts, error) {
			return nil, cause
		},
	}
	svc := newTestService(repo, &mockUserRepository{}, &capturingPublisher{}, newFakeCache())

	_, err := svc.GetDashboard(context.Background())

	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("underlying repository error must be preserved, got %v", err)
	}
}

func TestDashboardCachesCounts(t *testing.T) {
	repo := &mockAdminRepository{}
	cache := newFakeCache()
	svc := newTestService(repo, &mockUserRepository{}, &capturingPublisher{}, cache)

	first, err := svc.GetDashboard(context.Background())
	if err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	if first.Counts.ListingsByStatus[model.ListingStatusActive] != 3 {
		t.Errorf("unexpected counts: %+v", first.Counts)
	}
	if repo.countsCalls != 1 {
		t.Fatalf("expected 1 repository call, got %d", repo.countsCalls)
	}
	if cache.ttls[dashboardCacheKey] != 5*time.Minute {
		t.Errorf("expected cache TTL 5m, got %s", cache.ttls[dashboardCacheKey])
	}

	second, err := svc.GetDashboard(context.Background())
	if err != nil {
		t.Fatalf("GetDashboard from cache failed: %v", err)
	}
	if repo.countsCalls != 1 {
		t.Errorf("expected cached dashboard to skip the repository, got %d calls", repo.countsCalls)
	}
	if second.Counts.ListingsByStatus[model.ListingStatusActive] != 3 {
		t.Errorf("unexpected cached counts: %+v", second.Counts)
	}
}

func TestDashboardSurvivesCacheFailure(t *testing.T) {
	repo := &mockAdminRepository{}
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")
	cache.setErr = errors.New("connection refused")
	svc := newTestService(repo, &mockUserRepository{}, &capturingPublisher{}, cache)

	dashboard, err := svc.GetDashboard(context.Background())
	if err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	if dashboard.Counts.BookingsByStatus[model.BookingStatusConfirmed] != 2 {
		t.Errorf("unexpected counts: %+v", dashboard.Counts)
	}
	if repo.countsCalls != 1 {
		t.Errorf("expected 1 repository call, got %d", repo.countsCalls)
	}
}

func TestModerationSurvivesPublishFailure(t *testing.T) {
	repo := &mockAdminRepository{
		findListingFn: func(ctx context.Context, id string) (*model.Listing, error) {
			return pendingListing(), nil
		},
	}
	publisher := &capturingPublisher{err: errors.New("broker unreachable")}
	svc := newTestService(repo, &mockUserRepository{}, publisher, nil)

	if err := svc.ApproveListing(context.Background(), listingID); err != nil {
		t.Fatalf("ApproveListing failed despite publish error: %v", err)
	}
	if len(repo.statusWrites) != 1 {
		t.Errorf("expected the status write to land, got %d", len(repo.statusWrites))
	}
}
