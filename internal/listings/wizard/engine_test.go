package wizard

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gojo/internal/listings/service"
	"gojo/pkg/model"
)

type fakeListingService struct {
	createFn func(ctx context.Context, listing *model.Listing) (*model.Listing, error)
}

func (f *fakeListingService) Create(ctx context.Context, listing *model.Listing) (*model.Listing, error) {
	if f.createFn != nil {
		return f.createFn(ctx, listing)
	}
	created := *listing
	created.ID = "64a1f0c2e1b2c3d4e5f60aaa"
	created.Status = model.ListingStatusDraft
	return &created, nil
}

func (f *fakeListingService) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeListingService) ListByHost(ctx context.Context, hostID string, limit int, offset int64) (*service.ListingPage, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeListingService) Search(ctx context.Context, city string, limit int, offset int64) (*service.ListingPage, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeListingService) Update(ctx context.Context, id string, hostID string, update *model.ListingUpdate) (*model.Listing, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeListingService) SubmitForReview(ctx context.Context, id string, hostID string) (*model.Listing, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeListingService) Delete(ctx context.Context, id string, hostID string) error {
	return errors.New("not implemented")
}

func fullInput() map[string]any {
	return map[string]any{
		ParamHostID:       "64a1f0c2e1b2c3d4e5f60718",
		ParamTitle:        "Bole Guesthouse",
		ParamDescription:  "Near the airport",
		ParamPropertyType: "entire_place",
		ParamCity:         "Addis Ababa",
		ParamCountry:      "ET",
		ParamLat:          9.0054,
		ParamLng:          38.7636,
		ParamCapacity:     float64(4),
		ParamBedrooms:     float64(2),
		ParamBathrooms:    1.5,
		ParamPrice:        45.0,
		ParamAmenities:    []any{"wifi", "parking"},
		ParamPhotos:       []any{"https://photos.gojo.et/bole-front.jpg"},
		ParamHouseRules:   "No smoking",
	}
}

func TestCreateListingFlowBuildsDraftAndCreates(t *testing.T) {
	var received *model.Listing
	svc := &fakeListingService{
		createFn: func(ctx context.Context, listing *model.Listing) (*model.Listing, error) {
			received = listing
			created := *listing
			created.ID = "64a1f0c2e1b2c3d4e5f60aaa"
			return &created, nil
		},
	}

	engine := NewEngine(NewCreateListingFlow())
	ctx := NewContext(context.Background(), fullInput(), svc)

	if err := engine.Run(FlowCreateListing, ctx); err != nil {
		t.Fatalf("flow failed: %v", err)
	}

	if received == nil {
		t.Fatal("create step never called the service")
	}
	if received.Title != "Bole Guesthouse" || received.City != "Addis Ababa" {
		t.Errorf("draft not assembled from input: %+v", received)
	}
	if received.Capacity != 4 || received.Bathrooms != 1.5 {
		t.Errorf("numeric params not converted: capacity=%d bathrooms=%v", received.Capacity, received.Bathrooms)
	}
	if len(received.Amenities) != 2 || len(received.Photos) != 1 {
		t.Errorf("slice params not converted: %v %v", received.Amenities, received.Photos)
	}

	out, ok := ctx.Output[OutputListing].(*model.Listing)
	if !ok {
		t.Fatalf("expected created listing in output, got %T", ctx.Output[OutputListing])
	}
	if out.ID == "" {
		t.Error("created listing has no id")
	}
}

func TestCreateListingFlowReportsFailingStep(t *testing.T) {
	tests := []struct {
		name     string
		drop     string
		wantStep string
	}{
		{"missing title", ParamTitle, "basics"},
		{"missing city", ParamCity, "location"},
		{"missing capacity", ParamCapacity, "capacity"},
		{"missing price", ParamPrice, "pricing"},
	}

	engine := NewEngine(NewCreateListingFlow())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := fullInput()
			delete(input, tt.drop)

			ctx := NewContext(context.Background(), input, &fakeListingService{})
			err := engine.Run(FlowCreateListing, ctx)
			if err == nil {
				t.Fatal("expected flow to fail")
			}
			if !strings.Contains(err.Error(), tt.wantStep) {
				t.Errorf("error should name the %s step, got %v", tt.wantStep, err)
			}
		})
	}
}

func TestCreateListingFlowPropagatesServiceError(t *testing.T) {
	svcErr := errors.New("storage unavailable")
	svc := &fakeListingService{
		createFn: func(ctx context.Context, listing *model.Listing) (*model.Listing, error) {
			return nil, svcErr
		},
	}

	engine := NewEngine(NewCreateListingFlow())
	ctx := NewContext(context.Background(), fullInput(), svc)

	err := engine.Run(FlowCreateListing, ctx)
	if err == nil {
		t.Fatal("expected flow to fail")
	}
	if !errors.Is(err, svcErr) {
		t.Errorf("expected wrapped service error, got %v", err)
	}
}

func TestEngineRejectsUnknownFlow(t *testing.T) {
	engine := NewEngine(NewCreateListingFlow())
	ctx := NewContext(context.Background(), map[string]any{}, &fakeListingService{})

	if err := engine.Run("teleport_listing", ctx); err == nil {
		t.Fatal("expected unsupported flow error")
	}
}
