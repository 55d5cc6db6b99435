package calendar

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"gojo/pkg/model"
	"gojo/test/integration/testutil"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type monthView struct {
	ListingID     string `json:"listing_id"`
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	Days          []day  `json:"days"`
	SelectedDates []string `json:"selected_dates"`
	SelectedCount int    `json:"selected_count"`
}

type day struct {
	Date               string   `json:"date"`
	IsCurrentMonthView bool     `json:"is_current_month_view"`
	IsBlocked          bool     `json:"is_blocked"`
	IsBooked           bool     `json:"is_booked"`
	CustomPrice        *float64 `json:"custom_price,omitempty"`
	IsSelected         bool     `json:"is_selected"`
}

func calendarPath(listingID string, suffix string) string {
	return "/api/v1/listings/" + listingID + "/calendar" + suffix
}

func mustObjectID(t *testing.T, id string) primitive.ObjectID {
	t.Helper()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		t.Fatalf("invalid object ID %q: %v", id, err)
	}
	return oid
}

func nextMonthDate(dayOfMonth int) (int, time.Month, string) {
	target := time.Now().UTC().AddDate(0, 1, 0)
	date := time.Date(target.Year(), target.Month(), dayOfMonth, 0, 0, 0, 0, time.UTC)
	return date.Year(), date.Month(), date.Format(time.DateOnly)
}

func TestMonthGridShowsOverlays(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	year, month, blockedDate := nextMonthDate(10)
	_, _, pricedDate := nextMonthDate(12)

	hostID := testutil.NewObjectID()
	listingID := testutil.SeedActiveListing(t, mongo, hostID,
		[]string{blockedDate},
		[]model.PriceOverride{{Date: pricedDate, Price: 120}},
	)
	headers := testutil.AuthHeaders(t, env.JWTSecret, hostID, model.RoleHost)

	resp := client.GET(t, calendarPath(listingID, fmt.Sprintf("?year=%d&month=%d", year, int(month))), headers)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var view monthView
	if err := resp.UnmarshalData(&view); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if len(view.Days) != 42 {
		t.Fatalf("expected 42 day cells, got %d", len(view.Days))
	}

	cells := map[string]day{}
	for _, d := range view.Days {
		cells[d.Date] = d
	}

	if !cells[blockedDate].IsBlocked {
		t.Errorf("expected %s to be blocked", blockedDate)
	}
	if cells[pricedDate].CustomPrice == nil || *cells[pricedDate].CustomPrice != 120 {
		t.Errorf("expected %s to carry the custom price", pricedDate)
	}
}

func TestBlockSelectedDatesPersists(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	_, _, target := nextMonthDate(15)

	hostID := testutil.NewObjectID()
	listingID := testutil.SeedActiveListing(t, mongo, hostID, nil, nil)
	headers := testutil.AuthHeaders(t, env.JWTSecret, hostID, model.RoleHost)

	toggled := client.POST(t, calendarPath(listingID, "/selection"), map[string]string{"date": target}, headers)
	testutil.AssertStatusCode(t, toggled, http.StatusOK)

	blocked := client.POST(t, calendarPath(listingID, "/block"), nil, headers)
	testutil.AssertStatusCode(t, blocked, http.StatusOK)

	var view monthView
	if err := blocked.UnmarshalData(&view); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if view.SelectedCount != 0 {
		t.Errorf("expected selection cleared after block, got %d selected", view.SelectedCount)
	}

	var stored struct {
		BlockedDates []string `bson:"blocked_dates"`
	}
	filter := map[string]interface{}{"_id": mustObjectID(t, listingID)}
	if err := mongo.GetCollection(testutil.ListingsCollection).FindOne(context.Background(), filter).Decode(&stored); err != nil {
		t.Fatalf("failed to load listing: %v", err)
	}

	found := false
	for _, d := range stored.BlockedDates {
		if d == target {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %s in blocked_dates, got %v", target, stored.BlockedDates)
	}
}

func TestCalendarRejectsNonOwner(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	hostID := testutil.NewObjectID()
	listingID := testutil.SeedActiveListing(t, mongo, hostID, nil, nil)

	otherHeaders := testutil.AuthHeaders(t, env.JWTSecret, testutil.NewObjectID(), model.RoleHost)
	resp := client.GET(t, calendarPath(listingID, ""), otherHeaders)
	testutil.AssertStatusCode(t, resp, http.StatusForbidden)
}
