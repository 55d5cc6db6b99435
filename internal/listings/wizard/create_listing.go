package wizard

import "fmt"

const (
	FlowCreateListing = "create_listing"

	ParamHostID       = "host_id"
	ParamTitle        = "title"
	ParamDescription  = "description"
	ParamPropertyType = "property_type"
	ParamCity         = "city"
	ParamCountry      = "country"
	ParamLat          = "lat"
	ParamLng          = "lng"
	ParamCapacity     = "capacity"
	ParamBedrooms     = "bedrooms"
	ParamBeds         = "beds"
	ParamBathrooms    = "bathrooms"
	ParamPrice        = "price_per_night"
	ParamCurrency     = "currency"
	ParamAmenities    = "amenities"
	ParamPhotos       = "photos"
	ParamHouseRules   = "house_rules"

	OutputListing = "listing"
)

type createListingFlow struct{}

func NewCreateListingFlow() Flow {
	return createListingFlow{}
}

func (createListingFlow) Name() string {
	return FlowCreateListing
}

func (createListingFlow) Steps() []*Step {
	return []*Step{
		NewStep("basics", CollectBasics),
		NewStep("location", CollectLocation),
		NewStep("capacity", CollectCapacity),
		NewStep("pricing", CollectPricing),
		NewStep("photos", CollectPhotos),
		NewStep("create", CreateDraftListing),
	}
}

func CollectBasics(ctx *Context) error {
	hostID := stringParam(ctx.Input, ParamHostID)
	if IsMissing(hostID) {
		return MissingParamErr(ParamHostID)
	}
	title := stringParam(ctx.Input, ParamTitle)
	if IsMissing(title) {
		return MissingParamErr(ParamTitle)
	}
	propertyType := stringParam(ctx.Input, ParamPropertyType)
	if IsMissing(propertyType) {
		return MissingParamErr(ParamPropertyType)
	}

	ctx.Draft.HostID = hostID
	ctx.Draft.Title = title
	ctx.Draft.PropertyType = propertyType
	ctx.Draft.Description = stringParam(ctx.Input, ParamDescription)
	return nil
}

func CollectLocation(ctx *Context) error {
	city := stringParam(ctx.Input, ParamCity)
	if IsMissing(city) {
		return MissingParamErr(ParamCity)
	}
	country := stringParam(ctx.Input, ParamCountry)
	if IsMissing(country) {
		return MissingParamErr(ParamCountry)
	}

	ctx.Draft.City = city
	ctx.Draft.Country = country
	if lat, ok := floatParam(ctx.Input, ParamLat); ok {
		ctx.Draft.Lat = lat
	}
	if lng, ok := floatParam(ctx.Input, ParamLng); ok {
		ctx.Draft.Lng = lng
	}
	return nil
}

func CollectCapacity(ctx *Context) error {
	capacity, ok := intParam(ctx.Input, ParamCapacity)
	if !ok {
		return MissingParamErr(ParamCapacity)
	}
	if capacity < 1 {
		return fmt.Errorf("capacity must be at least 1, got %d", capacity)
	}

	ctx.Draft.Capacity = capacity
	if bedrooms, ok := intParam(ctx.Input, ParamBedrooms); ok {
		ctx.Draft.Bedrooms = bedrooms
	}
	if beds, ok := intParam(ctx.Input, ParamBeds); ok {
		ctx.Draft.Beds = beds
	}
	if bathrooms, ok := floatParam(ctx.Input, ParamBathrooms); ok {
		ctx.Draft.Bathrooms = bathrooms
	}
	return nil
}

func CollectPricing(ctx *Context) error {
	price, ok := floatParam(ctx.Input, ParamPrice)
	if !ok {
		return MissingParamErr(ParamPrice)
	}
	if price <= 0 {
		return fmt.Errorf("price_per_night must be positive, got %v", price)
	}

	ctx.Draft.PricePerNight = price
	ctx.Draft.Currency = stringParam(ctx.Input, ParamCurrency)
	return nil
}

func CollectPhotos(ctx *Context) error {
	ctx.Draft.Photos = stringSliceParam(ctx.Input, ParamPhotos)
	ctx.Draft.Amenities = stringSliceParam(ctx.Input, ParamAmenities)
	ctx.Draft.HouseRules = stringParam(ctx.Input, ParamHouseRules)
	return nil
}

func CreateDraftListing(ctx *Context) error {
	created, err := ctx.Service.Create(ctx.Ctx, ctx.Draft)
	if err != nil {
		return err
	}
	ctx.Output[OutputListing] = created
	return nil
}
