package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"gojo/pkg/model"
)

type ListingClient struct {
	httpClient *HttpClient
}

func NewListingClient(baseURL string) *ListingClient {
	return &ListingClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *ListingClient) GetByID(ctx context.Context, id string) (*Response, error) {
	path := "/api/v1/listings/" + url.PathEscape(id)
	return c.httpClient.GET(ctx, path)
}

func (c *ListingClient) Search(ctx context.Context, city string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	if city != "" {
		q.Set("city", city)
	}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))

	return c.httpClient.GET(ctx, "/api/v1/listings?"+q.Encode())
}

func (c *ListingClient) DecodeListing(resp *Response) (*model.Listing, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode listing wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var listing model.Listing
	if err := json.Unmarshal(wrapper.Data, &listing); err != nil {
		return nil, fmt.Errorf("could not decode listing json:\n%+v\n%s", resp.ToString(), err)
	}

	return &listing, nil
}

func (c *ListingClient) DecodeListings(resp *Response) ([]*model.Listing, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}

	var listings []*model.Listing
	if err := json.Unmarshal(wrapper.Data, &listings); err != nil {
		return nil, nil, fmt.Errorf("could not decode listing list:\n%+v\n%s", resp.ToString(), err)
	}

	metadata := &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}

	return listings, metadata, nil
}
