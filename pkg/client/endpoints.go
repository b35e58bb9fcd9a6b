package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/catalogport/plenty-export/pkg/plenty"
)

// variationWith lists the sub-structures requested with every
// variation entry; the aggregator delegates each of them to a
// dedicated sub-processor.
var variationWith = []string{
	"variationSalesPrices",
	"variationBarcodes",
	"variationCategories",
	"variationAttributeValues",
	"variationClients",
	"variationProperties",
	"itemImages",
	"unit",
	"tags",
}

func (c *Client) getPage(ctx context.Context, path string, query url.Values, cached bool) (*plenty.Page, error) {
	var (
		body []byte
		err  error
	)
	if cached {
		body, err = c.cachedGet(ctx, path, query)
	} else {
		body, err = c.call(ctx, http.MethodGet, path, query, nil)
	}
	if err != nil {
		return nil, err
	}

	var page plenty.Page
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, &APIError{Class: ClassRecoverable, URL: path, Message: "malformed page response", Err: err}
	}
	return &page, nil
}

// GetWebstores returns the webstore configurations of the system.
func (c *Client) GetWebstores(ctx context.Context) ([]plenty.Webstore, error) {
	body, err := c.cachedGet(ctx, "webstores", nil)
	if err != nil {
		return nil, err
	}

	var stores []plenty.Webstore
	if err := json.Unmarshal(body, &stores); err != nil {
		return nil, &APIError{Class: ClassRecoverable, URL: "webstores", Message: "malformed webstores response", Err: err}
	}
	return stores, nil
}

// GetStandardVat returns the standard VAT configuration of one store.
func (c *Client) GetStandardVat(ctx context.Context, plentyID int) (*plenty.StandardVat, error) {
	query := url.Values{}
	query.Set("plentyId", strconv.Itoa(plentyID))

	body, err := c.cachedGet(ctx, "vat/standard", query)
	if err != nil {
		return nil, err
	}

	var vat plenty.StandardVat
	if err := json.Unmarshal(body, &vat); err != nil {
		return nil, &APIError{Class: ClassRecoverable, URL: "vat/standard", Message: "malformed standard vat response", Err: err}
	}
	return &vat, nil
}

// GetCategories returns one page of item categories with their
// per-language details.
func (c *Client) GetCategories(ctx context.Context, storePlentyID int) (*plenty.Page, error) {
	query := url.Values{}
	query.Set("type", "item")
	query.Set("with", "details")
	if storePlentyID > 0 {
		query.Set("plentyId", strconv.Itoa(storePlentyID))
	}
	return c.getPage(ctx, "categories", query, true)
}

// GetCategoryBranches returns one page of category branch chains used
// to assemble full category paths.
func (c *Client) GetCategoryBranches(ctx context.Context) (*plenty.Page, error) {
	return c.getPage(ctx, "category_branches", nil, true)
}

// GetVat returns one page of VAT configurations by country.
func (c *Client) GetVat(ctx context.Context) (*plenty.Page, error) {
	return c.getPage(ctx, "vat", nil, true)
}

// GetSalesPrices returns one page of sales price definitions.
func (c *Client) GetSalesPrices(ctx context.Context) (*plenty.Page, error) {
	return c.getPage(ctx, "items/sales_prices", nil, true)
}

// GetManufacturers returns one page of manufacturers.
func (c *Client) GetManufacturers(ctx context.Context) (*plenty.Page, error) {
	return c.getPage(ctx, "items/manufacturers", nil, true)
}

// GetAttributes returns one page of item attributes with names.
func (c *Client) GetAttributes(ctx context.Context) (*plenty.Page, error) {
	query := url.Values{}
	query.Set("with", "names")
	return c.getPage(ctx, "items/attributes", query, true)
}

// GetAttributeValues returns one page of the values of one attribute.
func (c *Client) GetAttributeValues(ctx context.Context, attributeID int) (*plenty.Page, error) {
	query := url.Values{}
	query.Set("with", "names")
	return c.getPage(ctx, "items/attributes/"+strconv.Itoa(attributeID)+"/values", query, true)
}

// GetPropertyGroups returns one page of property groups.
func (c *Client) GetPropertyGroups(ctx context.Context) (*plenty.Page, error) {
	return c.getPage(ctx, "items/property_groups", nil, true)
}

// GetUnits returns one page of measurement units.
func (c *Client) GetUnits(ctx context.Context) (*plenty.Page, error) {
	return c.getPage(ctx, "items/units", nil, true)
}

// GetProducts returns one page of products with their free-form item
// properties, optionally restricted to one text language.
func (c *Client) GetProducts(ctx context.Context, lang string) (*plenty.Page, error) {
	query := url.Values{}
	query.Set("with", "itemProperties")
	if lang != "" {
		query.Set("lang", lang)
	}
	return c.getPage(ctx, "items", query, false)
}

// GetProductVariations returns one page of active variations for the
// given item ids, with every sub-structure the aggregator consumes.
func (c *Client) GetProductVariations(ctx context.Context, itemIDs []int, storePlentyID int) (*plenty.Page, error) {
	query := url.Values{}
	query.Set("with", strings.Join(variationWith, ","))
	query.Set("isActive", "true")
	query.Set("itemId", joinInts(itemIDs))
	if storePlentyID > 0 {
		query.Set("plentyId", strconv.Itoa(storePlentyID))
	}
	return c.getPage(ctx, "items/variations", query, false)
}

// joinInts serializes a list-valued query parameter the way the API
// expects: comma-joined values.
func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
