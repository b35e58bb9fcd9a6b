// Package plenty defines the typed payload shapes of the Plentymarkets
// REST API consumed by this exporter. Each endpoint response is decoded
// into one of these structs at the client boundary so the rest of the
// code never works with untyped key lookups.
package plenty

import "encoding/json"

// LoginResponse is the body of POST /rest/login and /rest/login/refresh.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int    `json:"expiresIn"`
	RefreshToken string `json:"refreshToken"`
}

// Page is the common envelope of paginated endpoints. Entries stay raw
// so each consumer decodes its own entry type. IsLastPage is a pointer
// because an absent marker terminates pagination just like a true one.
type Page struct {
	Page        int               `json:"page"`
	TotalsCount int               `json:"totalsCount"`
	IsLastPage  *bool             `json:"isLastPage"`
	Entries     []json.RawMessage `json:"entries"`
}

// HasEntries reports whether the response carried an entries list at all.
func (p *Page) HasEntries() bool {
	return p != nil && p.Entries != nil
}

// Last reports whether pagination must stop after this page.
func (p *Page) Last() bool {
	return p == nil || p.IsLastPage == nil || *p.IsLastPage
}

// DecodeEntries unmarshals every raw entry into dst's element type.
func DecodeEntries[T any](p *Page) ([]T, error) {
	if p == nil {
		return nil, nil
	}
	out := make([]T, 0, len(p.Entries))
	for _, raw := range p.Entries {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Webstore describes one entry of GET /rest/webstores.
type Webstore struct {
	ID              int            `json:"id"`
	Type            string         `json:"type"`
	StoreIdentifier int            `json:"storeIdentifier"`
	Name            string         `json:"name"`
	Configuration   map[string]any `json:"configuration"`
}

// StandardVat is the body of GET /rest/vat/standard.
type StandardVat struct {
	ID        int `json:"id"`
	CountryID int `json:"countryId"`
}

// CategoryDetail is one language entry of a category.
type CategoryDetail struct {
	CategoryID int    `json:"categoryId"`
	Lang       string `json:"lang"`
	Name       string `json:"name"`
	NameURL    string `json:"nameUrl"`
}

// Category is one entry of GET /rest/categories.
type Category struct {
	ID      int              `json:"id"`
	Type    string           `json:"type"`
	Details []CategoryDetail `json:"details"`
}

// CategoryBranch is one entry of GET /rest/category_branches: the chain
// of category ids from root to leaf, zero-padded on unused levels.
type CategoryBranch struct {
	CategoryID  int `json:"categoryId"`
	Category1ID int `json:"category1Id"`
	Category2ID int `json:"category2Id"`
	Category3ID int `json:"category3Id"`
	Category4ID int `json:"category4Id"`
	Category5ID int `json:"category5Id"`
	Category6ID int `json:"category6Id"`
}

// Levels returns the branch ids in root-to-leaf order.
func (b CategoryBranch) Levels() []int {
	return []int{b.Category1ID, b.Category2ID, b.Category3ID, b.Category4ID, b.Category5ID, b.Category6ID}
}

// VatRate is one rate inside a VatCountry entry.
type VatRate struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	VatRate string `json:"vatRate"`
}

// VatCountry is one entry of GET /rest/vat.
type VatCountry struct {
	ID        int       `json:"id"`
	CountryID int       `json:"countryId"`
	VatRates  []VatRate `json:"vatRates"`
}

// SalesPrice is one entry of GET /rest/items/sales_prices.
type SalesPrice struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

// Manufacturer is one entry of GET /rest/items/manufacturers.
type Manufacturer struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Name is a reusable language/name pair used by attributes, units,
// property groups and tags.
type Name struct {
	Lang string `json:"lang"`
	Name string `json:"name"`
}

// Attribute is one entry of GET /rest/items/attributes?with=names.
type Attribute struct {
	ID          int    `json:"id"`
	BackendName string `json:"backendName"`
	Position    int    `json:"position"`
	Names       []Name `json:"names"`
}

// AttributeValue is one entry of GET /rest/items/attributes/{id}/values.
type AttributeValue struct {
	ID          int    `json:"id"`
	AttributeID int    `json:"attributeId"`
	BackendName string `json:"backendName"`
	Names       []Name `json:"names"`
}

// PropertyGroup is one entry of GET /rest/items/property_groups.
type PropertyGroup struct {
	ID          int    `json:"id"`
	BackendName string `json:"backendName"`
	Names       []Name `json:"names"`
}

// Unit is one entry of GET /rest/items/units.
type Unit struct {
	ID                int    `json:"id"`
	UnitOfMeasurement string `json:"unitOfMeasurement"`
}

// Text is the per-language text block of a product.
type Text struct {
	Lang             string `json:"lang"`
	Name1            string `json:"name1"`
	Name2            string `json:"name2"`
	Name3            string `json:"name3"`
	ShortDescription string `json:"shortDescription"`
	MetaDescription  string `json:"metaDescription"`
	Description      string `json:"description"`
	URLPath          string `json:"urlPath"`
	Keywords         string `json:"keywords"`
}

// ItemProperty is a free-form property attached to the product itself
// (GET /rest/items?with=itemProperties) or to a variation
// (with=variationProperties). Both carry the same shape.
type ItemProperty struct {
	ID                int                 `json:"id"`
	ItemID            int                 `json:"itemId"`
	PropertyID        int                 `json:"propertyId"`
	Property          PropertyInfo        `json:"property"`
	Names             []PropertyValue     `json:"names"`
	PropertySelection []PropertySelection `json:"propertySelection"`
	ValueInt          *int                `json:"valueInt"`
	ValueFloat        *float64            `json:"valueFloat"`
}

// PropertyInfo is the declaration embedded in every property entry.
type PropertyInfo struct {
	ID              int    `json:"id"`
	BackendName     string `json:"backendName"`
	ValueType       string `json:"valueType"`
	PropertyGroupID int    `json:"propertyGroupId"`
	Unit            string `json:"unit"`
}

// PropertyValue is a language-specific free-text property value.
type PropertyValue struct {
	PropertyValueID int    `json:"propertyValueId"`
	Lang            string `json:"lang"`
	Value           string `json:"value"`
}

// PropertySelection is a selection-type property value.
type PropertySelection struct {
	ID         int    `json:"id"`
	PropertyID int    `json:"propertyId"`
	Lang       string `json:"lang"`
	Name       string `json:"name"`
}

// Product is one entry of GET /rest/items.
type Product struct {
	ID             int            `json:"id"`
	Position       int            `json:"position"`
	ManufacturerID int            `json:"manufacturerId"`
	CreatedAt      string         `json:"createdAt"`
	IsActive       bool           `json:"isActive"`
	Texts          []Text         `json:"texts"`
	ItemProperties []ItemProperty `json:"itemProperties"`
}

// VariationSalesPrice is one price row of a variation.
type VariationSalesPrice struct {
	SalesPriceID int     `json:"salesPriceId"`
	Price        float64 `json:"price"`
}

// VariationBarcode is one barcode row of a variation.
type VariationBarcode struct {
	BarcodeID int    `json:"barcodeId"`
	Code      string `json:"code"`
}

// VariationAttributeValue links a variation to an attribute value.
type VariationAttributeValue struct {
	AttributeID int `json:"attributeId"`
	ValueID     int `json:"valueId"`
}

// VariationCategory links a variation to a category.
type VariationCategory struct {
	CategoryID int `json:"categoryId"`
}

// VariationClient marks a variation as visible in a webstore.
type VariationClient struct {
	PlentyID int `json:"plentyId"`
}

// VariationUnit carries the measurement unit of a variation.
type VariationUnit struct {
	UnitID  int     `json:"unitId"`
	Content float64 `json:"content"`
}

// ItemImage is one image row attached to a variation's item.
type ItemImage struct {
	ID             int                 `json:"id"`
	ItemID         int                 `json:"itemId"`
	URL            string              `json:"url"`
	URLMiddle      string              `json:"urlMiddle"`
	URLPreview     string              `json:"urlPreview"`
	Position       int                 `json:"position"`
	Availabilities []ImageAvailability `json:"availabilities"`
}

// ImageAvailability scopes an image to a store or marketplace.
type ImageAvailability struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

// TagName is a language-specific tag label.
type TagName struct {
	TagID int    `json:"tagId"`
	Lang  string `json:"lang"`
	Name  string `json:"name"`
}

// Tag is the tag record referenced from a variation.
type Tag struct {
	ID      int       `json:"id"`
	TagName string    `json:"tagName"`
	Names   []TagName `json:"names"`
}

// VariationTag links a variation to a tag.
type VariationTag struct {
	TagID int `json:"tagId"`
	Tag   Tag `json:"tag"`
}

// Variation is one entry of GET /rest/items/variations.
type Variation struct {
	ID                       int                       `json:"id"`
	ItemID                   int                       `json:"itemId"`
	Position                 int                       `json:"position"`
	IsActive                 bool                      `json:"isActive"`
	IsMain                   bool                      `json:"isMain"`
	Number                   string                    `json:"number"`
	Model                    string                    `json:"model"`
	AvailabilityID           int                       `json:"availability"`
	AvailableUntil           *string                   `json:"availableUntil"`
	VatID                    int                       `json:"vatId"`
	Unit                     *VariationUnit            `json:"unit"`
	VariationSalesPrices     []VariationSalesPrice     `json:"variationSalesPrices"`
	VariationBarcodes        []VariationBarcode        `json:"variationBarcodes"`
	VariationAttributeValues []VariationAttributeValue `json:"variationAttributeValues"`
	VariationCategories      []VariationCategory       `json:"variationCategories"`
	VariationClients         []VariationClient         `json:"variationClients"`
	VariationProperties      []ItemProperty            `json:"variationProperties"`
	ItemImages               []ItemImage               `json:"itemImages"`
	Tags                     []VariationTag            `json:"tags"`
}
