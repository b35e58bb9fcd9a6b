package product

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/catalogport/plenty-export/pkg/logging"
	"github.com/catalogport/plenty-export/pkg/plenty"
	"github.com/catalogport/plenty-export/pkg/registry"
)

// Attribute field names used by the sub-processors.
const (
	ManufacturerAttribute = "vendor"
	CategoryAttribute     = "cat"
	CategoryURLAttribute  = "cat_url"
	CategoryIDAttribute   = "cat_id"
)

// Property value kinds dispatched during variation property processing.
const (
	propertyTypeEmpty     = "empty"
	propertyTypeText      = "text"
	propertyTypeSelection = "selection"
	propertyTypeInt       = "int"
	propertyTypeFloat     = "float"
)

// Options configures one product aggregation.
type Options struct {
	LanguageCode string

	// AvailabilityIDs is the allow-list of availability ids; empty
	// means every availability passes.
	AvailabilityIDs []int

	// PriceID and RrpID are the sales-price configuration ids used
	// for price and strike-through price selection.
	PriceID int
	RrpID   int

	Protocol           string
	StoreURL           string
	StorePlentyID      int
	ProductNameFieldID int
}

// Item aggregates one product and its variations into a Record.
type Item struct {
	opts     Options
	registry *registry.Registry
	record   *Record
	log      zerolog.Logger

	itemID int

	// price selection scratch
	price    float64
	maxPrice float64
	rrp      float64
	hasPrice bool
	hasRrp   bool

	// main-variation selection scratch
	mainVariationID int
	mainSort        int
	hasMain         bool

	activeVariations int
}

// New creates an aggregator for one product.
func New(reg *registry.Registry, opts Options) *Item {
	return &Item{
		opts:     opts,
		registry: reg,
		record:   NewRecord(),
		log:      logging.NewLogger("product"),
	}
}

// ItemID returns the product id seeded by ProcessInitialData.
func (i *Item) ItemID() int {
	return i.itemID
}

// SetField exposes the underlying record field setter.
func (i *Item) SetField(key string, value any, asList bool) {
	i.record.SetField(key, value, asList)
}

// GetField exposes the underlying record field getter.
func (i *Item) GetField(key string) any {
	return i.record.GetField(key)
}

// ProcessInitialData seeds the record from the raw product entry:
// identity, creation date, the text block matching the configured
// language, the full product URL and the manufacturer attribute.
// Free-form item properties are copied into attributes.
func (i *Item) ProcessInitialData(product plenty.Product) {
	if product.ID == 0 {
		i.log.Debug().Msg("No initial data provided for product processing.")
		return
	}

	i.itemID = product.ID
	i.record.SetField("id", strconv.Itoa(product.ID), false)
	i.record.SetField("date_added", product.CreatedAt, false)
	i.record.SetField("sort", strconv.Itoa(product.Position), false)

	for _, text := range product.Texts {
		if !sameLang(text.Lang, i.opts.LanguageCode) {
			continue
		}
		i.record.SetField("name", i.productName(text), false)
		i.record.SetField("summary", text.ShortDescription, false)
		i.record.SetField("description", text.Description, false)
		i.record.SetField("keywords", text.Keywords, false)
		i.record.SetField("url", i.productFullURL(text.URLPath), false)
	}

	i.processManufacturer(product.ManufacturerID)
	i.processItemProperties(product.ItemProperties)
}

func (i *Item) productName(text plenty.Text) string {
	switch i.opts.ProductNameFieldID {
	case 2:
		return text.Name2
	case 3:
		return text.Name3
	default:
		return text.Name1
	}
}

func (i *Item) productFullURL(path string) string {
	if path == "" {
		i.log.Debug().Int("item", i.itemID).Msg("No url path provided for product.")
		return DefaultEmptyValue
	}
	protocol := i.opts.Protocol
	if protocol == "" {
		protocol = "http"
	}
	return fmt.Sprintf("%s://%s/%s/a-%d",
		protocol,
		strings.Trim(i.opts.StoreURL, "/"),
		strings.Trim(path, "/"),
		i.itemID,
	)
}

func (i *Item) processManufacturer(manufacturerID int) {
	if manufacturerID == 0 {
		return
	}
	manufacturers := i.registry.Manufacturers()
	if manufacturers == nil {
		return
	}
	if name := manufacturers.Name(manufacturerID); name != DefaultEmptyValue {
		i.record.SetAttribute(ManufacturerAttribute, name)
	}
}

// ProcessVariation ingests one variation entry. Variations failing the
// visibility filter are dropped without side effects. Inactive
// variations still contribute identifiers but nothing else, and do not
// count toward validity.
func (i *Item) ProcessVariation(variation plenty.Variation) bool {
	if !i.availabilityAllowed(variation.AvailabilityID) {
		return false
	}
	if expired(variation.AvailableUntil) {
		return false
	}

	i.processIdentifiers(variation)

	if !variation.IsActive {
		return false
	}
	i.activeVariations++

	i.trackMainVariation(variation)
	i.processPrices(variation.VariationSalesPrices)
	i.processTags(variation.Tags)
	i.processTaxRate(variation.VatID)
	i.processUnit(variation.Unit)
	i.ProcessVariationCategories(variation.VariationCategories)
	i.ProcessVariationAttributes(variation.VariationAttributeValues)
	i.ProcessVariationProperties(variation.VariationProperties)
	i.processGroups(variation.VariationClients)
	i.ProcessImages(variation.ItemImages)
	return true
}

func (i *Item) availabilityAllowed(availabilityID int) bool {
	if len(i.opts.AvailabilityIDs) == 0 {
		return true
	}
	for _, id := range i.opts.AvailabilityIDs {
		if id == availabilityID {
			return true
		}
	}
	return false
}

func expired(availableUntil *string) bool {
	if availableUntil == nil || *availableUntil == "" {
		return false
	}
	until, err := time.Parse(time.RFC3339, *availableUntil)
	if err != nil {
		return false
	}
	return until.Before(time.Now())
}

func (i *Item) processIdentifiers(variation plenty.Variation) {
	i.record.AddIdentifier(variation.Number)
	i.record.AddIdentifier(variation.Model)
	i.record.AddIdentifier(strconv.Itoa(variation.ID))
	for _, barcode := range variation.VariationBarcodes {
		i.record.AddIdentifier(barcode.Code)
	}
}

// trackMainVariation keeps the active variation with the lowest
// position; ties are broken by the lowest variation id.
func (i *Item) trackMainVariation(variation plenty.Variation) {
	better := !i.hasMain ||
		variation.Position < i.mainSort ||
		(variation.Position == i.mainSort && variation.ID < i.mainVariationID)
	if !better {
		return
	}
	i.hasMain = true
	i.mainVariationID = variation.ID
	i.mainSort = variation.Position
	i.record.SetField("variation_id", strconv.Itoa(variation.ID), false)
	i.record.SetField("sort", strconv.Itoa(variation.Position), false)
}

func (i *Item) processPrices(prices []plenty.VariationSalesPrice) {
	for _, price := range prices {
		switch price.SalesPriceID {
		case i.opts.PriceID:
			if !i.hasPrice || price.Price < i.price {
				i.price = price.Price
			}
			if !i.hasPrice || price.Price > i.maxPrice {
				i.maxPrice = price.Price
			}
			i.hasPrice = true
		case i.opts.RrpID:
			if !i.hasRrp || price.Price < i.rrp {
				i.rrp = price.Price
				i.hasRrp = true
			}
		}
	}
	if i.hasPrice {
		i.record.SetField("price", i.price, false)
		i.record.SetField("maxprice", i.maxPrice, false)
	}
	if i.hasRrp {
		i.record.SetField("instead", i.rrp, false)
	}
}

func (i *Item) processTags(tags []plenty.VariationTag) {
	var names []string
	for _, tag := range tags {
		name := tag.Tag.TagName
		for _, tagName := range tag.Tag.Names {
			if sameLang(tagName.Lang, i.opts.LanguageCode) {
				name = tagName.Name
				break
			}
		}
		if name != "" {
			names = append(names, name)
		}
		i.record.SetAttribute(CategoryIDAttribute, strconv.Itoa(tag.TagID))
	}
	if len(names) == 0 {
		return
	}

	existing, _ := i.record.GetField("keywords").(string)
	seen := make(map[string]bool)
	var merged []string
	for _, keyword := range strings.Split(existing, ",") {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" || seen[keyword] {
			continue
		}
		seen[keyword] = true
		merged = append(merged, keyword)
	}
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		merged = append(merged, name)
	}
	i.record.SetField("keywords", strings.Join(merged, ","), false)
}

func (i *Item) processTaxRate(vatID int) {
	vat := i.registry.Vat()
	if vat == nil {
		return
	}
	if rate := vat.RateByID(vatID); rate != DefaultEmptyValue {
		i.record.SetField("taxrate", rate, false)
	}
}

func (i *Item) processUnit(unit *plenty.VariationUnit) {
	if unit == nil {
		return
	}
	units := i.registry.Units()
	if units == nil {
		return
	}
	if measurement := units.UnitOfMeasurement(unit.UnitID); measurement != DefaultEmptyValue {
		i.record.SetField("base_unit", measurement, false)
	}
}

// ProcessVariationCategories resolves category links through the
// registry at write time, so records always see current names/paths.
func (i *Item) ProcessVariationCategories(links []plenty.VariationCategory) {
	if len(links) == 0 {
		return
	}
	categories := i.registry.Categories()
	if categories == nil {
		return
	}
	for _, link := range links {
		if name := categories.Name(link.CategoryID); name != DefaultEmptyValue {
			i.record.SetAttribute(CategoryAttribute, name)
		}
		if path := categories.FullPath(link.CategoryID); path != DefaultEmptyValue {
			i.record.SetAttribute(CategoryURLAttribute, path)
		}
	}
}

// ProcessVariationAttributes resolves attribute value links through
// the registry; unknown values are skipped.
func (i *Item) ProcessVariationAttributes(values []plenty.VariationAttributeValue) {
	if len(values) == 0 {
		return
	}
	attributes := i.registry.Attributes()
	if attributes == nil {
		return
	}
	for _, value := range values {
		if !attributes.ValueExists(value.AttributeID, value.ValueID) {
			continue
		}
		name := attributes.Name(value.AttributeID)
		if name == DefaultEmptyValue {
			continue
		}
		i.record.SetAttribute(name, attributes.ValueName(value.AttributeID, value.ValueID))
	}
}

// ProcessVariationProperties dispatches each property on its declared
// value kind. Text and selection kinds are language-filtered; numeric
// kinds pass through unmodified; unknown kinds are skipped.
func (i *Item) ProcessVariationProperties(properties []plenty.ItemProperty) {
	if len(properties) == 0 {
		i.log.Debug().Int("item", i.itemID).Msg("No data provided for parsing variation properties.")
		return
	}
	for _, property := range properties {
		name := i.propertyName(property.Property)
		if name == DefaultEmptyValue {
			continue
		}
		switch property.Property.ValueType {
		case propertyTypeEmpty:
			i.record.SetAttribute(name, property.Property.BackendName)
		case propertyTypeText:
			for _, value := range property.Names {
				if sameLang(value.Lang, i.opts.LanguageCode) && value.Value != "" {
					i.record.SetAttribute(name, value.Value)
				}
			}
		case propertyTypeSelection:
			for _, selection := range property.PropertySelection {
				if sameLang(selection.Lang, i.opts.LanguageCode) && selection.Name != "" {
					i.record.SetAttribute(name, selection.Name)
				}
			}
		case propertyTypeInt:
			if property.ValueInt != nil {
				i.record.SetAttribute(name, strconv.Itoa(*property.ValueInt))
			}
		case propertyTypeFloat:
			if property.ValueFloat != nil {
				i.record.SetAttribute(name, strconv.FormatFloat(*property.ValueFloat, 'f', -1, 64))
			}
		}
	}
}

func (i *Item) propertyName(info plenty.PropertyInfo) string {
	if info.PropertyGroupID != 0 {
		if groups := i.registry.PropertyGroups(); groups != nil {
			if name := groups.Name(info.PropertyGroupID); name != DefaultEmptyValue {
				return name
			}
		}
	}
	return info.BackendName
}

func (i *Item) processItemProperties(properties []plenty.ItemProperty) {
	i.ProcessVariationProperties(properties)
}

func (i *Item) processGroups(clients []plenty.VariationClient) {
	for _, client := range clients {
		i.record.SetField("groups", strconv.Itoa(client.PlentyID), true)
	}
}

// ProcessImages stores the first image's middle-size URL.
func (i *Item) ProcessImages(images []plenty.ItemImage) {
	if len(images) == 0 {
		return
	}
	if _, ok := i.record.fields["image"]; ok {
		return
	}
	i.record.SetField("image", images[0].URLMiddle, false)
}

// HasValidData reports whether the product may be emitted: at least
// one active variation survived filtering and at least one identifier
// was collected.
func (i *Item) HasValidData() bool {
	return i.activeVariations > 0 && len(i.record.Identifiers()) > 0
}

// Results returns the flattened export record.
func (i *Item) Results() map[string]any {
	return i.record.Results()
}

// DefaultEmptyValue mirrors the parsers' lookup-miss value.
const DefaultEmptyValue = ""

func sameLang(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
