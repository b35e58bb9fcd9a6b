// Package export sequences one full catalog export: reference-data
// initialization, paginated product retrieval, per-product aggregation
// and hand-off to the output wrapper.
package export

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/catalogport/plenty-export/pkg/client"
	"github.com/catalogport/plenty-export/pkg/countries"
	"github.com/catalogport/plenty-export/pkg/logging"
	"github.com/catalogport/plenty-export/pkg/pagination"
	"github.com/catalogport/plenty-export/pkg/parsers"
	"github.com/catalogport/plenty-export/pkg/plenty"
	"github.com/catalogport/plenty-export/pkg/product"
	"github.com/catalogport/plenty-export/pkg/registry"
)

// DefaultItemsPerPage is the product page size of one export run.
const DefaultItemsPerPage = 100

var (
	productsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plenty_export_products_total",
		Help: "Products handled by the export, by outcome.",
	}, []string{"outcome"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "plenty_export_run_duration_seconds",
		Help:    "Wall time of one full export run.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 14),
	})
)

// Options configures one export run.
type Options struct {
	Language string

	// Country is the fallback ISO code for VAT scoping when no
	// multishop id is configured.
	Country string

	// MultishopID selects the webstore whose configuration drives
	// the export; nil means single-shop mode.
	MultishopID *int

	AvailabilityIDs []int
	PriceID         int
	RrpID           int
	ItemsPerPage    int
}

// Exporter drives one export run. Not safe for concurrent use; the
// API call budget is shared and stateful, so everything runs on one
// goroutine.
type Exporter struct {
	client   *client.Client
	wrapper  Wrapper
	registry *registry.Registry
	opts     Options
	log      logging.Dual

	runID string

	stores             *parsers.Stores
	storePlentyID      int
	vatCountry         string
	productNameFieldID int
	salesFrequency     bool

	skippedCount int
	skippedIDs   []int
}

// New creates an exporter over an authenticated-capable client.
func New(c *client.Client, wrapper Wrapper, reg *registry.Registry, log logging.Dual, opts Options) *Exporter {
	if opts.ItemsPerPage <= 0 {
		opts.ItemsPerPage = DefaultItemsPerPage
	}
	return &Exporter{
		client:   c,
		wrapper:  wrapper,
		registry: reg,
		opts:     opts,
		log:      log,
		runID:    uuid.NewString(),
	}
}

// RunID returns the id stamped on this run's log events.
func (e *Exporter) RunID() string {
	return e.runID
}

// SkippedCount returns how many products the run left out.
func (e *Exporter) SkippedCount() int {
	return e.skippedCount
}

// StorePlentyID returns the store identifier resolved during Init.
func (e *Exporter) StorePlentyID() int {
	return e.storePlentyID
}

// Init logs in and populates the registry: webstores, VAT scoping,
// every reference parser, category full paths and attribute values.
// Safe to call more than once; the registry keeps the first parser
// registered per kind.
func (e *Exporter) Init(ctx context.Context) error {
	e.log.Info("Starting to initialise necessary data (categories, attributes, etc.).")

	if err := e.client.Login(ctx); err != nil {
		return err
	}

	stores, err := e.client.GetWebstores(ctx)
	if err != nil {
		return err
	}
	e.stores = parsers.NewStores(stores)
	e.registry.Set(registry.KindStores, e.stores)

	if err := e.resolveVatCountry(ctx, stores); err != nil {
		return err
	}
	e.resolveStoreConfig()

	if err := e.initParsers(ctx); err != nil {
		return err
	}
	e.resolvePriceIDs()
	if err := e.initCategoryFullPaths(ctx); err != nil {
		return err
	}
	if err := e.initAttributeValues(ctx); err != nil {
		return err
	}

	e.log.Info("Finished to initialise necessary data.")
	return nil
}

// resolveVatCountry picks the country used for VAT rate scoping: the
// configured country in single-shop mode, otherwise the standard VAT
// country of the configured multishop store.
func (e *Exporter) resolveVatCountry(ctx context.Context, stores []plenty.Webstore) error {
	if e.opts.MultishopID == nil {
		e.vatCountry = e.opts.Country
		return nil
	}

	for _, store := range stores {
		if store.ID != *e.opts.MultishopID {
			continue
		}
		e.storePlentyID = store.StoreIdentifier

		vat, err := e.client.GetStandardVat(ctx, e.storePlentyID)
		if err != nil {
			return err
		}
		iso, ok := countries.ISOByID(vat.CountryID)
		if !ok {
			devLog := e.log.Dev()
			devLog.Warn().
				Int("countryId", vat.CountryID).
				Msg("Unknown standard vat country, falling back to configured country")
			iso = e.opts.Country
		}
		e.vatCountry = iso
		return nil
	}
	return fmt.Errorf("no webstore matches multishop id %d", *e.opts.MultishopID)
}

func (e *Exporter) resolveStoreConfig() {
	if e.storePlentyID == 0 || e.stores == nil {
		return
	}
	if raw := e.stores.ConfigValue(e.storePlentyID, "displayItemName"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			e.productNameFieldID = id
		}
	}
	if raw := e.stores.ConfigValue(e.storePlentyID, "itemSortByMonthlySales"); raw != "" {
		e.salesFrequency = raw == "1" || raw == "true"
	}
}

// resolvePriceIDs fills unset price ids from the shop's sales-price
// configuration: the lowest "default" definition for the price, the
// lowest "rrp" definition for the strike-through price.
func (e *Exporter) resolvePriceIDs() {
	prices := e.registry.SalesPrices()
	if prices == nil {
		return
	}
	devLog := e.log.Dev()
	if e.opts.PriceID <= 0 {
		e.opts.PriceID = prices.DefaultPrice()
		devLog.Debug().Int("priceId", e.opts.PriceID).Msg("Resolved price id from sales-price configuration")
	}
	if e.opts.RrpID <= 0 {
		e.opts.RrpID = prices.DefaultRrp()
		devLog.Debug().Int("rrpId", e.opts.RrpID).Msg("Resolved rrp id from sales-price configuration")
	}
}

// initParsers walks every reference endpoint through the paginator and
// registers the populated parser.
func (e *Exporter) initParsers(ctx context.Context) error {
	vat, err := parsers.NewVat(e.vatCountry)
	if err != nil {
		return err
	}

	lang := e.opts.Language
	steps := []struct {
		kind   registry.Kind
		parser parsers.Parser
		fetch  func(ctx context.Context) (*plenty.Page, error)
	}{
		{registry.KindVat, vat, e.client.GetVat},
		{registry.KindCategories, parsers.NewCategories(lang), func(ctx context.Context) (*plenty.Page, error) {
			return e.client.GetCategories(ctx, e.storePlentyID)
		}},
		{registry.KindSalesPrices, parsers.NewSalesPrices(), e.client.GetSalesPrices},
		{registry.KindAttributes, parsers.NewAttributes(lang), e.client.GetAttributes},
		{registry.KindManufacturers, parsers.NewManufacturers(), e.client.GetManufacturers},
		{registry.KindPropertyGroups, parsers.NewPropertyGroups(lang), e.client.GetPropertyGroups},
		{registry.KindUnits, parsers.NewUnits(), e.client.GetUnits},
	}

	for _, step := range steps {
		if e.registry.Get(step.kind) != nil {
			continue
		}
		fetch := step.fetch
		err := pagination.Walk(ctx, e.paginationConfig(),
			func(ctx context.Context, page, itemsPerPage int) (*plenty.Page, error) {
				e.client.SetItemsPerPage(itemsPerPage).SetPage(page)
				return fetch(ctx)
			},
			step.parser.Parse,
		)
		if err != nil {
			return err
		}
		e.registry.Set(step.kind, step.parser)
	}
	return nil
}

func (e *Exporter) initCategoryFullPaths(ctx context.Context) error {
	categories := e.registry.Categories()
	if categories == nil {
		return nil
	}
	return pagination.Walk(ctx, e.paginationConfig(),
		func(ctx context.Context, page, itemsPerPage int) (*plenty.Page, error) {
			e.client.SetItemsPerPage(itemsPerPage).SetPage(page)
			return e.client.GetCategoryBranches(ctx)
		},
		categories.ParseBranches,
	)
}

func (e *Exporter) initAttributeValues(ctx context.Context) error {
	attributes := e.registry.Attributes()
	if attributes == nil {
		return nil
	}
	for _, attributeID := range attributes.IDs() {
		err := pagination.Walk(ctx, e.paginationConfig(),
			func(ctx context.Context, page, itemsPerPage int) (*plenty.Page, error) {
				e.client.SetItemsPerPage(itemsPerPage).SetPage(page)
				return e.client.GetAttributeValues(ctx, attributeID)
			},
			attributes.ParseValues,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) paginationConfig() pagination.Config {
	return pagination.Config{ItemsPerPage: e.opts.ItemsPerPage}
}

// Run retrieves every product page, aggregates each product with its
// variations and hands valid records to the wrapper. A throttled error
// aborts the remainder gracefully; already-wrapped records stand and
// the wrapper is still finalized. Fatal and recoverable errors abort
// the run.
func (e *Exporter) Run(ctx context.Context) (any, error) {
	started := time.Now()
	defer func() {
		runDuration.Observe(time.Since(started).Seconds())
	}()

	e.log.Info("Starting product processing.")
	devLog := e.log.Dev().With().Str("run", e.runID).Logger()

	// The page counter is tracked locally; the server-reported page
	// number is not trusted for progress reporting.
	var pageNum int
	err := pagination.Walk(ctx, e.paginationConfig(),
		func(ctx context.Context, page, itemsPerPage int) (*plenty.Page, error) {
			e.client.SetItemsPerPage(itemsPerPage).SetPage(page)
			return e.client.GetProducts(ctx, e.opts.Language)
		},
		func(page *plenty.Page) error {
			pageNum++
			return e.processProductPage(ctx, page, pageNum)
		},
	)
	if err != nil {
		if !client.IsThrottled(err) {
			return nil, err
		}
		e.log.Fatal("Stopping products processing because of throttling.")
		devLog.Error().Err(err).Msg("Aborting remainder of the run")
	}

	e.log.Info(fmt.Sprintf("Products processing finished. %d products were skipped.", e.skippedCount))
	if err := e.wrapper.AllItemsProcessed(); err != nil {
		return nil, err
	}
	e.log.Info("Data processing finished.")
	return e.wrapper.GetResults(), nil
}

// processProductPage indexes one product page by id, fetches every
// variation page for the id batch and aggregates each product.
func (e *Exporter) processProductPage(ctx context.Context, page *plenty.Page, pageNum int) error {
	if !page.HasEntries() {
		return &client.APIError{Class: client.ClassRecoverable, Message: "could not find any results"}
	}

	entries, err := plenty.DecodeEntries[plenty.Product](page)
	if err != nil {
		return err
	}

	products := make(map[int]plenty.Product, len(entries))
	for _, p := range entries {
		if p.ID <= 0 {
			e.trackSkipped(p.ID)
			devLog := e.log.Dev()
			devLog.Trace().Msg("Product was skipped as it has no id.")
			continue
		}
		products[p.ID] = p
	}

	start := (pageNum - 1) * e.opts.ItemsPerPage
	customerLog := e.log.Customer()
	customerLog.Info().Msg(fmt.Sprintf(
		"Processing items from %d to %d out of %d",
		start, start+len(entries), page.TotalsCount,
	))

	if len(products) > 0 {
		if err := e.processProductBatch(ctx, products); err != nil {
			if client.IsFatal(err) || client.IsThrottled(err) {
				return err
			}
			for id := range products {
				e.trackSkipped(id)
			}
			devLog := e.log.Dev()
			devLog.Warn().Err(err).Msg("Skipping product batch after recoverable error")
		}
	}

	if len(e.skippedIDs) > 0 {
		devLog := e.log.Dev()
		devLog.Debug().
			Ints("ids", e.skippedIDs).
			Msg("Products were skipped as they have no correct data (all variations could be inactive or etc.)")
		e.skippedIDs = nil
	}
	return nil
}

func (e *Exporter) processProductBatch(ctx context.Context, products map[int]plenty.Product) error {
	itemIDs := make([]int, 0, len(products))
	for id := range products {
		itemIDs = append(itemIDs, id)
	}
	sort.Ints(itemIDs)

	variations := make(map[int][]plenty.Variation)
	err := pagination.Walk(ctx, e.paginationConfig(),
		func(ctx context.Context, page, itemsPerPage int) (*plenty.Page, error) {
			e.client.SetItemsPerPage(itemsPerPage).SetPage(page)
			return e.client.GetProductVariations(ctx, itemIDs, e.storePlentyID)
		},
		func(page *plenty.Page) error {
			entries, err := plenty.DecodeEntries[plenty.Variation](page)
			if err != nil {
				return err
			}
			for _, variation := range entries {
				variations[variation.ItemID] = append(variations[variation.ItemID], variation)
			}
			return nil
		},
	)
	if err != nil {
		return err
	}

	for _, itemID := range itemIDs {
		batch, ok := variations[itemID]
		if !ok {
			e.trackSkipped(itemID)
			continue
		}

		item := e.newProductItem(products[itemID])
		for _, variation := range batch {
			item.ProcessVariation(variation)
		}

		if !item.HasValidData() {
			e.trackSkipped(itemID)
			continue
		}
		if err := e.wrapper.WrapItem(item.Results()); err != nil {
			return err
		}
		productsTotal.WithLabelValues("exported").Inc()
	}
	return nil
}

func (e *Exporter) newProductItem(data plenty.Product) *product.Item {
	item := product.New(e.registry, product.Options{
		LanguageCode:       e.opts.Language,
		AvailabilityIDs:    e.opts.AvailabilityIDs,
		PriceID:            e.opts.PriceID,
		RrpID:              e.opts.RrpID,
		Protocol:           e.client.Session().Scheme(),
		StoreURL:           e.client.Domain(),
		StorePlentyID:      e.storePlentyID,
		ProductNameFieldID: e.productNameFieldID,
	})
	item.ProcessInitialData(data)
	return item
}

func (e *Exporter) trackSkipped(itemID int) {
	e.skippedCount++
	e.skippedIDs = append(e.skippedIDs, itemID)
	productsTotal.WithLabelValues("skipped").Inc()
}
