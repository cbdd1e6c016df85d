package resolver

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/opendatagr/geoview/pkg/model"
	"github.com/opendatagr/geoview/pkg/ogc"
)

// Sink receives constructed layer specs. A dispatch may call it zero times.
type Sink func(spec model.LayerSpec)

type strategy func(d *Dispatcher, ctx context.Context, res *model.Resource, plan model.FetchPlan, sink Sink) error

// strategies is the fixed format table. Formats outside it never dispatch.
var strategies = map[model.Format]strategy{
	model.FormatKML:         staticLayer,
	model.FormatGML:         staticLayer,
	model.FormatGeoJSON:     staticLayer,
	model.FormatEsriGeoJSON: staticLayer,
	model.FormatGFT:         fusionTableLayer,
	model.FormatWMS:         wmsLayers,
	model.FormatWFS:         wfsLayers,
	model.FormatWMTS:        wmtsLayers,
	model.FormatArcGISRest:  arcgisLayers,
	model.FormatEsriRest:    arcgisLayers,
}

type Dispatcher struct {
	logger   *slog.Logger
	services ogc.ServiceClient
}

func NewDispatcher(services ogc.ServiceClient, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		logger:   logger,
		services: services,
	}
}

// Dispatch looks up the extraction strategy for the resource's format and
// invokes the sink with each constructed layer spec. A missing or
// unrecognized format is a no-op, not an error: the resource just renders no
// layer. Capability-fetch errors are returned for the caller to log; the
// inputs are never mutated.
func (d *Dispatcher) Dispatch(ctx context.Context, res *model.Resource, plan model.FetchPlan, sink Sink) error {
	if res == nil || res.Format == "" {
		return nil
	}

	format, ok := model.ParseFormat(res.Format)
	if !ok {
		d.logger.Debug("no strategy for format", "format", res.Format, "resource", res.ID)
		return nil
	}

	strat, ok := strategies[format]
	if !ok {
		return nil
	}

	return strat(d, ctx, res, plan, sink)
}

// staticLayer serves file formats read directly from a URL. The resolved
// proxy URL wins over the raw one so the fetch stays same-origin.
func staticLayer(_ *Dispatcher, _ context.Context, res *model.Resource, plan model.FetchPlan, sink Sink) error {
	format, _ := model.ParseFormat(res.Format)

	sink(model.LayerSpec{
		Type:  format,
		Title: res.Name,
		URL:   plan.EffectiveURL(res.URL),
	})

	return nil
}

// fusionTableLayer builds a layer from a Fusion Tables URL; the table id
// rides in the docid query parameter.
func fusionTableLayer(_ *Dispatcher, _ context.Context, res *model.Resource, plan model.FetchPlan, sink Sink) error {
	spec := model.LayerSpec{
		Type:  model.FormatGFT,
		Title: res.Name,
		URL:   plan.EffectiveURL(res.URL),
	}

	if u, err := url.Parse(res.URL); err == nil {
		spec.LayerName = u.Query().Get("docid")
	}

	sink(spec)

	return nil
}

func wmsLayers(d *Dispatcher, ctx context.Context, res *model.Resource, plan model.FetchPlan, sink Sink) error {
	serviceURL, wanted := SplitServiceURL(res.URL)

	names, err := d.services.WMSLayerNames(ctx, serviceURL)
	if err != nil {
		return err
	}

	for _, name := range selectLayers(names, wanted) {
		sink(model.LayerSpec{
			Type:      model.FormatWMS,
			Title:     res.Name,
			URL:       serviceURL,
			LayerName: name,
			Params:    map[string]string{"LAYERS": name},
		})
	}

	return nil
}

func wfsLayers(d *Dispatcher, ctx context.Context, res *model.Resource, plan model.FetchPlan, sink Sink) error {
	serviceURL, wanted := SplitServiceURL(res.URL)

	names, err := d.services.WFSFeatureTypes(ctx, serviceURL)
	if err != nil {
		return err
	}

	for _, name := range selectLayers(names, wanted) {
		sink(model.LayerSpec{
			Type:      model.FormatWFS,
			Title:     res.Name,
			URL:       serviceURL,
			LayerName: name,
			Params:    map[string]string{"typename": name},
		})
	}

	return nil
}

func wmtsLayers(d *Dispatcher, ctx context.Context, res *model.Resource, plan model.FetchPlan, sink Sink) error {
	serviceURL, wanted := SplitServiceURL(res.URL)

	names, err := d.services.WMTSLayers(ctx, serviceURL)
	if err != nil {
		return err
	}

	for _, name := range selectLayers(names, wanted) {
		sink(model.LayerSpec{
			Type:      model.FormatWMTS,
			Title:     res.Name,
			URL:       serviceURL,
			LayerName: name,
		})
	}

	return nil
}

func arcgisLayers(d *Dispatcher, ctx context.Context, res *model.Resource, plan model.FetchPlan, sink Sink) error {
	serviceURL, wanted := SplitServiceURL(res.URL)

	layers, err := d.services.ArcGISLayers(ctx, serviceURL)
	if err != nil {
		return err
	}

	format, _ := model.ParseFormat(res.Format)

	for _, l := range layers {
		if wanted != "" && l.Name != wanted && strconv.Itoa(l.ID) != wanted {
			continue
		}

		sink(model.LayerSpec{
			Type:      format,
			Title:     res.Name,
			URL:       serviceURL,
			LayerName: l.Name,
			Params:    map[string]string{"layer_id": strconv.Itoa(l.ID)},
		})
	}

	return nil
}

// selectLayers narrows advertised names to the one requested after the "#",
// when any. An unknown requested name is still honored: the service may
// accept names it does not advertise.
func selectLayers(names []string, wanted string) []string {
	if wanted == "" {
		return names
	}

	for _, n := range names {
		if n == wanted {
			return []string{n}
		}
	}

	return []string{wanted}
}
