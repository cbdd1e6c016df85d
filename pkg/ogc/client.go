package ogc

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:125.0) Gecko/20100101 Firefox/125.0"

// ArcGISLayer is one sublayer advertised by an ArcGIS REST service.
type ArcGISLayer struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ServiceClient lists the layers a remote geospatial service advertises.
// Protocol details (GetCapabilities and friends) live behind this interface;
// the dispatcher only consumes names.
type ServiceClient interface {
	WMSLayerNames(ctx context.Context, serviceURL string) ([]string, error)
	WFSFeatureTypes(ctx context.Context, serviceURL string) ([]string, error)
	WMTSLayers(ctx context.Context, serviceURL string) ([]string, error)
	ArcGISLayers(ctx context.Context, serviceURL string) ([]ArcGISLayer, error)
}

var _ ServiceClient = &Client{}

type Client struct {
	logger *slog.Logger
	cl     *http.Client
}

func NewClient(logger *slog.Logger) *Client {
	return &Client{
		logger: logger,
		cl: &http.Client{
			Timeout: time.Second * 10,
			Transport: &http.Transport{
				ResponseHeaderTimeout: time.Second * 10,
			},
		},
	}
}

func (c *Client) WMSLayerNames(ctx context.Context, serviceURL string) ([]string, error) {
	data, err := c.get(ctx, capabilitiesURL(serviceURL, "WMS"))
	if err != nil {
		return nil, err
	}

	var caps wmsCapabilities
	if err := xml.Unmarshal(data, &caps); err != nil {
		return nil, fmt.Errorf("wms capabilities: %w", err)
	}

	var names []string
	collectWMSNames(&caps.Capability.Layer, &names)

	return names, nil
}

func (c *Client) WFSFeatureTypes(ctx context.Context, serviceURL string) ([]string, error) {
	data, err := c.get(ctx, capabilitiesURL(serviceURL, "WFS"))
	if err != nil {
		return nil, err
	}

	var caps wfsCapabilities
	if err := xml.Unmarshal(data, &caps); err != nil {
		return nil, fmt.Errorf("wfs capabilities: %w", err)
	}

	var names []string
	for _, ft := range caps.FeatureTypeList.FeatureTypes {
		if ft.Name != "" {
			names = append(names, ft.Name)
		}
	}

	return names, nil
}

func (c *Client) WMTSLayers(ctx context.Context, serviceURL string) ([]string, error) {
	data, err := c.get(ctx, capabilitiesURL(serviceURL, "WMTS"))
	if err != nil {
		return nil, err
	}

	var caps wmtsCapabilities
	if err := xml.Unmarshal(data, &caps); err != nil {
		return nil, fmt.Errorf("wmts capabilities: %w", err)
	}

	var names []string
	for _, l := range caps.Contents.Layers {
		if l.Identifier != "" {
			names = append(names, l.Identifier)
		}
	}

	return names, nil
}

func (c *Client) ArcGISLayers(ctx context.Context, serviceURL string) ([]ArcGISLayer, error) {
	u := serviceURL
	if !strings.Contains(u, "f=json") {
		u += querySep(u) + "f=json"
	}

	data, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var info struct {
		Layers []ArcGISLayer `json:"layers"`
		Error  *struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("arcgis service info: %w", err)
	}

	if info.Error != nil {
		return nil, fmt.Errorf("arcgis service: %s", info.Error.Message)
	}

	return info.Layers, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := c.cl.Do(req)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s error %s", u, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

func capabilitiesURL(serviceURL, service string) string {
	return serviceURL + querySep(serviceURL) +
		"service=" + url.QueryEscape(service) + "&request=GetCapabilities"
}

func querySep(u string) string {
	if strings.Contains(u, "?") {
		return "&"
	}

	return "?"
}

type wmsCapabilities struct {
	Capability struct {
		Layer wmsLayer `xml:"Layer"`
	} `xml:"Capability"`
}

type wmsLayer struct {
	Name   string     `xml:"Name"`
	Layers []wmsLayer `xml:"Layer"`
}

func collectWMSNames(l *wmsLayer, names *[]string) {
	if l.Name != "" {
		*names = append(*names, l.Name)
	}

	for i := range l.Layers {
		collectWMSNames(&l.Layers[i], names)
	}
}

type wfsCapabilities struct {
	FeatureTypeList struct {
		FeatureTypes []struct {
			Name string `xml:"Name"`
		} `xml:"FeatureType"`
	} `xml:"FeatureTypeList"`
}

type wmtsCapabilities struct {
	Contents struct {
		Layers []struct {
			Identifier string `xml:"Identifier"`
		} `xml:"Layer"`
	} `xml:"Contents"`
}
