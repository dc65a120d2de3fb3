package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"solar_estimator/internal/model"
)

// clearSkyIrradiance is the assumed cloudless daily irradiance used when a
// provider reports cloud cover but no radiation data.
const clearSkyIrradiance = 6.0 // kWh/m²/day

// OpenWeatherMap fetches current conditions from the OpenWeatherMap API.
// It reports no radiation data, so irradiance is estimated from cloud cover.
type OpenWeatherMap struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewOpenWeatherMap creates the provider. An empty API key makes every
// fetch fail, pushing the chain to the next provider.
func NewOpenWeatherMap(apiKey string) *OpenWeatherMap {
	return &OpenWeatherMap{
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (p *OpenWeatherMap) Name() string { return "openweathermap" }

// WithBaseURL overrides the API endpoint, for tests.
func (p *OpenWeatherMap) WithBaseURL(base string) *OpenWeatherMap {
	p.baseURL = base
	return p
}

// Fetch retrieves current weather for the coordinates.
func (p *OpenWeatherMap) Fetch(ctx context.Context, lat, lon float64) (model.WeatherReading, error) {
	if p.apiKey == "" {
		return model.WeatherReading{}, fmt.Errorf("openweathermap: API key not configured")
	}

	params := url.Values{}
	params.Add("lat", fmt.Sprintf("%f", lat))
	params.Add("lon", fmt.Sprintf("%f", lon))
	params.Add("appid", p.apiKey)
	params.Add("units", "metric")

	endpoint := fmt.Sprintf("%s/weather?%s", p.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return model.WeatherReading{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return model.WeatherReading{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.WeatherReading{}, fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return model.WeatherReading{}, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response struct {
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Clouds struct {
			All float64 `json:"all"`
		} `json:"clouds"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return model.WeatherReading{}, fmt.Errorf("parsing response: %w", err)
	}

	return model.NewWeatherReading(
		estimateIrradiance(response.Clouds.All),
		response.Main.Temp,
		response.Main.Humidity,
		response.Wind.Speed,
		response.Clouds.All,
		p.Name(),
	), nil
}

// estimateIrradiance derives daily irradiance from cloud cover: full overcast
// keeps 20% of the clear-sky value, floored at 1.0 kWh/m²/day.
func estimateIrradiance(cloudCover float64) float64 {
	irradiance := clearSkyIrradiance * (1 - cloudCover/100*0.8)
	if irradiance < 1.0 {
		return 1.0
	}
	return irradiance
}
